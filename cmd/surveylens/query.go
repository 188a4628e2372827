package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/surveylens/surveylens/pkg/models"
)

var (
	queryMetric    string
	queryGroup     string
	queryExclusion float64
)

var queryCmd = &cobra.Command{
	Use:   "query <category>",
	Short: "Run one metric query and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryMetric, "metric", string(models.MetricPropHave), "metric kind (see the metrics API for the full list)")
	queryCmd.Flags().StringVar(&queryGroup, "group", "", "grouping dimension for a pivot result")
	queryCmd.Flags().Float64Var(&queryExclusion, "exclusion", 0, "exclusion threshold in (0, 0.25]; 0 disables filtering")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	metric, err := models.ParseMetricKind(queryMetric)
	if err != nil {
		return err
	}
	req := models.TechRequest{Category: args[0], Metric: metric}
	if queryGroup != "" {
		req.Groups = []string{queryGroup}
	}
	if queryExclusion != 0 {
		if queryExclusion < 0 || queryExclusion > 0.25 {
			return fmt.Errorf("%w: %g not in (0, 0.25]", models.ErrBadThreshold, queryExclusion)
		}
		req.Exclusion = &queryExclusion
	}

	eng, err := loadEngine()
	if err != nil {
		return err
	}
	resp, err := eng.Compute(req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
