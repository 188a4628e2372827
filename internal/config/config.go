// Package config loads the server configuration from a YAML file and fills
// in defaults matching the 2023 developer survey and the rural investments
// release.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/surveylens/surveylens/internal/storage"
)

// StorageConfig selects the result cache backend.
type StorageConfig struct {
	Backend        string `yaml:"backend"`
	SQLitePath     string `yaml:"sqlite_path"`
	ClickHouseAddr string `yaml:"clickhouse_addr"`
}

// Config is the full server configuration.
type Config struct {
	// Listen is the HTTP listen address for the API and UI.
	Listen string `yaml:"listen"`

	// SurveyCSV and InvestmentsCSV locate the source files. An empty
	// InvestmentsCSV disables the investment routes.
	SurveyCSV      string `yaml:"survey_csv"`
	InvestmentsCSV string `yaml:"investments_csv"`

	Storage StorageConfig `yaml:"storage"`

	// Groups lists the survey grouping dimensions exposed for heat maps.
	Groups []string `yaml:"groups"`

	// Remaps shortens long categorical answers, keyed by column then by
	// source value.
	Remaps map[string]map[string]string `yaml:"remaps"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:         ":8080",
		SurveyCSV:      "survey_results_public.csv",
		InvestmentsCSV: "rural-investments.csv",
		Storage: StorageConfig{
			Backend:        "memory",
			SQLitePath:     "surveylens.db",
			ClickHouseAddr: "localhost:9000",
		},
		Groups: []string{
			"Age",
			"EdLevel",
			"MainBranch",
			"PurchaseInfluence",
			"YearsCodeBuckets",
			"YearsCodeProBuckets",
		},
		Remaps: map[string]map[string]string{
			"EdLevel": {
				"Primary/elementary school": "Primary School",
				"Secondary school (e.g. American high school, German Realschule or Gymnasium, etc.)": "Secondary School",
				"Some college/university study without earning a degree":                             "Some College/University",
				"Associate degree (A.A., A.S., etc.)":                                                "Associate Degree",
				"Bachelor’s degree (B.A., B.S., B.Eng., etc.)":                                       "Bachelor's Degree",
				"Master’s degree (M.A., M.S., M.Eng., MBA, etc.)":                                    "Master's Degree",
				"Professional degree (JD, MD, Ph.D, Ed.D, etc.)":                                     "Professional Degree",
				"Something else": "Other",
			},
			"MainBranch": {
				"I am a developer by profession": "Developer",
				"I am not primarily a developer, but I write code sometimes as part of my work/studies": "Code Sometimes",
				"I used to be a developer by profession, but no longer am":                              "Ex-Developer",
				"I am learning to code":          "Learning to Code",
				"I code primarily as a hobby":    "Code as Hobby",
				"None of these":                  "Other",
			},
			"PurchaseInfluence": {
				"I have little or no influence":      "Little or No Influence",
				"I have some influence":              "Some Influence",
				"I have a great deal of influence":   "Great Influence",
			},
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if c.SurveyCSV == "" {
		return fmt.Errorf("survey_csv cannot be empty")
	}
	switch c.Storage.Backend {
	case "memory", "sqlite", "clickhouse":
	default:
		return fmt.Errorf("unknown storage backend: %s (supported: memory, sqlite, clickhouse)", c.Storage.Backend)
	}
	return nil
}

// StorageConfigFor converts to the storage factory's config.
func (c Config) StorageConfigFor() storage.Config {
	return storage.Config{
		Backend:        c.Storage.Backend,
		SQLitePath:     c.Storage.SQLitePath,
		ClickHouseAddr: c.Storage.ClickHouseAddr,
	}
}
