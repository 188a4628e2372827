// Package main is the entry point for the SurveyLens server and CLI.
package main

func main() {
	Execute()
}
