// Package main is the entry point for the cardiovascular risk service.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/intervention-engine/cvdriskservice/terminology"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "cvdriskservice",
	Short: "10-year cardiovascular risk from FHIR patient records",
	Long: `cvdriskservice estimates a patient's 10-year risk of atherosclerotic
cardiovascular disease with the ACC/AHA Pooled Cohort Equations.

Use "serve" to run the HTTP risk service or "calculate" to score a single
FHIR bundle from disk.  "codes" prints the code table in effect.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("codes", "", "YAML code table overriding the built-in LOINC/SNOMED codes")
}

// loadCodeTable returns the built-in table, or the table at path layered over it.
func loadCodeTable(path string) (terminology.CodeTable, error) {
	if path == "" {
		return terminology.DefaultCodeTable(), nil
	}
	return terminology.LoadCodeTable(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
