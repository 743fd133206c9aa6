package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/intervention-engine/cvdriskservice/ascvd"
	"github.com/intervention-engine/cvdriskservice/assessments"
	"github.com/intervention-engine/cvdriskservice/record"
	"github.com/intervention-engine/cvdriskservice/terminology"
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate the 10-year risk for one FHIR bundle",
	Long: `calculate reads a FHIR bundle holding one patient's records, extracts the
risk profile and prints it with the Pooled Cohort Equations result as JSON.
Patients outside the validated age range are reported as out of domain.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bundlePath, _ := cmd.Flags().GetString("bundle")
		today, _ := cmd.Flags().GetString("today")
		dump, _ := cmd.Flags().GetBool("dump")
		codes, _ := cmd.Flags().GetString("codes")

		table, err := loadCodeTable(codes)
		if err != nil {
			return err
		}
		return runCalculate(cmd.OutOrStdout(), table, bundlePath, today, dump)
	},
}

func init() {
	calculateCmd.Flags().String("bundle", "", "path to a FHIR bundle JSON file (required)")
	calculateCmd.Flags().String("today", "", "reference date for the patient's age, YYYY-MM-DD (default: now)")
	calculateCmd.Flags().Bool("dump", false, "dump the extracted profile before the report")
	calculateCmd.MarkFlagRequired("bundle")

	rootCmd.AddCommand(calculateCmd)
}

// calculation is the report printed by the calculate command.
type calculation struct {
	Profile ascvd.Profile `json:"profile"`
	Result  ascvd.Result  `json:"result"`
}

func runCalculate(w io.Writer, table terminology.CodeTable, bundlePath, today string, dump bool) error {
	data, err := os.Open(bundlePath)
	if err != nil {
		return fmt.Errorf("open bundle: %w", err)
	}
	defer data.Close()

	bundle := new(record.Bundle)
	if err := json.NewDecoder(data).Decode(bundle); err != nil {
		return fmt.Errorf("decode bundle %s: %w", bundlePath, err)
	}
	res, err := bundle.Resources()
	if err != nil {
		return err
	}

	pce := assessments.NewPCEPlugin(table)
	if today != "" {
		t, err := time.Parse("2006-01-02", today)
		if err != nil {
			return fmt.Errorf("parse --today: %w", err)
		}
		pce.Extractor.Now = func() time.Time { return t }
	}

	profile, result, err := pce.Assess(res)
	if err != nil {
		return err
	}
	if dump {
		spew.Fdump(w, profile)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(calculation{Profile: profile, Result: result})
}
