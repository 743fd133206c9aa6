package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/intervention-engine/cvdriskservice/terminology"
)

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "Print the effective code table",
	Long: `codes prints the LOINC and SNOMED codes the extractors recognize, with any
--codes file layered over the built-in table.  The output can be edited and
passed back with --codes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		codes, _ := cmd.Flags().GetString("codes")
		table, err := loadCodeTable(codes)
		if err != nil {
			return err
		}
		return runCodes(cmd.OutOrStdout(), table)
	},
}

func init() {
	rootCmd.AddCommand(codesCmd)
}

func runCodes(w io.Writer, table terminology.CodeTable) error {
	data, err := table.Encode()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
