// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-utilizer/internal/operation"
)

var operationsCmd = &cobra.Command{
	Use:   "operations",
	Short: "List the operations offered by the service",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), operationsTable(catalog.Specs()))
	},
}

func operationsTable(specs []operation.Spec) string {
	rows := make([][]string, 0, len(specs))
	for _, s := range specs {
		rows = append(rows, []string{s.Name, s.Endpoint, describeInputs(s), s.OutputType})
	}
	return renderTable([]string{"Operation", "Endpoint", "Inputs", "Output"}, rows)
}

func describeInputs(s operation.Spec) string {
	var parts []string
	for _, slot := range s.Files {
		switch {
		case slot.Max == 0:
			parts = append(parts, fmt.Sprintf("%s (%d+ files)", slot.Field, slot.Min))
		default:
			parts = append(parts, slot.Field)
		}
	}
	for _, p := range s.Params {
		name := p.Name
		if !p.Required {
			name += "?"
		}
		parts = append(parts, name)
	}
	if s.Encoding == operation.EncodingJSON {
		return "JSON {" + strings.Join(parts, ", ") + "}"
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(operationsCmd)
}
