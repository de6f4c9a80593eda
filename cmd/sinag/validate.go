package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"sinag/internal/indicator"
)

func validateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that indicator documents are well formed",
	}
	cmd.AddCommand(validateDocumentCmd(opts, "schema", "Validate a calculation schema", indicator.DocumentCalculationSchema))
	cmd.AddCommand(validateDocumentCmd(opts, "checklist", "Validate a checklist config", indicator.DocumentChecklistConfig))
	return cmd
}

func validateDocumentCmd(opts *rootOptions, use, short, document string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readDocument(file)
			if err != nil {
				return err
			}

			ruleSet, err := opts.rules(opts.logger())
			if err != nil {
				return err
			}

			var schema, checklistCfg json.RawMessage
			if document == indicator.DocumentCalculationSchema {
				schema = raw
			} else {
				checklistCfg = raw
			}

			resp := ruleSet.Validator.Check(schema, checklistCfg)
			if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			if !resp.Valid {
				return fmt.Errorf("%s is not a valid %s", file, document)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Document to validate (JSON or YAML)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
