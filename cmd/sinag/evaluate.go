package main

import (
	"github.com/spf13/cobra"

	"sinag/internal/assessment"
	"sinag/internal/config"
	"sinag/pkg/checklist"
)

func evaluateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a calculation schema or checklist against a data file",
	}
	cmd.AddCommand(evaluateSchemaCmd(opts))
	cmd.AddCommand(evaluateChecklistCmd(opts))
	return cmd
}

// newEvaluator builds an assessment service without storage or broker, the
// same evaluation path the validation service uses for ad hoc requests.
func newEvaluator(opts *rootOptions) (*assessment.Service, error) {
	log := opts.logger()
	ruleSet, err := opts.rules(log)
	if err != nil {
		return nil, err
	}
	catalog := assessment.NewCatalog(nil, ruleSet.Validator, config.ReloadConfig{}, log)
	return assessment.NewService(catalog, ruleSet.Engine, checklist.NewValidator(checklist.WithLogger(log)), assessment.WithLogger(log)), nil
}

func evaluateSchemaCmd(opts *rootOptions) *cobra.Command {
	var schemaFile, dataFile string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Evaluate a calculation schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := readDocument(schemaFile)
			if err != nil {
				return err
			}
			var data map[string]interface{}
			if dataFile != "" {
				if data, err = readData(dataFile); err != nil {
					return err
				}
			}

			svc, err := newEvaluator(opts)
			if err != nil {
				return err
			}
			resp, err := svc.EvaluateSchema(cmd.Context(), assessment.SchemaEvaluationRequest{
				CalculationSchema: schema,
				Data:              data,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&schemaFile, "schema", "", "Calculation schema file (JSON or YAML)")
	cmd.Flags().StringVar(&dataFile, "data", "", "Response data file (JSON or YAML)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func evaluateChecklistCmd(opts *rootOptions) *cobra.Command {
	var configFile, dataFile string

	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Validate a submission against a checklist config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readDocument(configFile)
			if err != nil {
				return err
			}
			var submission map[string]interface{}
			if dataFile != "" {
				if submission, err = readData(dataFile); err != nil {
					return err
				}
			}

			svc, err := newEvaluator(opts)
			if err != nil {
				return err
			}
			resp, err := svc.EvaluateChecklist(cmd.Context(), assessment.ChecklistEvaluationRequest{
				ChecklistConfig: cfg,
				Submission:      submission,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Checklist config file (JSON or YAML)")
	cmd.Flags().StringVar(&dataFile, "data", "", "Submission file (JSON or YAML)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
