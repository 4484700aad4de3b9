package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"clipkeeper/internal/annotations"
	"clipkeeper/internal/logging"
	"clipkeeper/internal/subsample"
)

type subsampleOutput struct {
	Input  string           `json:"input"`
	Output string           `json:"output"`
	Result subsample.Result `json:"result"`
}

func newSubsampleCommand(ctx *commandContext) *cobra.Command {
	var (
		input       string
		output      string
		samples     int
		classes     int
		seed        int64
		labelColumn string
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "subsample",
		Short: "Write a class-balanced subset of an annotation table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd, cfg)
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "subsample")

			input = strings.TrimSpace(input)
			if input == "" {
				return errors.New("--input is required")
			}
			if samples <= 0 {
				return errors.New("--samples must be a positive number")
			}
			if strings.TrimSpace(output) == "" {
				output = annotations.DerivedPath(input, fmt.Sprintf("_%d", samples))
			}
			if sameFile(input, output) {
				return errors.New("--output must differ from --input")
			}
			if !cmd.Flags().Changed("classes") {
				classes = cfg.Subsample.DatasetClasses
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Subsample.Seed
			}
			if strings.TrimSpace(labelColumn) == "" {
				labelColumn = cfg.Dataset.LabelColumn
			}

			table, err := annotations.Load(input)
			if err != nil {
				return err
			}
			subset, result, err := subsample.New(classes, seed).Sample(table, labelColumn, samples)
			if err != nil {
				return fmt.Errorf("subsample %s: %w", input, err)
			}
			if err := subset.Save(output); err != nil {
				return err
			}

			logger.Info("subsample written",
				logging.String("input", input),
				logging.String("output", output),
				logging.Int("requested", result.Requested),
				logging.Int("selected", result.Selected),
				logging.Int("classes", result.Classes),
				logging.Int("quota", result.Quota),
				logging.Int("filled", result.Filled),
			)
			if result.Selected < result.Requested {
				logging.WarnWithContext(logger, "subsample short of requested rows", "subsample_shortfall",
					logging.Int("requested", result.Requested),
					logging.Int("selected", result.Selected),
					logging.Int("shortfall", result.Requested-result.Selected),
					logging.Int("remainder", result.Remainder),
					logging.Int("filled", result.Filled),
					logging.Int("class_bound", classes),
					logging.String(logging.FieldErrorHint, "remainder indices beyond the present classes add no rows; lower --classes toward the number of labels to fill more"),
					logging.String(logging.FieldImpact, "output has fewer rows than requested"),
				)
			}

			if jsonOut {
				return writeJSON(cmd, subsampleOutput{Input: input, Output: output, Result: result})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s of %s requested rows to %s\n", formatCount(result.Selected), formatCount(result.Requested), output)
			fmt.Fprintf(out, "Classes: %s, quota per class: %s, remainder: %s, filled: %s\n",
				formatCount(result.Classes), formatCount(result.Quota), formatCount(result.Remainder), formatCount(result.Filled))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Annotation table to sample from")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination table (defaults to <input>_<samples>.csv)")
	cmd.Flags().IntVarP(&samples, "samples", "n", 0, "Total number of rows to draw")
	cmd.Flags().IntVar(&classes, "classes", subsample.DefaultClasses, "Size of the class-index space used to fill the remainder")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 seeds from the clock)")
	cmd.Flags().StringVar(&labelColumn, "label-column", "", "Column holding the class label (defaults to dataset.label_column)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the result as JSON")
	return cmd
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
