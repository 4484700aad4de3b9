package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"clipkeeper/internal/clipid"
	"clipkeeper/internal/dataset"
	"clipkeeper/internal/preflight"
)

type splitStatus struct {
	Split string `json:"split"`
	Clips int    `json:"clips"`
}

type statusOutput struct {
	Root      string             `json:"root"`
	Checks    []preflight.Result `json:"checks"`
	Splits    []splitStatus      `json:"splits"`
	PoolClips int                `json:"pool_clips"`
	PoolIDs   []string           `json:"pool_ids"`
	Ready     bool               `json:"ready"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status [root]",
		Short: "Check the dataset layout and external dependencies",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.datasetConfig(args)
			if err != nil {
				return err
			}
			layout := dataset.LayoutFromConfig(cfg, "")
			resolver := clipid.NewResolver(cfg.Dataset.IDLength)

			status := statusOutput{Root: layout.Root}
			status.Checks = preflight.RunAll(cmd.Context(), cfg, layout)
			status.Ready = len(preflight.Failed(status.Checks)) == 0
			for _, split := range layout.Splits {
				entries, err := dataset.Scan(cmd.Context(), layout.SplitDir(split), layout.Extension, resolver)
				if err != nil {
					return err
				}
				status.Splits = append(status.Splits, splitStatus{Split: split, Clips: len(entries)})
			}
			pool, _, err := dataset.BuildReplacementIndex(cmd.Context(), layout, resolver)
			if err != nil {
				return err
			}
			status.PoolClips = pool.Len()
			status.PoolIDs = pool.IDs()

			if jsonOut {
				return writeJSON(cmd, status)
			}
			printStatus(cmd.OutOrStdout(), status, shouldColorize(cmd.OutOrStdout()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit status as JSON")
	return cmd
}

func printStatus(out io.Writer, status statusOutput, colorize bool) {
	for _, line := range renderSectionHeader("Checks", colorize) {
		fmt.Fprintln(out, line)
	}
	for _, check := range status.Checks {
		kind := statusOK
		switch {
		case !check.Passed && check.Advisory:
			kind = statusWarn
		case !check.Passed:
			kind = statusError
		}
		fmt.Fprintln(out, renderStatusLine(check.Name, kind, check.Detail, colorize))
	}

	fmt.Fprintln(out)
	for _, line := range renderSectionHeader("Dataset", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("Root", statusInfo, status.Root, colorize))
	for _, split := range status.Splits {
		fmt.Fprintln(out, renderStatusLine(splitLabel(split.Split), statusInfo, formatCount(split.Clips)+" clips", colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Replacement pool", statusInfo, formatCount(status.PoolClips)+" clips", colorize))

	readyKind := statusOK
	if !status.Ready {
		readyKind = statusError
	}
	fmt.Fprintln(out, renderStatusLine("Ready", readyKind, yesNo(status.Ready), colorize))
}
