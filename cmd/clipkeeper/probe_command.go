package main

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"clipkeeper/internal/clipid"
	"clipkeeper/internal/media/ffprobe"
	"clipkeeper/internal/probe"
)

type probeOutput struct {
	Path            string      `json:"path"`
	CanonicalID     string      `json:"canonical_id"`
	State           probe.State `json:"state"`
	Frames          int         `json:"frames"`
	FramesRequested int         `json:"frames_requested"`
	VideoStreams    int         `json:"video_streams,omitempty"`
	Codec           string      `json:"codec,omitempty"`
	Width           int         `json:"width,omitempty"`
	Height          int         `json:"height,omitempty"`
	Duration        float64     `json:"duration_seconds,omitempty"`
	SizeBytes       int64       `json:"size_bytes,omitempty"`
	Detail          string      `json:"detail,omitempty"`
}

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "probe FILE...",
		Short: "Classify individual clips the way reconcile does",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			prober := newProber(cfg)
			resolver := clipid.NewResolver(cfg.Dataset.IDLength)

			outputs := make([]probeOutput, 0, len(args))
			for _, path := range args {
				result := prober.Probe(cmd.Context(), path)
				entry := probeOutput{
					Path:            path,
					CanonicalID:     resolver.ID(path),
					State:           result.State,
					Frames:          result.Frames,
					FramesRequested: prober.FrameCount(),
				}
				if result.Cause != nil {
					entry.Detail = result.Cause.Error()
				}
				if result.Healthy() {
					describeStream(cmd, cfg.FFprobeBinary(), &entry)
				}
				outputs = append(outputs, entry)
			}

			if jsonOut {
				return writeJSON(cmd, outputs)
			}
			colorize := shouldColorize(cmd.OutOrStdout())
			spec := tableSpec{
				Headers: []string{"File", "ID", "State", "Frames", "Codec", "Resolution", "Duration", "Size", "Detail"},
				Aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			}
			for _, o := range outputs {
				resolution, duration, size := "-", "-", "-"
				if o.Width > 0 && o.Height > 0 {
					resolution = fmt.Sprintf("%dx%d", o.Width, o.Height)
				}
				if o.Duration > 0 {
					duration = (time.Duration(o.Duration * float64(time.Second))).Round(100 * time.Millisecond).String()
				}
				if o.SizeBytes > 0 {
					size = formatBytes(o.SizeBytes)
				}
				spec.Rows = append(spec.Rows, []string{
					o.Path,
					o.CanonicalID,
					colorText(o.State.String(), stateKind(o.State), colorize),
					fmt.Sprintf("%d/%d", o.Frames, o.FramesRequested),
					o.Codec,
					resolution,
					duration,
					size,
					o.Detail,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), spec.render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	return cmd
}

// describeStream fills stream metadata for a healthy clip. Inspection
// failures are reported in Detail but never change the classification.
func describeStream(cmd *cobra.Command, binary string, entry *probeOutput) {
	info, err := ffprobe.Inspect(cmd.Context(), binary, entry.Path)
	if err != nil {
		entry.Detail = err.Error()
		return
	}
	entry.VideoStreams = info.VideoStreamCount()
	if stream, ok := info.VideoStream(); ok {
		entry.Codec = stream.CodecName
		entry.Width = stream.Width
		entry.Height = stream.Height
	}
	if d := info.DurationSeconds(); !math.IsNaN(d) {
		entry.Duration = d
	}
	entry.SizeBytes = info.SizeBytes()
}
