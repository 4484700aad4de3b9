package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio"},
			{CodecType: "video", CodecName: "h264", Width: 320, Height: 240},
		},
		Format: Format{
			Duration: "10.01",
			Size:     "1000",
		},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	video, ok := result.VideoStream()
	if !ok || video.CodecName != "h264" {
		t.Fatalf("unexpected video stream: %+v ok=%v", video, ok)
	}
	if result.DurationSeconds() != 10.01 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad", Size: "-1"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if (Stream{NBReadFrames: "x"}).ReadFrames() != 0 {
		t.Fatal("expected malformed nb_read_frames to read as 0")
	}
}

func writeStub(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffprobe")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCountFramesParsesReadFrames(t *testing.T) {
	stub := writeStub(t, `echo '{"programs":[],"streams":[{"nb_read_frames":"3"}]}'`)
	n, err := CountFrames(context.Background(), stub, "/tmp/clip.mp4", 3)
	if err != nil {
		t.Fatalf("CountFrames: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 frames, got %d", n)
	}
}

func TestCountFramesNoVideoStream(t *testing.T) {
	stub := writeStub(t, `echo '{"programs":[],"streams":[]}'`)
	n, err := CountFrames(context.Background(), stub, "/tmp/clip.mp4", 3)
	if err != nil {
		t.Fatalf("CountFrames: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 frames, got %d", n)
	}
}

func TestCountFramesStderrIsError(t *testing.T) {
	stub := writeStub(t, `echo '[h264 @ 0x1] Invalid NAL unit size' >&2
echo '{"streams":[{"nb_read_frames":"1"}]}'`)
	_, err := CountFrames(context.Background(), stub, "/tmp/clip.mp4", 3)
	if err == nil {
		t.Fatal("expected error when decoder reports diagnostics")
	}
	if !strings.Contains(err.Error(), "Invalid NAL unit size") {
		t.Fatalf("expected diagnostic in error, got %v", err)
	}
}

func TestCountFramesNonZeroExit(t *testing.T) {
	stub := writeStub(t, `echo 'moov atom not found' >&2
exit 1`)
	if _, err := CountFrames(context.Background(), stub, "/tmp/clip.mp4", 3); err == nil {
		t.Fatal("expected error on non-zero exit")
	}
}

func TestCountFramesEmptyPath(t *testing.T) {
	if _, err := CountFrames(context.Background(), "ffprobe", "  ", 3); err == nil {
		t.Fatal("expected error for empty path")
	}
}
