package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type fakeDecoder struct {
	frames int
	err    error
	delay  time.Duration
	panics bool
}

func (f fakeDecoder) DecodeFrames(ctx context.Context, path string, frames int) (int, error) {
	if f.panics {
		panic("boom")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if f.err != nil {
		return 0, f.err
	}
	if f.frames > frames {
		return frames, nil
	}
	return f.frames, nil
}

func touch(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aaaaaaaaaaa.mp4")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestProbeClassification(t *testing.T) {
	existing := touch(t)
	missing := filepath.Join(t.TempDir(), "nope.mp4")
	decodeErr := errors.New("moov atom not found")

	tests := []struct {
		name    string
		path    string
		decoder Decoder
		want    State
		wantErr error
	}{
		{name: "healthy", path: existing, decoder: fakeDecoder{frames: 10}, want: StateHealthy},
		{name: "missing", path: missing, decoder: fakeDecoder{frames: 10}, want: StateMissing, wantErr: ErrMissingFile},
		{name: "empty", path: existing, decoder: fakeDecoder{frames: 0}, want: StateEmpty, wantErr: ErrEmptyDecode},
		{name: "decode error", path: existing, decoder: fakeDecoder{err: decodeErr}, want: StateDecodeError, wantErr: decodeErr},
		{name: "panic recovered", path: existing, decoder: fakeDecoder{panics: true}, want: StateDecodeError},
		{name: "nil decoder", path: existing, decoder: nil, want: StateDecodeError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := New(tc.decoder)
			result := p.Probe(context.Background(), tc.path)
			if result.State != tc.want {
				t.Fatalf("state = %s, want %s (cause %v)", result.State, tc.want, result.Cause)
			}
			if tc.want == StateHealthy {
				if !result.Healthy() || result.Err() != nil {
					t.Fatalf("expected healthy result without error, got %v", result.Err())
				}
				if result.Frames != DefaultFrameCount {
					t.Fatalf("expected %d frames, got %d", DefaultFrameCount, result.Frames)
				}
				return
			}
			if result.Healthy() {
				t.Fatal("expected non-healthy result")
			}
			if result.Err() == nil {
				t.Fatal("expected error for non-healthy result")
			}
			if tc.wantErr != nil && !errors.Is(result.Err(), tc.wantErr) {
				t.Fatalf("expected %v in chain, got %v", tc.wantErr, result.Err())
			}
		})
	}
}

func TestProbeDecodeErrorCarriesCause(t *testing.T) {
	path := touch(t)
	cause := errors.New("invalid data found when processing input")
	result := New(fakeDecoder{err: cause}).Probe(context.Background(), path)

	var decodeErr *DecodeError
	if !errors.As(result.Err(), &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T", result.Err())
	}
	if decodeErr.Path != path {
		t.Fatalf("unexpected path %q", decodeErr.Path)
	}
	if !errors.Is(decodeErr, cause) {
		t.Fatal("expected cause to unwrap")
	}
}

func TestProbeTimeout(t *testing.T) {
	path := touch(t)
	p := New(fakeDecoder{frames: 3, delay: time.Second}, WithTimeout(20*time.Millisecond))
	result := p.Probe(context.Background(), path)
	if result.State != StateDecodeError {
		t.Fatalf("expected decode error on timeout, got %s", result.State)
	}
	if !strings.Contains(result.Cause.Error(), "timed out") {
		t.Fatalf("expected timeout cause, got %v", result.Cause)
	}
}

func TestWithFrameCount(t *testing.T) {
	p := New(fakeDecoder{frames: 100}, WithFrameCount(5))
	if p.FrameCount() != 5 {
		t.Fatalf("expected frame count 5, got %d", p.FrameCount())
	}
	result := p.Probe(context.Background(), touch(t))
	if result.Frames != 5 {
		t.Fatalf("expected 5 frames decoded, got %d", result.Frames)
	}
	if New(nil, WithFrameCount(0)).FrameCount() != DefaultFrameCount {
		t.Fatal("expected non-positive frame count to be ignored")
	}
}

func TestStateString(t *testing.T) {
	if StateDecodeError.String() != "decode-error" {
		t.Fatalf("unexpected name %q", StateDecodeError.String())
	}
	if State(99).String() != "unknown" {
		t.Fatal("expected unknown for out-of-range state")
	}
}
