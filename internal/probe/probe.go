package probe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"clipkeeper/internal/media/ffprobe"
)

// DefaultFrameCount matches the leading frames requested by the dataset loader.
const DefaultFrameCount = 3

// Decoder opens a media file and decodes its first frames.
type Decoder interface {
	DecodeFrames(ctx context.Context, path string, frames int) (int, error)
}

// FFprobeDecoder decodes frames with the ffprobe binary.
type FFprobeDecoder struct {
	Binary string
}

// DecodeFrames implements Decoder.
func (d FFprobeDecoder) DecodeFrames(ctx context.Context, path string, frames int) (int, error) {
	return ffprobe.CountFrames(ctx, d.Binary, path, frames)
}

// Result is the classification of one file.
type Result struct {
	Path   string
	State  State
	Frames int
	Cause  error
}

// Healthy reports whether the file decoded successfully.
func (r Result) Healthy() bool {
	return r.State == StateHealthy
}

// Err maps the classification onto the error taxonomy. Healthy results return nil.
func (r Result) Err() error {
	switch r.State {
	case StateHealthy:
		return nil
	case StateMissing:
		return fmt.Errorf("%s: %w", r.Path, ErrMissingFile)
	case StateEmpty:
		return fmt.Errorf("%s: %w", r.Path, ErrEmptyDecode)
	case StateDecodeError:
		return &DecodeError{Path: r.Path, Cause: r.Cause}
	default:
		return fmt.Errorf("%s: integrity state unknown", r.Path)
	}
}

// Prober classifies files using a Decoder.
type Prober struct {
	decoder    Decoder
	frameCount int
	timeout    time.Duration
}

// Option configures a Prober.
type Option func(*Prober)

// WithFrameCount sets the number of leading frames to decode.
func WithFrameCount(n int) Option {
	return func(p *Prober) {
		if n > 0 {
			p.frameCount = n
		}
	}
}

// WithTimeout bounds each decode attempt. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d >= 0 {
			p.timeout = d
		}
	}
}

// New constructs a Prober.
func New(decoder Decoder, opts ...Option) *Prober {
	p := &Prober{decoder: decoder, frameCount: DefaultFrameCount}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FrameCount reports the configured frame count.
func (p *Prober) FrameCount() int {
	return p.frameCount
}

// Probe classifies the file at path.
func (p *Prober) Probe(ctx context.Context, path string) (result Result) {
	result = Result{Path: path, State: StateUnknown}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			result.State = StateMissing
			return result
		}
		result.State = StateDecodeError
		result.Cause = fmt.Errorf("stat: %w", err)
		return result
	}
	if info.IsDir() {
		result.State = StateDecodeError
		result.Cause = errors.New("path is a directory")
		return result
	}
	if p.decoder == nil {
		result.State = StateDecodeError
		result.Cause = errors.New("no decoder configured")
		return result
	}

	probeCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			result.State = StateDecodeError
			result.Frames = 0
			result.Cause = fmt.Errorf("decoder panic: %v", r)
		}
	}()

	frames, err := p.decoder.DecodeFrames(probeCtx, path, p.frameCount)
	if err != nil {
		if errors.Is(probeCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("decode timed out after %s: %w", p.timeout, err)
		}
		result.State = StateDecodeError
		result.Cause = err
		return result
	}
	result.Frames = frames
	if frames <= 0 {
		result.State = StateEmpty
		return result
	}
	result.State = StateHealthy
	return result
}
