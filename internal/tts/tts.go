// Package tts wraps the speech-synthesis model and its lifecycle. The
// model is expensive to load, so a single process-wide Gateway owns it
// and loads it lazily on the first synthesis request.
package tts

import (
	"context"
	"errors"
	"os"
)

// Static errors.
var (
	ErrTextEmpty = errors.New("text cannot be empty")
	ErrNoOutput  = errors.New("synthesis produced no output file")
)

// Model is a loaded speech-synthesis model handle. It is treated as an
// opaque black box: text in, a WAV file out. Implementations are not
// assumed safe for concurrent calls.
type Model interface {
	SynthesizeToFile(ctx context.Context, text, path string) error
}

// LoadFunc constructs a Model for the given device. The load may take
// several seconds; the Gateway guarantees it runs at most once per
// process lifetime.
type LoadFunc func(device string) (Model, error)

// DetectDevice picks the synthesis device once at process start:
// the TTS_DEVICE override if set, "cuda" when accelerated hardware is
// visible, "cpu" otherwise. The result is fixed for the process
// lifetime and passed into the Gateway constructor.
func DetectDevice() string {
	if d := os.Getenv("TTS_DEVICE"); d != "" {
		return d
	}
	if _, err := os.Stat("/dev/nvidia0"); err == nil {
		return "cuda"
	}
	return "cpu"
}
