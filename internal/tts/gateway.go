package tts

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"superlingo/internal/logger"
)

// Gateway is the process-wide wrapper around the synthesis model. It
// loads the model at most once, and serializes inference calls on the
// same lock, since the underlying model is not proven safe for
// concurrent invocation.
type Gateway struct {
	device string
	load   LoadFunc
	log    *logger.Logger

	mu    sync.Mutex
	model Model
	ready atomic.Bool
}

func NewGateway(device string, load LoadFunc, log *logger.Logger) *Gateway {
	return &Gateway{device: device, load: load, log: log}
}

// ensureReady loads the model on first use. The ready flag skips the
// lock once the model is up; the authoritative transition happens
// under the mutex with a re-check, so concurrent first calls trigger
// exactly one load. A failed load leaves the slot empty and the next
// call retries.
func (g *Gateway) ensureReady() error {
	if g.ready.Load() {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.model != nil {
		return nil
	}

	g.log.Info("loading TTS model", "device", g.device)
	m, err := g.load(g.device)
	if err != nil {
		return fmt.Errorf("load TTS model: %w", err)
	}
	g.model = m
	g.ready.Store(true)
	g.log.Info("TTS model loaded")
	return nil
}

// Synthesize renders text to a WAV file at path and returns the file's
// contents. The caller owns path and is responsible for deleting it.
func (g *Gateway) Synthesize(ctx context.Context, text, path string) ([]byte, error) {
	if text == "" {
		return nil, ErrTextEmpty
	}
	if err := g.ensureReady(); err != nil {
		return nil, err
	}

	// The model is not documented as reentrant, so inference is
	// serialized on the same lock that guards loading.
	g.mu.Lock()
	err := g.model.SynthesizeToFile(ctx, text, path)
	g.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoOutput
		}
		return nil, fmt.Errorf("read synthesis output: %w", err)
	}
	return data, nil
}
