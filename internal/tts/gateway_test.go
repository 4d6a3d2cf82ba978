package tts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superlingo/internal/logger"
)

type fakeModel struct {
	data     []byte
	err      error
	skipFile bool

	inFlight atomic.Int32
	overlaps atomic.Int32
	calls    atomic.Int32
}

func (m *fakeModel) SynthesizeToFile(_ context.Context, _, path string) error {
	if m.inFlight.Add(1) > 1 {
		m.overlaps.Add(1)
	}
	defer m.inFlight.Add(-1)
	m.calls.Add(1)

	if m.err != nil {
		return m.err
	}
	if !m.skipFile {
		return os.WriteFile(path, m.data, 0o600)
	}
	return nil
}

func countingLoader(m Model, loadErr error) (LoadFunc, *atomic.Int32) {
	var loads atomic.Int32
	return func(string) (Model, error) {
		loads.Add(1)
		if loadErr != nil {
			return nil, loadErr
		}
		return m, nil
	}, &loads
}

func TestGatewaySynthesizeWritesAndReturnsAudio(t *testing.T) {
	model := &fakeModel{data: []byte("RIFF....WAVE")}
	load, loads := countingLoader(model, nil)
	gw := NewGateway("cpu", load, logger.NewNop())

	path := filepath.Join(t.TempDir(), "out.wav")
	data, err := gw.Synthesize(context.Background(), "hello", path)
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF....WAVE"), data)
	assert.Equal(t, int32(1), loads.Load())
}

func TestGatewayRejectsEmptyText(t *testing.T) {
	load, loads := countingLoader(&fakeModel{}, nil)
	gw := NewGateway("cpu", load, logger.NewNop())

	_, err := gw.Synthesize(context.Background(), "", "unused.wav")
	require.ErrorIs(t, err, ErrTextEmpty)
	assert.Equal(t, int32(0), loads.Load(), "empty text must not trigger a model load")
}

func TestGatewayLoadsModelExactlyOnce(t *testing.T) {
	const n = 16

	model := &fakeModel{data: []byte("wav")}
	load, loads := countingLoader(model, nil)
	gw := NewGateway("cpu", load, logger.NewNop())

	dir := t.TempDir()
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := filepath.Join(dir, uuidName(i))
			_, errs[i] = gw.Synthesize(context.Background(), "hello", path)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "request %d", i)
	}
	assert.Equal(t, int32(1), loads.Load(), "model must load at most once per process")
	assert.Equal(t, int32(0), model.overlaps.Load(), "inference calls must be serialized")
	assert.Equal(t, int32(n), model.calls.Load())
}

func uuidName(i int) string {
	return "req-" + string(rune('a'+i)) + ".wav"
}

func TestGatewayLoadFailureIsRetried(t *testing.T) {
	boom := errors.New("model weights missing")
	var loads atomic.Int32
	model := &fakeModel{data: []byte("wav")}

	load := func(string) (Model, error) {
		if loads.Add(1) == 1 {
			return nil, boom
		}
		return model, nil
	}
	gw := NewGateway("cpu", load, logger.NewNop())
	path := filepath.Join(t.TempDir(), "out.wav")

	_, err := gw.Synthesize(context.Background(), "hello", path)
	require.ErrorIs(t, err, boom)

	// The failed load leaves the slot empty, so the next call retries.
	data, err := gw.Synthesize(context.Background(), "hello", path)
	require.NoError(t, err)
	assert.Equal(t, []byte("wav"), data)
	assert.Equal(t, int32(2), loads.Load())
}

func TestGatewayMissingOutputFile(t *testing.T) {
	model := &fakeModel{skipFile: true}
	load, _ := countingLoader(model, nil)
	gw := NewGateway("cpu", load, logger.NewNop())

	path := filepath.Join(t.TempDir(), "out.wav")
	_, err := gw.Synthesize(context.Background(), "hello", path)
	require.ErrorIs(t, err, ErrNoOutput)
}

func TestGatewayInferenceErrorIsWrapped(t *testing.T) {
	boom := errors.New("inference blew up")
	model := &fakeModel{err: boom}
	load, _ := countingLoader(model, nil)
	gw := NewGateway("cpu", load, logger.NewNop())

	path := filepath.Join(t.TempDir(), "out.wav")
	_, err := gw.Synthesize(context.Background(), "hello", path)
	require.ErrorIs(t, err, boom)
}
