package tts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandModel drives an external piper-style synthesizer binary: text
// on stdin, WAV written to --output_file.
type CommandModel struct {
	binary    string
	modelPath string
	device    string
}

// CommandLoader returns a LoadFunc that checks the binary and model are
// present before handing back a CommandModel. The check runs once,
// inside the Gateway's guarded load.
func CommandLoader(binary, modelPath string) LoadFunc {
	return func(device string) (Model, error) {
		if _, err := exec.LookPath(binary); err != nil {
			return nil, fmt.Errorf("tts binary %q: %w", binary, err)
		}
		if modelPath != "" {
			if _, err := os.Stat(modelPath); err != nil {
				return nil, fmt.Errorf("tts model %q: %w", modelPath, err)
			}
		}
		return &CommandModel{binary: binary, modelPath: modelPath, device: device}, nil
	}
}

func (m *CommandModel) SynthesizeToFile(ctx context.Context, text, path string) error {
	args := []string{"--output_file", path}
	if m.modelPath != "" {
		args = append(args, "--model", m.modelPath)
	}
	if m.device == "cuda" {
		args = append(args, "--cuda")
	}

	cmd := exec.CommandContext(ctx, m.binary, args...)
	cmd.Stdin = strings.NewReader(text)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", m.binary, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
