package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact is a named file body to be written by WriteArtifacts.
type Artifact struct {
	Name string
	Data []byte
}

// WriteArtifacts writes every artifact into dir or none of them.
// Each body is first written to a temporary file in dir; only when all temporary
// files are complete are they renamed into place. On failure the temporary files
// are removed, as are any artifacts already renamed into place.
// It returns the final paths in artifact order.
func WriteArtifacts(dir string, artifacts ...Artifact) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", dir, err)
	}

	temps := make([]string, 0, len(artifacts))
	removeTemps := func() {
		for _, tmp := range temps {
			_ = os.Remove(tmp)
		}
	}

	for _, artifact := range artifacts {
		if artifact.Name == "" || filepath.Base(artifact.Name) != artifact.Name {
			removeTemps()
			return nil, fmt.Errorf("invalid artifact name %q", artifact.Name)
		}
		tmp, err := writeTemp(dir, artifact)
		if err != nil {
			removeTemps()
			return nil, err
		}
		temps = append(temps, tmp)
	}

	finals := make([]string, 0, len(artifacts))
	for i, artifact := range artifacts {
		final := filepath.Join(dir, artifact.Name)
		if err := os.Rename(temps[i], final); err != nil {
			for _, done := range finals {
				_ = os.Remove(done)
			}
			temps = temps[i:]
			removeTemps()
			return nil, fmt.Errorf("failed to write %q: %w", final, err)
		}
		finals = append(finals, final)
	}
	return finals, nil
}

func writeTemp(dir string, artifact Artifact) (string, error) {
	f, err := os.CreateTemp(dir, "."+artifact.Name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file for %q: %w", artifact.Name, err)
	}
	_, writeErr := f.Write(artifact.Data)
	closeErr := f.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temporary file for %q: %w", artifact.Name, err)
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to set permissions for %q: %w", artifact.Name, err)
	}
	return f.Name(), nil
}
