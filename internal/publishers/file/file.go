package file

import (
	"fmt"
	"os"
	"path/filepath"

	"subclash/internal/logger"
	"subclash/internal/publishers"
)

// Publisher writes fragments to Target.Path, replacing the file atomically.
type Publisher struct{}

func (p *Publisher) Publish(fragments []string, target publishers.Target) error {
	if target.Path == "" {
		return fmt.Errorf("missing output path for file publisher")
	}

	dir := filepath.Dir(target.Path)
	tmp, err := os.CreateTemp(dir, ".subclash-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(publishers.Payload(fragments, target.Wrap)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Rename(tmp.Name(), target.Path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", target.Path, err)
	}

	logger.Log.Infof("Wrote %d fragments to %s", len(fragments), target.Path)
	return nil
}

func init() {
	publishers.Register("file", func() publishers.Publisher { return &Publisher{} })
}
