package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blastmap/engine/internal/storage"
)

// sessionExport is the root JSON structure of an exported session.
type sessionExport struct {
	GeneratedAt time.Time          `json:"generatedAt"`
	Count       int                `json:"count"`
	Scenarios   []storage.Scenario `json:"scenarios"`
}

// Export writes the session history to a timestamped JSON file in the
// configured output directory, gzipped when compression is enabled.
func (b *Backend) Export() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.scenarios) == 0 {
		return "", ErrNoScenarios
	}

	export := sessionExport{
		GeneratedAt: time.Now(),
		Count:       len(b.scenarios),
		Scenarios:   b.scenarios,
	}

	timestamp := export.GeneratedAt.Format("20060102_150405")
	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("scenarios_%s.json.gz", timestamp)
	} else {
		filename = fmt.Sprintf("scenarios_%s.json", timestamp)
	}
	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if b.cfg.CompressOutput {
		if err := writeGzipJSON(outputPath, export); err != nil {
			return "", err
		}
	} else {
		if err := writeJSON(outputPath, export); err != nil {
			return "", err
		}
	}

	b.lastExportPath = outputPath
	return outputPath, nil
}

func writeJSON(path string, export sessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

func writeGzipJSON(path string, export sessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	enc := json.NewEncoder(gz)
	if err := enc.Encode(export); err != nil {
		gz.Close()
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to finalize gzip stream: %w", err)
	}
	return nil
}
