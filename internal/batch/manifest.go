package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestEntry represents one input in the output manifest.
type ManifestEntry struct {
	Input    string   `json:"input"`
	Output   string   `json:"output,omitempty"`
	Scene    string   `json:"scene,omitempty"`
	Preview  string   `json:"preview,omitempty"`
	Status   string   `json:"status"`
	Error    string   `json:"error,omitempty"`
	Applied  int      `json:"tangents_applied"`
	Skipped  int      `json:"tangents_skipped"`
	Failures []string `json:"failures,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// WriteManifest writes the results of a run as JSON to path. Output paths
// are stored relative to the manifest's directory.
func WriteManifest(path string, results []Result) error {
	dir := filepath.Dir(path)
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		status := "ok"
		if !r.Success {
			status = "failed"
		}
		entries[i] = ManifestEntry{
			Input:    r.Input,
			Output:   rel(dir, r.Output),
			Scene:    rel(dir, r.Scene),
			Preview:  rel(dir, r.Preview),
			Status:   status,
			Error:    r.Error,
			Applied:  r.Applied,
			Skipped:  r.Skipped,
			Failures: r.Failures,
			Warnings: r.Warnings,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func rel(dir, p string) string {
	if p == "" {
		return ""
	}
	if r, err := filepath.Rel(dir, p); err == nil {
		return filepath.ToSlash(r)
	}
	return p
}
