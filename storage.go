package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const dataFolderName = "Telemetry_Data"

// resolveStorageDir returns the directory telemetry files are written to,
// creating it if needed. An explicitly configured directory wins; otherwise
// the folder lands on the user's Desktop when one exists, falling back to the
// home directory.
func resolveStorageDir(configured string) (string, error) {
	if configured != "" {
		if err := os.MkdirAll(configured, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir %q: %w", configured, err)
		}
		return configured, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	target := home
	desktop := filepath.Join(home, "Desktop")
	if info, err := os.Stat(desktop); err == nil && info.IsDir() {
		target = desktop
	}

	dir := filepath.Join(target, dataFolderName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir %q: %w", dir, err)
	}
	return dir, nil
}

// outputFileName builds the per-run CSV name: telemetry_<label>_<stamp>_metrics.csv.
func outputFileName(hwLabel string, start time.Time) string {
	return fmt.Sprintf("telemetry_%s_%s_metrics.csv", hwLabel, start.Format("20060102_150405"))
}
