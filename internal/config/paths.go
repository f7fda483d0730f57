package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations; all paths are
// relative to the executable directory, never the working directory.
type Paths struct {
	ExecutableDir  string
	DataDir        string
	DownloadsDir   string
	ReportsDir     string
	ScreenshotsDir string
	LogsDir        string
}

// GetPaths resolves the application paths relative to the executable location.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}
	exeDir := filepath.Dir(exe)

	dataDir := filepath.Join(exeDir, "data")
	return &Paths{
		ExecutableDir:  exeDir,
		DataDir:        dataDir,
		DownloadsDir:   filepath.Join(dataDir, "downloads"),
		ReportsDir:     filepath.Join(dataDir, "reports"),
		ScreenshotsDir: filepath.Join(dataDir, "screenshots"),
		LogsDir:        filepath.Join(exeDir, "logs"),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.DownloadsDir, p.ReportsDir, p.ScreenshotsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetReportPath returns the path for a report file.
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetScreenshotPath returns a timestamped path for a diagnostic screenshot.
func (p *Paths) GetScreenshotPath(prefix string) string {
	name := fmt.Sprintf("%s_%s.png", prefix, time.Now().Format("20060102_150405"))
	return filepath.Join(p.ScreenshotsDir, name)
}

// GetLogPath returns the path for a log file.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
