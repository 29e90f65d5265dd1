package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"

	"github.com/Veraticus/muster/internal/engine"
	"github.com/Veraticus/muster/internal/llm"
	"github.com/Veraticus/muster/internal/model"
	"github.com/Veraticus/muster/internal/tui/themes"
)

// Exporter pushes the record set to an external destination and returns
// a location the user can open.
type Exporter interface {
	Export(ctx context.Context, records []model.AttendanceRecord) (string, error)
}

// Config holds TUI configuration.
type Config struct {
	Theme          themes.Theme
	Session        *engine.Session
	Exporter       Exporter
	Now            func() time.Time
	LoadImage      func(path string) (model.Image, error)
	ReadClipboard  func() (string, error)
	WriteClipboard func(text string) error
	ExportDir      string
	Width          int
	Height         int
	ShowHelp       bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:          themes.Default,
		Now:            time.Now,
		LoadImage:      llm.LoadImageFile,
		ReadClipboard:  clipboard.ReadAll,
		WriteClipboard: clipboard.WriteAll,
		ExportDir:      ".",
		Width:          100,
		Height:         30,
	}
}

// WithSession sets the attendance session the TUI drives.
func WithSession(session *engine.Session) Option {
	return func(c *Config) {
		c.Session = session
	}
}

// WithExporter enables spreadsheet export.
func WithExporter(exporter Exporter) Option {
	return func(c *Config) {
		c.Exporter = exporter
	}
}

// WithExportDir sets where CSV files are written.
func WithExportDir(dir string) Option {
	return func(c *Config) {
		c.ExportDir = dir
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithClock overrides the time source used for export filenames.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

// WithImageLoader overrides how image paths are read.
func WithImageLoader(load func(path string) (model.Image, error)) Option {
	return func(c *Config) {
		c.LoadImage = load
	}
}

// WithClipboard overrides clipboard access.
func WithClipboard(read func() (string, error), write func(text string) error) Option {
	return func(c *Config) {
		c.ReadClipboard = read
		c.WriteClipboard = write
	}
}

// WithHelp shows the full key help on start.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}
