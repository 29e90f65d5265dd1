package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/muster/internal/common"
	"github.com/Veraticus/muster/internal/config"
	"github.com/Veraticus/muster/internal/sheets"
	"github.com/Veraticus/muster/internal/tui"
	"github.com/Veraticus/muster/internal/tui/themes"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Open the interactive entry screen",
		Long: `Open the interactive entry screen.

Paste attendance messages, attach photos, review the extracted records,
answer the questions muster is unsure about and export the result.
Everything lives in memory: quitting discards records that were not
exported.

Examples:
  muster session                 # Start with the configured provider
  muster session --scope batch   # Answers only confirm their own batch
  muster session --theme amber`,
		RunE: runSession,
	}

	cmd.Flags().String("theme", "default", "color theme (default, amber)")
	cmd.Flags().String("export-dir", "", "directory for CSV exports (default: current directory)")

	_ = viper.BindPFlag("ui.theme", cmd.Flags().Lookup("theme"))

	return cmd
}

func runSession(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// Logs would corrupt the alternate screen, so they go to a file.
	closeLog, err := redirectLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	gateway, err := createGateway()
	if err != nil {
		return err
	}
	defer gateway.Close()

	session, err := createSession(gateway)
	if err != nil {
		return err
	}

	opts := []tui.Option{
		tui.WithSession(session),
		tui.WithExportDir(exportDir(cmd)),
		tui.WithTheme(themes.ByName(viper.GetString("ui.theme"))),
	}

	if writer := createSheetsWriter(cmd); writer != nil {
		opts = append(opts, tui.WithExporter(writer))
	}

	slog.Info("Starting interactive session", "scope", session.Scope())
	if err := tui.Run(ctx, opts...); err != nil {
		return fmt.Errorf("session failed: %w", err)
	}
	slog.Info("Session ended", "records", len(session.Records()))
	return nil
}

// createSheetsWriter returns a Sheets exporter when credentials are
// configured, or nil.
func createSheetsWriter(cmd *cobra.Command) *sheets.Writer {
	cfg, err := config.LoadSheetsConfig()
	if err != nil {
		slog.Debug("Google Sheets export disabled", "error", err)
		return nil
	}
	writer, err := sheets.NewWriter(cmd.Context(), *cfg, slog.Default())
	if err != nil {
		common.LogError(err, "Failed to create Google Sheets writer", nil)
		return nil
	}
	return writer
}

// exportDir prefers the --export-dir flag over export.dir.
func exportDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("export-dir"); dir != "" {
		return config.ExpandPath(dir)
	}
	return config.ExportDir()
}

// redirectLogging points the global logger at logging.file for the
// lifetime of the TUI.
func redirectLogging() (func(), error) {
	f, err := config.OpenLogFile(viper.GetString("logging.file"))
	if err != nil {
		return nil, err
	}

	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := common.SetupLoggerTo(f, level, viper.GetString("logging.format")); err != nil {
		_ = f.Close()
		return nil, err
	}

	return func() {
		_ = common.SetupLogger(level, viper.GetString("logging.format"))
		_ = f.Close()
	}, nil
}
