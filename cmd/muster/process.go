package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Veraticus/muster/internal/cli"
	"github.com/Veraticus/muster/internal/common"
	"github.com/Veraticus/muster/internal/config"
	"github.com/Veraticus/muster/internal/engine"
	"github.com/Veraticus/muster/internal/export"
	"github.com/Veraticus/muster/internal/llm"
	"github.com/Veraticus/muster/internal/model"
)

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [text...]",
		Short: "Extract records once and export them",
		Long: `Extract attendance records from text and images in one go.

Text comes from the arguments, --file, --clipboard or standard input.
Questions are asked on the terminal unless --no-ask is given, and the
records are written to a dated CSV file.

Examples:
  muster process "Ravi site A 800 full day 2 hrs OT"
  muster process --image register.jpg --image page2.png
  pbpaste | muster process --no-ask
  muster process --clipboard --sheets`,
		RunE: runProcess,
	}

	cmd.Flags().StringSliceP("file", "f", nil, "text file to read (repeatable)")
	cmd.Flags().StringSliceP("image", "i", nil, "image file to attach (repeatable)")
	cmd.Flags().Bool("clipboard", false, "read text from the clipboard")
	cmd.Flags().Bool("no-ask", false, "leave questions unanswered")
	cmd.Flags().Bool("no-csv", false, "skip writing the CSV file")
	cmd.Flags().Bool("sheets", false, "also export to Google Sheets")
	cmd.Flags().String("export-dir", "", "directory for CSV exports (default: current directory)")

	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
	noAsk, _ := cmd.Flags().GetBool("no-ask")
	noCSV, _ := cmd.Flags().GetBool("no-csv")
	toSheets, _ := cmd.Flags().GetBool("sheets")

	in, usedStdin, err := gatherInput(cmd, args)
	if err != nil {
		return err
	}
	if in.Empty() {
		return common.NewUserError("Nothing to process: pass text, --file, --clipboard, --image or pipe text in", common.ErrNothingToProcess)
	}

	interrupts := cli.NewInterruptHandler(os.Stderr)
	ctx := interrupts.HandleInterrupts(cmd.Context())

	gateway, err := createGateway()
	if err != nil {
		return err
	}
	defer gateway.Close()

	session, err := createSession(gateway)
	if err != nil {
		return err
	}

	var outcome engine.Outcome
	err = cli.RunWithSpinner(os.Stderr, "Extracting records", func() error {
		var processErr error
		outcome, processErr = session.Process(ctx, in)
		return processErr
	})
	if err != nil {
		if interrupts.WasInterrupted() {
			return nil
		}
		return err
	}
	interrupts.SetUnsaved(outcome.Extracted > 0)

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Extracted %d record(s): %d added, %d updated, %d unchanged",
		outcome.Extracted, outcome.Added, outcome.Updated, outcome.Unchanged)))
	if err := cli.RenderRecords(os.Stdout, session.Records()); err != nil {
		return err
	}

	if pending := session.Pending(); len(pending) > 0 {
		switch {
		case noAsk:
			fmt.Println(cli.FormatWarning(fmt.Sprintf("%d question(s) left unanswered; records stay unconfirmed", len(pending))))
		case usedStdin:
			fmt.Println(cli.FormatWarning("Standard input was used for text, so questions cannot be asked"))
		default:
			if err := askClarifications(ctx, session, pending); err != nil {
				return err
			}
		}
	}

	return exportRecords(ctx, cmd, session.Records(), noCSV, toSheets, interrupts)
}

// gatherInput collects text and images from every configured source.
func gatherInput(cmd *cobra.Command, args []string) (engine.Input, bool, error) {
	files, _ := cmd.Flags().GetStringSlice("file")
	imagePaths, _ := cmd.Flags().GetStringSlice("image")
	useClipboard, _ := cmd.Flags().GetBool("clipboard")

	var parts []string
	if len(args) > 0 {
		parts = append(parts, strings.Join(args, " "))
	}

	for _, path := range files {
		data, err := os.ReadFile(config.ExpandPath(path)) //nolint:gosec // user-supplied input file
		if err != nil {
			return engine.Input{}, false, fmt.Errorf("failed to read %s: %w", path, err)
		}
		parts = append(parts, string(data))
	}

	if useClipboard {
		text, err := clipboard.ReadAll()
		if err != nil {
			return engine.Input{}, false, common.NewUserError("Could not read the clipboard", err)
		}
		parts = append(parts, text)
	}

	usedStdin := false
	if len(parts) == 0 && len(imagePaths) == 0 && !isatty.IsTerminal(os.Stdin.Fd()) {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return engine.Input{}, false, fmt.Errorf("failed to read standard input: %w", err)
		}
		parts = append(parts, string(data))
		usedStdin = true
	}

	images := make([]model.Image, 0, len(imagePaths))
	for _, path := range imagePaths {
		img, err := llm.LoadImageFile(config.ExpandPath(path))
		if err != nil {
			return engine.Input{}, false, err
		}
		images = append(images, img)
	}

	return engine.Input{
		Text:   strings.Join(parts, "\n\n"),
		Images: images,
	}, usedStdin, nil
}

func askClarifications(ctx context.Context, session *engine.Session, pending []model.ClarificationRequest) error {
	prompter := cli.NewClarificationPrompter(os.Stdin, os.Stdout)
	answered, err := prompter.Ask(ctx, session, pending)
	if err != nil {
		return fmt.Errorf("failed to collect answers: %w", err)
	}
	if answered == 0 {
		return nil
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Learned %d rule(s)", answered)))
	if err := cli.RenderRules(os.Stdout, session.Rules()); err != nil {
		return err
	}
	return cli.RenderRecords(os.Stdout, session.Records())
}

func exportRecords(ctx context.Context, cmd *cobra.Command, records []model.AttendanceRecord, noCSV, toSheets bool, interrupts *cli.InterruptHandler) error {
	if len(records) == 0 {
		fmt.Println(cli.FormatInfo("No records to export"))
		return nil
	}

	if !noCSV {
		path, err := export.WriteFile(exportDir(cmd), records, time.Now())
		if err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess("Wrote " + path))
	}

	if toSheets {
		writer := createSheetsWriter(cmd)
		if writer == nil {
			return common.NewUserError("Google Sheets is not configured; see sheets.* in the config file", common.ErrMissingConfig)
		}
		var url string
		err := cli.RunWithSpinner(os.Stderr, "Exporting to Google Sheets", func() error {
			var exportErr error
			url, exportErr = writer.Export(ctx, records)
			return exportErr
		})
		if err != nil {
			return fmt.Errorf("failed to export to Google Sheets: %w", err)
		}
		fmt.Println(cli.FormatSuccess("Exported to " + url))
	}

	interrupts.SetUnsaved(false)
	slog.Debug("Export complete", "records", len(records))
	return nil
}
