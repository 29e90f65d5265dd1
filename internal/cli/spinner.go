package cli

import (
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
)

// RunWithSpinner runs op while an indeterminate spinner is shown on w.
func RunWithSpinner(w io.Writer, description string, op func() error) error {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan error, 1)
	go func() {
		done <- op()
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			if finishErr := bar.Finish(); finishErr != nil {
				slog.Warn("Failed to finish spinner", "error", finishErr)
			}
			return err
		case <-ticker.C:
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update spinner", "error", err)
			}
		}
	}
}
