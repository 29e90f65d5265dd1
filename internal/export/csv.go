// Package export renders the reviewed attendance records as CSV.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/muster/internal/common"
	"github.com/Veraticus/muster/internal/model"
)

// Header is the fixed column order of the export.
var Header = []string{"Date", "Labour Name", "Site Name", "Salary", "Day", "OT Hours", "OT Amount", "Total Pay"}

// Filename is the export file name for the given day.
func Filename(now time.Time) string {
	return "attendance_" + now.Format(model.DateLayout) + ".csv"
}

// Money formats a derived amount with exactly two decimals.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Number formats an entered figure in its shortest form, so 800 stays "800"
// and a half day stays "0.5".
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatRow renders one record as CSV fields, already quoted where needed.
// Names and sites are always quoted.
func FormatRow(r model.AttendanceRecord) []string {
	return []string{
		quoteIfNeeded(r.Date),
		quote(r.LabourName),
		quote(r.SiteName),
		Number(r.BaseSalary),
		Number(r.Day),
		Number(r.OTHours),
		Money(r.OTAmount),
		Money(r.TotalPayable),
	}
}

// WriteCSV writes the header and one line per record.
func WriteCSV(w io.Writer, records []model.AttendanceRecord) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(Header, ",") + "\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		if _, err := bw.WriteString(strings.Join(FormatRow(r), ",") + "\n"); err != nil {
			return fmt.Errorf("failed to write record %s: %w", r.ID, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// WriteFile writes the export into dir under the dated file name and returns
// the path written.
func WriteFile(dir string, records []model.AttendanceRecord, now time.Time) (string, error) {
	if len(records) == 0 {
		return "", common.NewUserError("There are no records to export", common.ErrNoRecords)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, Filename(now))
	f, err := os.Create(path) //nolint:gosec // path built from the configured export directory
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := WriteCSV(f, records); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}
