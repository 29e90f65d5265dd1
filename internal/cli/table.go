package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/muster/internal/export"
	"github.com/Veraticus/muster/internal/model"
)

// RenderRecords writes the record table followed by a totals line.
// Unconfirmed records are marked with "?".
func RenderRecords(out io.Writer, records []model.AttendanceRecord) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(w, "\tDATE\tLABOUR\tSITE\tSALARY\tDAY\tOT H\tOT AMT\tTOTAL"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	var totalOT, totalPay float64
	for _, r := range records {
		status := SuccessIcon
		if !r.IsConfirmed {
			status = "?"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			status,
			r.Date,
			r.LabourName,
			r.SiteName,
			export.Number(r.BaseSalary),
			export.Number(r.Day),
			export.Number(r.OTHours),
			export.Money(r.OTAmount),
			export.Money(r.TotalPayable),
		); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
		totalOT += r.OTAmount
		totalPay += r.TotalPayable
	}

	if _, err := fmt.Fprintf(w, "\t\t\t\t\t\t\t%s\t%s\n", export.Money(totalOT), export.Money(totalPay)); err != nil {
		return fmt.Errorf("failed to write totals: %w", err)
	}

	return w.Flush()
}

// RenderRules writes the learned rules, oldest first.
func RenderRules(out io.Writer, rules []model.LearningRule) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(w, "LEARNED\tQUESTION\tINTERPRETATION"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rules {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", r.CreatedAt.Format(time.Kitchen), r.Pattern, r.Explanation); err != nil {
			return fmt.Errorf("failed to write rule: %w", err)
		}
	}

	return w.Flush()
}
