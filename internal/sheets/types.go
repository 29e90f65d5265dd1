package sheets

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/muster/internal/model"
)

// Column headers of the attendance tab. The last column is the review state.
var columns = []any{"Date", "Labour Name", "Site Name", "Salary", "Day", "OT Hours", "OT Amount", "Total Pay", "Status"}

// Zero-based column indexes used for number formatting.
const (
	colSalary     = 3
	colOTAmount   = 6
	colTotalPay   = 7
	columnCount   = 9
	statusPending = "Needs review"
	statusOK      = "Confirmed"
)

// AttendanceRow is a single row of the attendance tab.
type AttendanceRow struct {
	Date       string
	LabourName string
	SiteName   string
	Status     string
	Salary     decimal.Decimal
	Day        decimal.Decimal
	OTHours    decimal.Decimal
	OTAmount   decimal.Decimal
	TotalPay   decimal.Decimal
}

// RowFromRecord converts a record, rounding the derived amounts to cents.
func RowFromRecord(r model.AttendanceRecord) AttendanceRow {
	status := statusOK
	if !r.IsConfirmed {
		status = statusPending
	}
	return AttendanceRow{
		Date:       r.Date,
		LabourName: r.LabourName,
		SiteName:   r.SiteName,
		Status:     status,
		Salary:     decimal.NewFromFloat(r.BaseSalary),
		Day:        decimal.NewFromFloat(r.Day),
		OTHours:    decimal.NewFromFloat(r.OTHours),
		OTAmount:   decimal.NewFromFloat(r.OTAmount).Round(2),
		TotalPay:   decimal.NewFromFloat(r.TotalPayable).Round(2),
	}
}

// values renders the row as sheet cells. Numbers stay numeric so the sheet
// can sum them.
func (r AttendanceRow) values() []any {
	return []any{
		r.Date,
		r.LabourName,
		r.SiteName,
		r.Salary.InexactFloat64(),
		r.Day.InexactFloat64(),
		r.OTHours.InexactFloat64(),
		r.OTAmount.InexactFloat64(),
		r.TotalPay.InexactFloat64(),
		r.Status,
	}
}

// prepareValues builds the full tab: header, one row per record and a
// totals row.
func prepareValues(records []model.AttendanceRecord) [][]any {
	values := make([][]any, 0, len(records)+3)
	values = append(values, columns)

	var totalOT, totalPay decimal.Decimal
	for _, r := range records {
		row := RowFromRecord(r)
		totalOT = totalOT.Add(row.OTAmount)
		totalPay = totalPay.Add(row.TotalPay)
		values = append(values, row.values())
	}

	values = append(values,
		[]any{},
		[]any{"Total", "", "", "", "", "", totalOT.InexactFloat64(), totalPay.InexactFloat64(), ""},
	)
	return values
}
