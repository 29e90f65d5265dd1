// Package ledger turns extracted candidates into attendance records and
// reconciles them against the records already under review.
package ledger

import (
	"time"

	"github.com/Veraticus/muster/internal/model"
	"github.com/google/uuid"
)

// Defaults applied to candidates with missing fields.
const (
	UnknownLabour = "Unknown Labour"
	UnknownSite   = "Unknown Site"
	FullDay       = 1.0
	HoursPerDay   = 8.0
)

// Batch describes the extraction call a set of candidates came from.
type Batch struct {
	At            time.Time
	ID            string
	Uncertainties []string
	HasImages     bool
}

// Source is the provenance shared by every record of the batch.
func (b Batch) Source() model.Source {
	if b.HasImages {
		return model.SourceImage
	}
	return model.SourceText
}

// Confirmed reports whether records of this batch start out confirmed.
func (b Batch) Confirmed() bool {
	return len(b.Uncertainties) == 0
}

// Calculator fills defaults and derived fields on extracted candidates.
type Calculator struct {
	now   func() time.Time
	newID func() string
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		c.now = now
	}
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(newID func() string) Option {
	return func(c *Calculator) {
		c.newID = newID
	}
}

// NewCalculator creates a calculator using wall-clock time and random UUIDs.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute produces a complete record from a candidate. It never fails.
func (c *Calculator) Compute(candidate model.Candidate, batch Batch) model.AttendanceRecord {
	at := batch.At
	if at.IsZero() {
		at = c.now()
	}

	date := candidate.Date
	if date == "" {
		date = at.Format(model.DateLayout)
	}
	labour := candidate.LabourName
	if labour == "" {
		labour = UnknownLabour
	}
	site := candidate.SiteName
	if site == "" {
		site = UnknownSite
	}
	day := candidate.Day
	if day == 0 {
		day = FullDay
	}

	return Recompute(model.AttendanceRecord{
		ID:          c.newID(),
		BatchID:     batch.ID,
		Date:        date,
		LabourName:  labour,
		SiteName:    site,
		BaseSalary:  candidate.BaseSalary,
		Day:         day,
		OTHours:     candidate.OTHours,
		Source:      batch.Source(),
		Timestamp:   at,
		IsConfirmed: batch.Confirmed(),
	})
}

// ComputeAll converts every candidate of an extraction result, keeping the
// gateway's order.
func (c *Calculator) ComputeAll(candidates []model.Candidate, batch Batch) []model.AttendanceRecord {
	if batch.At.IsZero() {
		batch.At = c.now()
	}

	records := make([]model.AttendanceRecord, 0, len(candidates))
	for _, candidate := range candidates {
		records = append(records, c.Compute(candidate, batch))
	}
	return records
}

// Recompute refreshes the derived fields from salary, day and OT hours.
func Recompute(r model.AttendanceRecord) model.AttendanceRecord {
	r.OTAmount = OTAmount(r.BaseSalary, r.OTHours)
	r.TotalPayable = TotalPayable(r.BaseSalary, r.Day, r.OTAmount)
	return r
}

// OTAmount is the hourly rate of a full day times the overtime hours.
func OTAmount(baseSalary, otHours float64) float64 {
	return (baseSalary / HoursPerDay) * otHours
}

// TotalPayable is the day's share of the salary plus overtime.
func TotalPayable(baseSalary, day, otAmount float64) float64 {
	return baseSalary*day + otAmount
}
