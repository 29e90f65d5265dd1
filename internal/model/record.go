// Package model defines the core data structures for the muster application.
package model

import "time"

// Source records where an attendance record was extracted from.
type Source string

const (
	// SourceText marks records extracted from pasted text only.
	SourceText Source = "text"
	// SourceImage marks records extracted from a request carrying at least one image.
	SourceImage Source = "image"
)

// DateLayout is the string encoding used for attendance dates.
const DateLayout = "2006-01-02"

// AttendanceRecord is one person's pay for one date at one site.
type AttendanceRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	ID           string    `json:"id"`
	BatchID      string    `json:"batchId,omitempty"`
	Date         string    `json:"date"`
	LabourName   string    `json:"labourName"`
	SiteName     string    `json:"siteName"`
	Source       Source    `json:"source"`
	BaseSalary   float64   `json:"baseSalary"`
	Day          float64   `json:"day"` // 1 for full day, 0.5 for half day
	OTHours      float64   `json:"otHours"`
	OTAmount     float64   `json:"otAmount"`
	TotalPayable float64   `json:"totalPayable"`
	IsConfirmed  bool      `json:"isConfirmed"`
}

// NaturalKey identifies a logically unique attendance entry.
type NaturalKey struct {
	Date       string
	LabourName string
	SiteName   string
}

// Key returns the natural key of the record.
func (r AttendanceRecord) Key() NaturalKey {
	return NaturalKey{
		Date:       r.Date,
		LabourName: r.LabourName,
		SiteName:   r.SiteName,
	}
}

// SameFigures reports whether the inputs to the derived fields are identical.
// Comparison is exact; there is no tolerance.
func (r AttendanceRecord) SameFigures(other AttendanceRecord) bool {
	return r.BaseSalary == other.BaseSalary &&
		r.OTHours == other.OTHours &&
		r.Day == other.Day
}
