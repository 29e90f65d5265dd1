package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/muster/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.Local)

func newTestCalculator() *Calculator {
	n := 0
	return NewCalculator(
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("rec-%d", n)
		}),
	)
}

func TestCalculator_Compute(t *testing.T) {
	tests := []struct {
		name      string
		candidate model.Candidate
		batch     Batch
		want      model.AttendanceRecord
	}{
		{
			name: "full day with overtime",
			candidate: model.Candidate{
				Date: "2024-01-01", LabourName: "Ravi", SiteName: "Site A",
				BaseSalary: 800, Day: 1, OTHours: 2,
			},
			batch: Batch{ID: "b1"},
			want: model.AttendanceRecord{
				ID: "rec-1", BatchID: "b1", Date: "2024-01-01", LabourName: "Ravi", SiteName: "Site A",
				BaseSalary: 800, Day: 1, OTHours: 2, OTAmount: 200, TotalPayable: 1000,
				Source: model.SourceText, Timestamp: fixedNow, IsConfirmed: true,
			},
		},
		{
			name: "half day without overtime",
			candidate: model.Candidate{
				Date: "2024-01-02", LabourName: "Sita", SiteName: "Site B",
				BaseSalary: 600, Day: 0.5,
			},
			batch: Batch{ID: "b2", HasImages: true},
			want: model.AttendanceRecord{
				ID: "rec-1", BatchID: "b2", Date: "2024-01-02", LabourName: "Sita", SiteName: "Site B",
				BaseSalary: 600, Day: 0.5, OTAmount: 0, TotalPayable: 300,
				Source: model.SourceImage, Timestamp: fixedNow, IsConfirmed: true,
			},
		},
		{
			name:      "empty candidate gets every default",
			candidate: model.Candidate{},
			batch:     Batch{ID: "b3", Uncertainties: []string{"Who worked on Monday?"}},
			want: model.AttendanceRecord{
				ID: "rec-1", BatchID: "b3", Date: "2024-03-15", LabourName: UnknownLabour, SiteName: UnknownSite,
				BaseSalary: 0, Day: 1, OTHours: 0, OTAmount: 0, TotalPayable: 0,
				Source: model.SourceText, Timestamp: fixedNow, IsConfirmed: false,
			},
		},
		{
			name:      "explicit zero day is treated as missing",
			candidate: model.Candidate{LabourName: "Arjun", SiteName: "Site C", BaseSalary: 900, Day: 0},
			batch:     Batch{},
			want: model.AttendanceRecord{
				ID: "rec-1", Date: "2024-03-15", LabourName: "Arjun", SiteName: "Site C",
				BaseSalary: 900, Day: 1, TotalPayable: 900,
				Source: model.SourceText, Timestamp: fixedNow, IsConfirmed: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := newTestCalculator()
			got := calc.Compute(tt.candidate, tt.batch)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculator_ComputeAll(t *testing.T) {
	calc := newTestCalculator()
	batchTime := time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)

	records := calc.ComputeAll([]model.Candidate{
		{LabourName: "Ravi", BaseSalary: 800, Day: 1, OTHours: 1},
		{LabourName: "Sita", BaseSalary: 700, Day: 0.5, OTHours: 3},
		{LabourName: "Arjun", BaseSalary: 1000, Day: 1},
	}, Batch{ID: "batch", At: batchTime, HasImages: true, Uncertainties: []string{"rate?"}})

	require.Len(t, records, 3)
	for i, name := range []string{"Ravi", "Sita", "Arjun"} {
		r := records[i]
		assert.Equal(t, name, r.LabourName, "gateway order is kept")
		assert.Equal(t, fmt.Sprintf("rec-%d", i+1), r.ID)
		assert.Equal(t, model.SourceImage, r.Source)
		assert.False(t, r.IsConfirmed)
		assert.Equal(t, batchTime, r.Timestamp)
		assert.Equal(t, "2024-01-05", r.Date, "missing date uses the batch day")
		assertDerivedInvariant(t, r)
	}
}

func TestCalculator_ComputeAllEmpty(t *testing.T) {
	calc := newTestCalculator()
	assert.Empty(t, calc.ComputeAll(nil, Batch{}))
}

func TestRecompute(t *testing.T) {
	r := Recompute(model.AttendanceRecord{BaseSalary: 1000, Day: 0.5, OTHours: 4, OTAmount: 999, TotalPayable: 999})

	assert.InDelta(t, 500.0, r.OTAmount, 1e-9)
	assert.InDelta(t, 1000.0, r.TotalPayable, 1e-9)
}

func TestDerivedInvariant(t *testing.T) {
	calc := newTestCalculator()
	salaries := []float64{0, 333.33, 750, 1234.5}
	days := []float64{0.5, 1, 1.5}
	hours := []float64{0, 0.5, 2, 7.25}

	for _, s := range salaries {
		for _, d := range days {
			for _, h := range hours {
				r := calc.Compute(model.Candidate{LabourName: "X", SiteName: "Y", Date: "2024-01-01", BaseSalary: s, Day: d, OTHours: h}, Batch{})
				assertDerivedInvariant(t, r)
			}
		}
	}
}

func assertDerivedInvariant(t *testing.T, r model.AttendanceRecord) {
	t.Helper()
	wantOT := (r.BaseSalary / 8) * r.OTHours
	assert.InDelta(t, wantOT, r.OTAmount, 1e-9)
	assert.InDelta(t, r.BaseSalary*r.Day+wantOT, r.TotalPayable, 1e-9)
}
