package ledger

import (
	"testing"
	"time"

	"github.com/Veraticus/muster/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id, date, name, site string, salary, day, ot float64) model.AttendanceRecord {
	return Recompute(model.AttendanceRecord{
		ID:          id,
		Date:        date,
		LabourName:  name,
		SiteName:    site,
		BaseSalary:  salary,
		Day:         day,
		OTHours:     ot,
		Source:      model.SourceText,
		IsConfirmed: true,
	})
}

func ids(records []model.AttendanceRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestReconcile(t *testing.T) {
	ravi := record("a", "2024-01-01", "Ravi", "Site A", 800, 1, 2)
	sita := record("b", "2024-01-01", "Sita", "Site A", 700, 1, 0)

	tests := []struct {
		name          string
		existing      []model.AttendanceRecord
		incoming      []model.AttendanceRecord
		wantIDs       []string
		wantAdded     int
		wantUpdated   int
		wantUnchanged int
	}{
		{
			name:     "empty incoming returns existing",
			existing: []model.AttendanceRecord{ravi, sita},
			wantIDs:  []string{"a", "b"},
		},
		{
			name:      "new keys appended in order",
			existing:  []model.AttendanceRecord{ravi},
			incoming:  []model.AttendanceRecord{record("n1", "2024-01-02", "Ravi", "Site A", 800, 1, 0), sita},
			wantIDs:   []string{"a", "n1", "b"},
			wantAdded: 2,
		},
		{
			name:          "identical figures leave holder untouched",
			existing:      []model.AttendanceRecord{ravi, sita},
			incoming:      []model.AttendanceRecord{record("n1", "2024-01-01", "Ravi", "Site A", 800, 1, 2)},
			wantIDs:       []string{"a", "b"},
			wantUnchanged: 1,
		},
		{
			name:        "changed figures replace in place keeping id",
			existing:    []model.AttendanceRecord{ravi, sita},
			incoming:    []model.AttendanceRecord{record("n1", "2024-01-01", "Sita", "Site A", 700, 0.5, 0)},
			wantIDs:     []string{"a", "b"},
			wantUpdated: 1,
		},
		{
			name:     "key differing only by site is a new record",
			existing: []model.AttendanceRecord{ravi},
			incoming: []model.AttendanceRecord{
				record("n1", "2024-01-01", "Ravi", "Site B", 800, 1, 2),
			},
			wantIDs:   []string{"a", "n1"},
			wantAdded: 1,
		},
		{
			name:     "key repeated inside a batch yields one row",
			existing: nil,
			incoming: []model.AttendanceRecord{
				record("n1", "2024-01-01", "Ravi", "Site A", 800, 1, 2),
				record("n2", "2024-01-01", "Ravi", "Site A", 800, 1, 3),
			},
			wantIDs:     []string{"n1"},
			wantAdded:   1,
			wantUpdated: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Reconcile(tt.existing, tt.incoming)

			assert.Equal(t, tt.wantIDs, ids(result.Records))
			assert.Equal(t, tt.wantAdded, result.Added)
			assert.Equal(t, tt.wantUpdated, result.Updated)
			assert.Equal(t, tt.wantUnchanged, result.Unchanged)
			assert.Equal(t, tt.wantAdded+tt.wantUpdated > 0, result.Changed())
		})
	}
}

func TestReconcile_DoesNotMutateInput(t *testing.T) {
	existing := []model.AttendanceRecord{record("a", "2024-01-01", "Ravi", "Site A", 800, 1, 2)}
	incoming := []model.AttendanceRecord{record("n1", "2024-01-01", "Ravi", "Site A", 800, 1, 0)}

	merged := Merge(existing, incoming)

	assert.Equal(t, 2.0, existing[0].OTHours)
	assert.Equal(t, "n1", incoming[0].ID)
	assert.Equal(t, 0.0, merged[0].OTHours)
}

func TestReconcile_UnchangedKeepsConfirmationAndTimestamp(t *testing.T) {
	held := record("a", "2024-01-01", "Ravi", "Site A", 800, 1, 2)
	held.Timestamp = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	held.IsConfirmed = true

	again := record("n1", "2024-01-01", "Ravi", "Site A", 800, 1, 2)
	again.Timestamp = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	again.IsConfirmed = false

	merged := Merge([]model.AttendanceRecord{held}, []model.AttendanceRecord{again})

	require.Len(t, merged, 1)
	assert.Equal(t, held, merged[0])
}

func TestReconcile_UpdateTakesIncomingContent(t *testing.T) {
	held := record("a", "2024-01-01", "Ravi", "Site A", 800, 1, 2)
	corrected := record("n1", "2024-01-01", "Ravi", "Site A", 800, 1, 0)
	corrected.IsConfirmed = false
	corrected.BatchID = "b2"
	corrected.Source = model.SourceImage

	merged := Merge([]model.AttendanceRecord{held}, []model.AttendanceRecord{corrected})

	require.Len(t, merged, 1)
	want := corrected
	want.ID = "a"
	assert.Equal(t, want, merged[0])
	assert.InDelta(t, 0.0, merged[0].OTAmount, 1e-9)
	assert.InDelta(t, 800.0, merged[0].TotalPayable, 1e-9)
}

func TestReconcile_PreexistingDuplicatesLastWins(t *testing.T) {
	first := record("a", "2024-01-01", "Ravi", "Site A", 800, 1, 2)
	second := record("b", "2024-01-01", "Ravi", "Site A", 800, 1, 4)
	incoming := record("n1", "2024-01-01", "Ravi", "Site A", 800, 1, 6)

	merged := Merge([]model.AttendanceRecord{first, second}, []model.AttendanceRecord{incoming})

	require.Len(t, merged, 2)
	assert.Equal(t, first, merged[0], "earlier duplicate is not the lookup target")
	assert.Equal(t, "b", merged[1].ID)
	assert.Equal(t, 6.0, merged[1].OTHours)
}

func TestMerge_Idempotent(t *testing.T) {
	existing := []model.AttendanceRecord{
		record("a", "2024-01-01", "Ravi", "Site A", 800, 1, 2),
		record("b", "2024-01-01", "Sita", "Site A", 700, 1, 0),
	}
	incoming := []model.AttendanceRecord{
		record("n1", "2024-01-01", "Ravi", "Site A", 800, 1, 3),
		record("n2", "2024-01-02", "Ravi", "Site A", 800, 0.5, 0),
		record("n3", "2024-01-02", "Arjun", "Site B", 900, 1, 1),
		record("n4", "2024-01-02", "Arjun", "Site B", 900, 1, 2),
	}

	once := Merge(existing, incoming)
	twice := Merge(once, incoming)

	assert.Equal(t, once, twice)
}

func TestMerge_ScenarioAB(t *testing.T) {
	calc := newTestCalculator()

	first := calc.ComputeAll([]model.Candidate{
		{Date: "2024-01-01", LabourName: "Ravi", SiteName: "Site A", BaseSalary: 800, Day: 1, OTHours: 2},
	}, Batch{ID: "b1"})
	records := Merge(nil, first)

	require.Len(t, records, 1)
	assert.InDelta(t, 200.0, records[0].OTAmount, 1e-9)
	assert.InDelta(t, 1000.0, records[0].TotalPayable, 1e-9)
	assert.True(t, records[0].IsConfirmed)
	originalID := records[0].ID

	second := calc.ComputeAll([]model.Candidate{
		{Date: "2024-01-01", LabourName: "Ravi", SiteName: "Site A", BaseSalary: 800, Day: 1, OTHours: 0},
	}, Batch{ID: "b2"})
	records = Merge(records, second)

	require.Len(t, records, 1)
	assert.Equal(t, originalID, records[0].ID)
	assert.InDelta(t, 0.0, records[0].OTAmount, 1e-9)
	assert.InDelta(t, 800.0, records[0].TotalPayable, 1e-9)
}
