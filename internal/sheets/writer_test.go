package sheets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/muster/internal/common"
	"github.com/Veraticus/muster/internal/model"
)

func sampleRecords() []model.AttendanceRecord {
	return []model.AttendanceRecord{
		{
			ID: "1", Date: "2024-01-01", LabourName: "Ravi", SiteName: "Site A",
			BaseSalary: 800, Day: 1, OTHours: 2, OTAmount: 200, TotalPayable: 1000, IsConfirmed: true,
		},
		{
			ID: "2", Date: "2024-01-01", LabourName: "Suresh", SiteName: "Site B",
			BaseSalary: 750, Day: 0.5, OTHours: 1.5, OTAmount: 140.625, TotalPayable: 515.625,
		},
	}
}

func TestPrepareValues(t *testing.T) {
	values := prepareValues(sampleRecords())
	require.Len(t, values, 5)

	assert.Equal(t, columns, values[0])
	assert.Equal(t, []any{"2024-01-01", "Ravi", "Site A", 800.0, 1.0, 2.0, 200.0, 1000.0, "Confirmed"}, values[1])
	assert.Equal(t, []any{"2024-01-01", "Suresh", "Site B", 750.0, 0.5, 1.5, 140.63, 515.63, "Needs review"}, values[2])
	assert.Empty(t, values[3])

	totals := values[4]
	assert.Equal(t, "Total", totals[0])
	assert.InDelta(t, 340.63, totals[colOTAmount], 1e-9)
	assert.InDelta(t, 1515.63, totals[colTotalPay], 1e-9)
}

func TestFormattingRequests(t *testing.T) {
	requests := formattingRequests(7, 5)
	require.Len(t, requests, 6)
	for _, r := range requests[:4] {
		require.NotNil(t, r.RepeatCell)
		assert.Equal(t, int64(7), r.RepeatCell.Range.SheetId)
	}
	assert.Equal(t, int64(4), requests[1].RepeatCell.Range.StartRowIndex)
	assert.Equal(t, int64(1), requests[5].UpdateSheetProperties.Properties.GridProperties.FrozenRowCount)
}

// fakeSheetsAPI serves the handful of Sheets endpoints the writer uses.
type fakeSheetsAPI struct {
	sheetTitle string
	written    [][]any
	paths      []string
	mu         sync.Mutex
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, r.Method+" "+r.URL.Path)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet:
		_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-1","spreadsheetUrl":"https://sheets.example/sheet-1","sheets":[{"properties":{"sheetId":7,"title":"`+f.sheetTitle+`"}}]}`)
	case strings.HasSuffix(r.URL.Path, ":batchUpdate"):
		_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-1","replies":[{"addSheet":{"properties":{"sheetId":9,"title":"Attendance"}}}]}`)
	case strings.HasSuffix(r.URL.Path, ":clear"):
		_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-1"}`)
	case r.Method == http.MethodPut:
		var body sheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.written = append(f.written, body.Values...)
		_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-1"}`)
	default:
		http.NotFound(w, r)
	}
}

func newFakeWriter(t *testing.T, api *fakeSheetsAPI) *Writer {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	service, err := sheets.NewService(context.Background(),
		option.WithHTTPClient(server.Client()),
		option.WithEndpoint(server.URL+"/"))
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.SpreadsheetID = "sheet-1"
	cfg.RetryAttempts = 1
	return newWriterWithService(service, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestWriterExport(t *testing.T) {
	api := &fakeSheetsAPI{sheetTitle: "Attendance"}
	writer := newFakeWriter(t, api)

	url, err := writer.Export(context.Background(), sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, "https://sheets.example/sheet-1", url)

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Len(t, api.written, 5)
	assert.Equal(t, "Labour Name", api.written[0][1])
	assert.Equal(t, "Ravi", api.written[1][1])
}

func TestWriterExportAddsMissingSheet(t *testing.T) {
	api := &fakeSheetsAPI{sheetTitle: "Other"}
	writer := newFakeWriter(t, api)

	_, err := writer.Export(context.Background(), sampleRecords())
	require.NoError(t, err)

	api.mu.Lock()
	defer api.mu.Unlock()
	batchUpdates := 0
	for _, p := range api.paths {
		if strings.HasSuffix(p, ":batchUpdate") {
			batchUpdates++
		}
	}
	// One to add the tab, one for formatting.
	assert.Equal(t, 2, batchUpdates)
}

func TestWriterExportNoRecords(t *testing.T) {
	writer := newFakeWriter(t, &fakeSheetsAPI{sheetTitle: "Attendance"})

	_, err := writer.Export(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNoRecords)
}

func TestMockWriter(t *testing.T) {
	mock := NewMockWriter("https://sheets.example/x")
	url, err := mock.Export(context.Background(), sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, "https://sheets.example/x", url)
	require.Len(t, mock.Exports(), 1)
	assert.Len(t, mock.Exports()[0], 2)
}
