package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttendanceRecord_Key(t *testing.T) {
	r := AttendanceRecord{ID: "1", Date: "2024-01-01", LabourName: "Ravi", SiteName: "Site A", OTHours: 2}
	other := AttendanceRecord{ID: "2", Date: "2024-01-01", LabourName: "Ravi", SiteName: "Site A", OTHours: 0}

	assert.Equal(t, r.Key(), other.Key())
	assert.NotEqual(t, r.Key(), AttendanceRecord{Date: "2024-01-02", LabourName: "Ravi", SiteName: "Site A"}.Key())
}

func TestAttendanceRecord_SameFigures(t *testing.T) {
	base := AttendanceRecord{BaseSalary: 800, Day: 1, OTHours: 2}

	tests := []struct {
		name  string
		other AttendanceRecord
		want  bool
	}{
		{name: "identical", other: AttendanceRecord{BaseSalary: 800, Day: 1, OTHours: 2}, want: true},
		{name: "salary differs", other: AttendanceRecord{BaseSalary: 850, Day: 1, OTHours: 2}, want: false},
		{name: "day differs", other: AttendanceRecord{BaseSalary: 800, Day: 0.5, OTHours: 2}, want: false},
		{name: "ot differs", other: AttendanceRecord{BaseSalary: 800, Day: 1, OTHours: 0}, want: false},
		{name: "tiny difference is still a difference", other: AttendanceRecord{BaseSalary: 800.0000001, Day: 1, OTHours: 2}, want: false},
		{name: "derived fields ignored", other: AttendanceRecord{BaseSalary: 800, Day: 1, OTHours: 2, OTAmount: 5}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.SameFigures(tt.other))
		})
	}
}

func TestImageFromBlob(t *testing.T) {
	tests := []struct {
		name string
		blob string
		want Image
	}{
		{
			name: "data url",
			blob: "data:image/jpeg;base64,AAAA",
			want: Image{MIMEType: "image/jpeg", Data: "AAAA"},
		},
		{
			name: "bare base64",
			blob: "iVBORw0KGgo=",
			want: Image{MIMEType: DefaultImageMIMEType, Data: "iVBORw0KGgo="},
		},
		{
			name: "data url without mime",
			blob: "data:;base64,BBBB",
			want: Image{MIMEType: DefaultImageMIMEType, Data: "BBBB"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ImageFromBlob(tt.blob)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImage_DataURL(t *testing.T) {
	assert.Equal(t, "data:image/webp;base64,CCCC", Image{MIMEType: "image/webp", Data: "CCCC"}.DataURL())
	assert.Equal(t, "data:image/png;base64,DDDD", Image{Data: "DDDD"}.DataURL())
}
