package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/muster/internal/export"
	"github.com/Veraticus/muster/internal/model"
)

// recordField is a user-editable column of the records table.
type recordField struct {
	get  func(model.AttendanceRecord) string
	set  func(*model.AttendanceRecord, string) error
	name string
}

var editableFields = []recordField{
	{
		name: "Date",
		get:  func(r model.AttendanceRecord) string { return r.Date },
		set: func(r *model.AttendanceRecord, v string) error {
			if _, err := time.Parse(model.DateLayout, v); err != nil {
				return fmt.Errorf("date must look like %s", model.DateLayout)
			}
			r.Date = v
			return nil
		},
	},
	{
		name: "Name",
		get:  func(r model.AttendanceRecord) string { return r.LabourName },
		set: func(r *model.AttendanceRecord, v string) error {
			if v == "" {
				return fmt.Errorf("name cannot be empty")
			}
			r.LabourName = v
			return nil
		},
	},
	{
		name: "Site",
		get:  func(r model.AttendanceRecord) string { return r.SiteName },
		set: func(r *model.AttendanceRecord, v string) error {
			if v == "" {
				return fmt.Errorf("site cannot be empty")
			}
			r.SiteName = v
			return nil
		},
	},
	{
		name: "Salary",
		get:  func(r model.AttendanceRecord) string { return export.Number(r.BaseSalary) },
		set:  numberSetter("salary", func(r *model.AttendanceRecord, f float64) { r.BaseSalary = f }),
	},
	{
		name: "Day",
		get:  func(r model.AttendanceRecord) string { return export.Number(r.Day) },
		set:  numberSetter("day", func(r *model.AttendanceRecord, f float64) { r.Day = f }),
	},
	{
		name: "OT Hours",
		get:  func(r model.AttendanceRecord) string { return export.Number(r.OTHours) },
		set:  numberSetter("OT hours", func(r *model.AttendanceRecord, f float64) { r.OTHours = f }),
	},
}

func numberSetter(label string, assign func(*model.AttendanceRecord, float64)) func(*model.AttendanceRecord, string) error {
	return func(r *model.AttendanceRecord, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%s must be a non-negative number", label)
		}
		assign(r, f)
		return nil
	}
}

// applyFieldEdit returns a copy of r with the field at index set to value.
func applyFieldEdit(r model.AttendanceRecord, index int, value string) (model.AttendanceRecord, error) {
	if index < 0 || index >= len(editableFields) {
		return r, fmt.Errorf("unknown field %d", index)
	}
	if err := editableFields[index].set(&r, strings.TrimSpace(value)); err != nil {
		return r, err
	}
	return r, nil
}
