package tui

import "github.com/Veraticus/muster/internal/engine"

// processDoneMsg reports the end of an extraction.
type processDoneMsg struct {
	err     error
	outcome engine.Outcome
}

// exportDoneMsg reports the end of a CSV or Sheets export.
type exportDoneMsg struct {
	err      error
	kind     string
	location string
}

// statusMsg replaces the status line.
type statusMsg struct {
	text  string
	level statusLevel
}

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusSuccess
	statusError
)
