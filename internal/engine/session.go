// Package engine owns the attendance review state: the record set, the
// learned interpretation rules and the clarifications waiting for an answer.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/muster/internal/common"
	"github.com/Veraticus/muster/internal/ledger"
	"github.com/Veraticus/muster/internal/model"
)

// ConfirmScope controls which records a resolved clarification confirms.
type ConfirmScope string

const (
	// ConfirmAll confirms every record currently held.
	ConfirmAll ConfirmScope = "all"
	// ConfirmBatch confirms only the records of the batch that raised the question.
	ConfirmBatch ConfirmScope = "batch"
)

// ParseConfirmScope validates a configured scope. Empty means ConfirmAll.
func ParseConfirmScope(s string) (ConfirmScope, error) {
	switch ConfirmScope(strings.ToLower(strings.TrimSpace(s))) {
	case ConfirmAll, "":
		return ConfirmAll, nil
	case ConfirmBatch:
		return ConfirmBatch, nil
	default:
		return "", fmt.Errorf("%w: confirm scope %q", common.ErrInvalidConfig, s)
	}
}

// Input is one batch of pasted text and images.
type Input struct {
	Text   string
	Images []model.Image
}

// Empty reports whether there is nothing to send for extraction.
func (in Input) Empty() bool {
	return strings.TrimSpace(in.Text) == "" && len(in.Images) == 0
}

// Outcome summarizes what a processed batch changed.
type Outcome struct {
	BatchID        string
	Clarifications []model.ClarificationRequest
	Added          int
	Updated        int
	Unchanged      int
	Extracted      int
}

// Session is the single owner of the review state. All mutations go through
// its methods and are atomic with respect to each other; accessors return
// copies.
type Session struct {
	extractor  Extractor
	calculator *ledger.Calculator
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
	scope      ConfirmScope

	records []model.AttendanceRecord
	rules   []model.LearningRule
	pending []model.ClarificationRequest
	mu      sync.RWMutex

	busy atomic.Bool
}

// Option configures a Session.
type Option func(*Session)

// WithConfirmScope sets the scope of confirmation on resolve.
func WithConfirmScope(scope ConfirmScope) Option {
	return func(s *Session) {
		s.scope = scope
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithIDGenerator overrides id generation for records, rules and clarifications.
func WithIDGenerator(newID func() string) Option {
	return func(s *Session) {
		s.newID = newID
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates an empty session backed by the given extractor.
func NewSession(extractor Extractor, opts ...Option) *Session {
	s := &Session{
		extractor: extractor,
		logger:    slog.Default(),
		now:       time.Now,
		newID:     uuid.NewString,
		scope:     ConfirmAll,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.calculator = ledger.NewCalculator(
		ledger.WithClock(s.now),
		ledger.WithIDGenerator(s.newID),
	)
	return s
}

// Process extracts records from the input and merges them into the record
// set. Uncertainties become pending clarifications. Only one extraction may
// be in flight; other mutations stay available while it runs.
func (s *Session) Process(ctx context.Context, in Input) (Outcome, error) {
	if in.Empty() {
		return Outcome{}, common.NewUserError("Paste some text or add an image first", common.ErrNothingToProcess)
	}
	if !s.busy.CompareAndSwap(false, true) {
		return Outcome{}, common.NewUserError("Still processing the previous batch", common.ErrExtractionInProgress)
	}
	defer s.busy.Store(false)

	result, err := s.extractor.Extract(ctx, in.Text, in.Images, s.Rules())
	if err != nil {
		common.LogError(err, "Extraction failed", common.Fields{
			"text_length": len(in.Text),
			"images":      len(in.Images),
		})
		return Outcome{}, common.NewUserError("Extraction failed, please try again", err)
	}

	batch := ledger.Batch{
		At:            s.now(),
		ID:            s.newID(),
		Uncertainties: result.Uncertainties,
		HasImages:     len(in.Images) > 0,
	}
	incoming := s.calculator.ComputeAll(result.Records, batch)

	clarifications := make([]model.ClarificationRequest, 0, len(result.Uncertainties))
	for _, question := range result.Uncertainties {
		clarifications = append(clarifications, model.ClarificationRequest{
			ID:      s.newID(),
			BatchID: batch.ID,
			Content: question,
			Context: model.ClarificationContext{
				Text:   in.Text,
				Images: append([]model.Image(nil), in.Images...),
			},
			Status: model.ClarificationPending,
		})
	}

	s.mu.Lock()
	merged := ledger.Reconcile(s.records, incoming)
	s.records = merged.Records
	s.pending = append(s.pending, clarifications...)
	s.mu.Unlock()

	s.logger.Info("Processed batch",
		"batch_id", batch.ID,
		"extracted", len(incoming),
		"added", merged.Added,
		"updated", merged.Updated,
		"unchanged", merged.Unchanged,
		"clarifications", len(clarifications))

	return Outcome{
		BatchID:        batch.ID,
		Extracted:      len(incoming),
		Added:          merged.Added,
		Updated:        merged.Updated,
		Unchanged:      merged.Unchanged,
		Clarifications: clarifications,
	}, nil
}

// Resolve answers a pending clarification. The answer becomes a new learning
// rule and records are confirmed according to the session's scope. Unknown
// ids are ignored; the return value reports whether anything happened.
func (s *Session) Resolve(id, answer string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, c := range s.pending {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	request := s.pending[idx]

	s.rules = append(s.rules, model.LearningRule{
		ID:          s.newID(),
		Pattern:     request.Content,
		Explanation: answer,
		CreatedAt:   s.now(),
	})
	s.pending = append(s.pending[:idx:idx], s.pending[idx+1:]...)

	confirmed := 0
	for i := range s.records {
		if s.scope == ConfirmBatch && s.records[i].BatchID != request.BatchID {
			continue
		}
		s.records[i].IsConfirmed = true
		confirmed++
	}

	s.logger.Info("Resolved clarification",
		"clarification_id", id,
		"batch_id", request.BatchID,
		"confirmed", confirmed,
		"rules", len(s.rules))
	return true
}

// RemoveRule deletes a learning rule. Records are not touched.
func (s *Session) RemoveRule(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.rules {
		if r.ID == id {
			s.rules = append(s.rules[:i:i], s.rules[i+1:]...)
			return true
		}
	}
	return false
}

// DeleteRecord removes a record by id.
func (s *Session) DeleteRecord(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i:i], s.records[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateRecord replaces the record with the same id, recomputing its
// derived fields. Unknown ids are ignored.
func (s *Session) UpdateRecord(updated model.AttendanceRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.ID == updated.ID {
			s.records[i] = ledger.Recompute(updated)
			return true
		}
	}
	return false
}

// Records returns a copy of the current record set in display order.
func (s *Session) Records() []model.AttendanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.AttendanceRecord(nil), s.records...)
}

// Record looks up a single record by id.
func (s *Session) Record(id string) (model.AttendanceRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return model.AttendanceRecord{}, false
}

// Rules returns a copy of the learned rules in creation order.
func (s *Session) Rules() []model.LearningRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.LearningRule(nil), s.rules...)
}

// Pending returns a copy of the unanswered clarifications.
func (s *Session) Pending() []model.ClarificationRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ClarificationRequest(nil), s.pending...)
}

// Busy reports whether an extraction is in flight.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Scope returns the configured confirmation scope.
func (s *Session) Scope() ConfirmScope {
	return s.scope
}
