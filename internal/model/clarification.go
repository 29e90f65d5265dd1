package model

// ClarificationStatus is the lifecycle state of a clarification request.
type ClarificationStatus string

const (
	// ClarificationPending marks a question still waiting for a human answer.
	ClarificationPending ClarificationStatus = "pending"
	// ClarificationResolved marks an answered question. Resolved requests
	// are dropped from the active set.
	ClarificationResolved ClarificationStatus = "resolved"
)

// ClarificationContext is the input that produced a clarification.
type ClarificationContext struct {
	Text   string  `json:"text"`
	Images []Image `json:"images,omitempty"`
}

// ClarificationRequest is an open question raised by an extraction call.
type ClarificationRequest struct {
	Context ClarificationContext `json:"context"`
	ID      string               `json:"id"`
	BatchID string               `json:"batchId,omitempty"`
	Content string               `json:"content"`
	Status  ClarificationStatus  `json:"status"`
}
