package model

import "time"

// LearningRule is an interpretation hint created from a resolved clarification.
// Every rule is fed back into later extraction requests.
type LearningRule struct {
	CreatedAt   time.Time `json:"createdAt"`
	ID          string    `json:"id"`
	Pattern     string    `json:"pattern"`
	Explanation string    `json:"explanation"`
}
