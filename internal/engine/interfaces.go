package engine

import (
	"context"

	"github.com/Veraticus/muster/internal/model"
)

// Extractor defines the contract for turning raw input into candidate records.
// Implementations must not fail on unusable model output; they report it as
// an uncertainty instead.
type Extractor interface {
	Extract(ctx context.Context, text string, images []model.Image, rules []model.LearningRule) (model.ExtractionResult, error)
}
