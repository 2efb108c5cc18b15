// Package suggest generates goal drafts for the "help me choose" flow.
package suggest

import (
	"context"

	"github.com/microacademy/tracker/internal/types"
)

// Suggester produces a goal draft from a free-text topic.
type Suggester interface {
	SuggestGoal(ctx context.Context, topic string) (*types.NewGoalDraft, error)
}
