// Package actions persists completed-action records: durable, denormalized
// copies of finished goals with soft-delete (archive) semantics.
//
// The whole collection lives under a single key in the key-value store and
// every operation is a read-modify-write of that collection. Granularity is
// therefore last-writer-wins per collection, matching the original storage
// scheme; the mutex serializes writers within this process.
package actions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/microacademy/tracker/internal/kv"
	"github.com/microacademy/tracker/internal/types"
)

// ErrNotFound is returned when updating a record that does not exist.
var ErrNotFound = errors.New("completed action not found")

// Store provides CRUD over the completed-action collection.
type Store struct {
	mu sync.Mutex
	kv kv.Store
}

// NewStore creates a Store backed by the given key-value store.
func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// load reads the full collection. A missing key yields an empty collection;
// corrupt JSON is logged and also degrades to empty rather than failing reads.
func (s *Store) load(ctx context.Context) ([]types.CompletedAction, error) {
	data, err := s.kv.Get(ctx, kv.KeyCompletedActions)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load completed actions: %w", err)
	}

	var records []types.CompletedAction
	if err := json.Unmarshal(data, &records); err != nil {
		slog.Error("completed actions collection is corrupt, starting empty", "error", err)
		return nil, nil
	}
	return records, nil
}

// persist writes the full collection back. Write failures propagate: a lost
// completed action is the one storage failure the caller must hear about.
func (s *Store) persist(ctx context.Context, records []types.CompletedAction) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode completed actions: %w", err)
	}
	if err := s.kv.Set(ctx, kv.KeyCompletedActions, data); err != nil {
		return fmt.Errorf("save completed actions: %w", err)
	}
	return nil
}

// Save inserts the record, or replaces an existing record with the same id
// and stamps UpdatedAt.
func (s *Store) Save(ctx context.Context, action types.CompletedAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i, r := range records {
		if r.ID == action.ID {
			action.UpdatedAt = time.Now().UTC()
			records[i] = action
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, action)
	}

	return s.persist(ctx, records)
}

// List returns the full collection in insertion order, archived records
// included.
func (s *Store) List(ctx context.Context) ([]types.CompletedAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Active returns the collection with archived records filtered out.
func (s *Store) Active(ctx context.Context) ([]types.CompletedAction, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	active := records[:0:0]
	for _, r := range records {
		if !r.IsArchived {
			active = append(active, r)
		}
	}
	return active, nil
}

// Update merges the non-nil fields of updates into the record with the given
// id and stamps UpdatedAt. Returns ErrNotFound if no such record exists.
func (s *Store) Update(ctx context.Context, id string, updates types.CompletedActionUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}

	index := -1
	for i, r := range records {
		if r.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return ErrNotFound
	}

	record := &records[index]
	if updates.CompletionNotes != nil {
		record.CompletionNotes = *updates.CompletionNotes
	}
	if updates.ImpactRating != nil {
		record.ImpactRating = normalizeRating(*updates.ImpactRating)
	}
	if updates.LessonsLearned != nil {
		record.LessonsLearned = *updates.LessonsLearned
	}
	if updates.NextSteps != nil {
		record.NextSteps = *updates.NextSteps
	}
	if updates.Tags != nil {
		record.Tags = updates.Tags
	}
	if updates.IsArchived != nil {
		record.IsArchived = *updates.IsArchived
	}
	if updates.ArchivedAt != nil {
		record.ArchivedAt = updates.ArchivedAt
	}
	record.UpdatedAt = time.Now().UTC()

	return s.persist(ctx, records)
}

// Delete removes the record with the given id. Deleting a missing id is a
// no-op, not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}

	filtered := records[:0:0]
	for _, r := range records {
		if r.ID != id {
			filtered = append(filtered, r)
		}
	}

	return s.persist(ctx, filtered)
}

// Archive soft-deletes the record: sets IsArchived and stamps ArchivedAt.
func (s *Store) Archive(ctx context.Context, id string) error {
	archived := true
	now := time.Now().UTC()
	return s.Update(ctx, id, types.CompletedActionUpdate{
		IsArchived: &archived,
		ArchivedAt: &now,
	})
}

// Extra carries the optional completion metadata captured when a goal is
// saved as a completed action.
type Extra struct {
	CompletionNotes string
	ImpactRating    int
	LessonsLearned  string
	NextSteps       string
	Tags            []string
}

// NewFromGoal builds a CompletedAction from a finished goal. IDs are ULIDs,
// so rapid repeated saves never collide.
func NewFromGoal(goal types.Goal, learningStyleName string, extra Extra) types.CompletedAction {
	now := time.Now().UTC()

	sdgIDs := goal.SDGIDs
	if sdgIDs == nil {
		sdgIDs = []string{}
	}

	return types.CompletedAction{
		ID:                ulid.Make().String(),
		OriginalGoalID:    goal.ID,
		Title:             goal.Title,
		Description:       goal.Description,
		LearningStyleID:   goal.LearningStyleID,
		LearningStyleName: learningStyleName,
		SDGIDs:            sdgIDs,
		CompletedAt:       now,
		CompletionNotes:   extra.CompletionNotes,
		ImpactRating:      normalizeRating(extra.ImpactRating),
		LessonsLearned:    extra.LessonsLearned,
		NextSteps:         extra.NextSteps,
		Tags:              extra.Tags,
		IsArchived:        false,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// normalizeRating maps a zero rating to nil: zero stars means unrated,
// never a valid rating.
func normalizeRating(rating int) *int {
	if rating == 0 {
		return nil
	}
	return &rating
}
