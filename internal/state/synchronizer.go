// Package state owns the persisted user-state snapshot and reconciles it
// between local storage and the remote account service.
//
// The policy is local-first, remote-best-effort: the local write is the
// durability guarantee and the UI-facing caller never blocks or fails
// because the remote service is unreachable. Remote writes are recorded as
// a pending sync intent and drained by Flush, so a failed push is a
// retryable unit of work instead of a silent loss.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/microacademy/tracker/internal/kv"
	"github.com/microacademy/tracker/internal/types"
)

// Remote is the slice of the account client the synchronizer needs.
type Remote interface {
	IsAuthenticated(ctx context.Context) bool
	CurrentUser(ctx context.Context) (*types.User, error)
	UpdatePreferences(ctx context.Context, prefs types.Preferences) error
	UpdateGoals(ctx context.Context, goals []types.Goal) error
}

// SyncIntent records that local state changed and the remote copy is stale.
// It is persisted so a pending push survives process restarts.
type SyncIntent struct {
	Preferences bool      `json:"preferences"`
	Goals       bool      `json:"goals"`
	QueuedAt    time.Time `json:"queuedAt"`
	Attempts    int       `json:"attempts"`
	LastError   string    `json:"lastError,omitempty"`
}

// storedState mirrors UserState but keeps preferences raw so the merge can
// distinguish fields present in the snapshot from fields never written.
type storedState struct {
	Preferences   json.RawMessage       `json:"preferences"`
	Goals         []types.Goal          `json:"goals"`
	Progress      []types.ProgressEntry `json:"progress"`
	CurrentScreen int                   `json:"currentScreen"`
}

// Synchronizer is the single entry point for reading and writing the
// user-state snapshot.
type Synchronizer struct {
	kv     kv.Store
	remote Remote
}

// NewSynchronizer creates a Synchronizer over the given storage and remote.
func NewSynchronizer(kvs kv.Store, remote Remote) *Synchronizer {
	return &Synchronizer{kv: kvs, remote: remote}
}

// Load returns the current user state: the remote profile when a session is
// held and the fetch succeeds, otherwise the local snapshot merged over
// defaults, otherwise the guest defaults. Remote failures are logged and
// swallowed; Load never fails.
func (s *Synchronizer) Load(ctx context.Context) types.UserState {
	if s.remote != nil && s.remote.IsAuthenticated(ctx) {
		user, err := s.remote.CurrentUser(ctx)
		if err != nil {
			slog.Warn("remote profile fetch failed, falling back to local state", "error", err)
		} else {
			state := s.stateFromRemote(user)
			s.writeLocal(ctx, state)
			return state
		}
	}

	return s.loadLocal(ctx)
}

// stateFromRemote builds a snapshot from the remote profile, defaulting any
// missing sub-field.
func (s *Synchronizer) stateFromRemote(user *types.User) types.UserState {
	state := DefaultState()
	if user.Preferences != nil {
		prefs := *user.Preferences
		fillPreferenceDefaults(&prefs)
		state.Preferences = prefs
	}
	if user.Goals != nil {
		state.Goals = user.Goals
	}
	if user.Progress != nil {
		state.Progress = user.Progress
	}
	return state
}

// loadLocal reads the cached snapshot. Absent or unparseable data yields the
// guest defaults.
func (s *Synchronizer) loadLocal(ctx context.Context) types.UserState {
	data, err := s.kv.Get(ctx, kv.KeyUserState)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return DefaultState()
	}
	if err != nil {
		slog.Error("failed to read user state", "error", err)
		return DefaultState()
	}

	var stored storedState
	if err := json.Unmarshal(data, &stored); err != nil {
		slog.Error("user state snapshot is corrupt, using defaults", "error", err)
		return DefaultState()
	}

	state := types.UserState{
		Preferences:   mergePreferences(stored.Preferences),
		Goals:         stored.Goals,
		Progress:      stored.Progress,
		CurrentScreen: stored.CurrentScreen,
	}
	if state.Goals == nil {
		state.Goals = []types.Goal{}
	}
	if state.Progress == nil {
		state.Progress = []types.ProgressEntry{}
	}
	return state
}

// Save persists the snapshot locally and, when a session is held, records a
// sync intent for the background push. Local write failures are logged, not
// returned: state saves never escalate to the caller.
func (s *Synchronizer) Save(ctx context.Context, state types.UserState) {
	s.writeLocal(ctx, state)

	if s.remote == nil || !s.remote.IsAuthenticated(ctx) {
		return
	}

	if err := s.enqueueIntent(ctx); err != nil {
		slog.Error("failed to record sync intent", "error", err)
	}
}

func (s *Synchronizer) writeLocal(ctx context.Context, state types.UserState) {
	data, err := json.Marshal(state)
	if err != nil {
		slog.Error("failed to encode user state", "error", err)
		return
	}
	if err := s.kv.Set(ctx, kv.KeyUserState, data); err != nil {
		slog.Error("failed to save user state", "error", err)
	}
}

// enqueueIntent marks both remote resources stale. An existing intent is
// refreshed rather than duplicated; its attempt count restarts because the
// snapshot to push has changed.
func (s *Synchronizer) enqueueIntent(ctx context.Context) error {
	intent := SyncIntent{
		Preferences: true,
		Goals:       true,
		QueuedAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(intent)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, kv.KeyPendingSync, data)
}

// PendingSync returns the queued intent, or nil when the remote copy is
// current.
func (s *Synchronizer) PendingSync(ctx context.Context) (*SyncIntent, error) {
	data, err := s.kv.Get(ctx, kv.KeyPendingSync)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var intent SyncIntent
	if err := json.Unmarshal(data, &intent); err != nil {
		// A corrupt intent cannot be drained; drop it.
		slog.Error("pending sync intent is corrupt, discarding", "error", err)
		return nil, s.kv.Delete(ctx, kv.KeyPendingSync)
	}
	return &intent, nil
}

// Flush pushes the pending intent: two independent remote writes, one for
// preferences and one for goals. A resource that pushes cleanly is cleared
// from the intent even when the other fails, so retries only re-send what
// is still stale. Returns an error while anything remains pending.
func (s *Synchronizer) Flush(ctx context.Context) error {
	intent, err := s.PendingSync(ctx)
	if err != nil {
		return fmt.Errorf("read sync intent: %w", err)
	}
	if intent == nil {
		return nil
	}

	if s.remote == nil || !s.remote.IsAuthenticated(ctx) {
		// Intent stays queued until a session exists again.
		return errors.New("not authenticated")
	}

	snapshot := s.loadLocal(ctx)

	var firstErr error
	if intent.Preferences {
		if err := s.remote.UpdatePreferences(ctx, snapshot.Preferences); err != nil {
			slog.Warn("preferences push failed", "error", err)
			firstErr = err
		} else {
			intent.Preferences = false
		}
	}
	if intent.Goals {
		if err := s.remote.UpdateGoals(ctx, snapshot.Goals); err != nil {
			slog.Warn("goals push failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		} else {
			intent.Goals = false
		}
	}

	if !intent.Preferences && !intent.Goals {
		if err := s.kv.Delete(ctx, kv.KeyPendingSync); err != nil {
			return fmt.Errorf("clear sync intent: %w", err)
		}
		return nil
	}

	intent.Attempts++
	if firstErr != nil {
		intent.LastError = firstErr.Error()
	}
	if data, err := json.Marshal(intent); err == nil {
		if err := s.kv.Set(ctx, kv.KeyPendingSync, data); err != nil {
			slog.Error("failed to update sync intent", "error", err)
		}
	}

	return fmt.Errorf("sync incomplete: %w", firstErr)
}

// Clear removes the local snapshot and any queued sync intent (logout path).
// An intent left behind would be drained by the next session against the
// guest defaults, overwriting that account's remote data. The
// completed-action collection is untouched; the two stores are independent.
func (s *Synchronizer) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, kv.KeyPendingSync); err != nil {
		return fmt.Errorf("clear sync intent: %w", err)
	}
	return s.kv.Delete(ctx, kv.KeyUserState)
}
