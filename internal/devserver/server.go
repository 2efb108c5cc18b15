// Package devserver implements an in-memory stand-in for the remote account
// service, exposing the same endpoints and error shapes. It exists for
// offline development and for exercising the account client against a real
// HTTP surface; it is not the production backend.
package devserver

import (
	"crypto/subtle"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/microacademy/tracker/internal/types"
)

// accountRecord is one registered account with its stored collections.
type accountRecord struct {
	user     types.User
	password string
	goals    []types.Goal
}

// Server holds the in-memory account state.
type Server struct {
	mu       sync.Mutex
	accounts map[string]*accountRecord // keyed by user id
	byEmail  map[string]string         // email -> user id
	sessions map[string]string         // token -> user id
	courses  []types.Course
}

// New creates a Server preloaded with a small course library.
func New() *Server {
	return &Server{
		accounts: make(map[string]*accountRecord),
		byEmail:  make(map[string]string),
		sessions: make(map[string]string),
		courses:  seedCourses(),
	}
}

func seedCourses() []types.Course {
	return []types.Course{
		{
			ID:          "course-foundations",
			Title:       "Learning Foundations",
			Description: "How to build a daily learning habit.",
			Category:    "habits",
			Duration:    "2h",
			Level:       "beginner",
			Lessons:     []string{"Why micro actions", "Picking a target", "Tracking progress"},
		},
		{
			ID:          "course-reflection",
			Title:       "Reflective Practice",
			Description: "Turning completed actions into lessons learned.",
			Category:    "reflection",
			Duration:    "1h",
			Level:       "intermediate",
			Lessons:     []string{"Completion notes", "Impact ratings", "Next steps"},
		},
	}
}

// createAccount registers a new account and returns its record.
// Returns false when the email is already taken.
func (s *Server) createAccount(email, password, name string) (*accountRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return nil, false
	}

	id := ulid.Make().String()
	prefs := defaultAccountPreferences()
	record := &accountRecord{
		user: types.User{
			ID:          id,
			Email:       email,
			Name:        name,
			Preferences: &prefs,
		},
		password: password,
		goals:    []types.Goal{},
	}
	s.accounts[id] = record
	s.byEmail[email] = id
	return record, true
}

// defaultAccountPreferences mirrors the preferences a fresh account starts
// with on the real service.
func defaultAccountPreferences() types.Preferences {
	return types.Preferences{
		Theme:             "light",
		Notifications:     true,
		EmailUpdates:      true,
		Language:          "en",
		SelectedSDGs:      []string{},
		SelectedFont:      "system",
		ProgressIntensity: 5,
		CompletedCourses:  []string{},
	}
}

// authenticate checks credentials and returns the account on success.
func (s *Server) authenticate(email, password string) (*accountRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, false
	}
	record := s.accounts[id]
	if subtle.ConstantTimeCompare([]byte(record.password), []byte(password)) != 1 {
		return nil, false
	}
	return record, true
}

// issueToken creates a new opaque session token for the user.
func (s *Server) issueToken(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := ulid.Make().String()
	s.sessions[token] = userID
	return token
}

// resolveToken returns the account for a session token.
func (s *Server) resolveToken(token string) (*accountRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	record, ok := s.accounts[id]
	return record, ok
}
