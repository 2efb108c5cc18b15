package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/microacademy/tracker/internal/types"
)

// Signup handles POST /auth/signup.
func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	var req types.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		writeDetail(w, http.StatusBadRequest, "email, password and name are required")
		return
	}

	record, ok := s.createAccount(req.Email, req.Password, req.Name)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "User with this email already exists")
		return
	}

	token := s.issueToken(record.user.ID)
	user := s.snapshotUser(record)
	writeJSON(w, types.TokenResponse{AccessToken: token, TokenType: "bearer", User: &user})
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, ok := s.authenticate(req.Email, req.Password)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	token := s.issueToken(record.user.ID)
	user := s.snapshotUser(record)
	writeJSON(w, types.TokenResponse{AccessToken: token, TokenType: "bearer", User: &user})
}

// Refresh handles POST /auth/refresh.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	record := requestAccount(r)
	token := s.issueToken(record.user.ID)
	writeJSON(w, types.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// CurrentUser handles GET /users/me.
func (s *Server) CurrentUser(w http.ResponseWriter, r *http.Request) {
	record := requestAccount(r)
	writeJSON(w, s.snapshotUser(record))
}

// UpdateProfile handles PUT /users/me.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	record := requestAccount(r)

	var update types.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	if update.Name != "" {
		record.user.Name = update.Name
	}
	if update.Preferences != nil {
		record.user.Preferences = update.Preferences
	}
	s.mu.Unlock()

	writeJSON(w, s.snapshotUser(record))
}

// UpdatePreferences handles PUT /users/me/preferences.
func (s *Server) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	record := requestAccount(r)

	var update types.PreferencesUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	prefs := update.Preferences
	record.user.Preferences = &prefs
	s.mu.Unlock()

	writeJSON(w, s.snapshotUser(record))
}

// UpdateUserGoals handles PUT /users/me/goals.
func (s *Server) UpdateUserGoals(w http.ResponseWriter, r *http.Request) {
	record := requestAccount(r)

	var update types.GoalsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	record.goals = update.Goals
	if record.goals == nil {
		record.goals = []types.Goal{}
	}
	s.mu.Unlock()

	writeJSON(w, s.snapshotUser(record))
}

// Goals handles GET /goals.
func (s *Server) Goals(w http.ResponseWriter, r *http.Request) {
	record := requestAccount(r)

	s.mu.Lock()
	goals := make([]types.Goal, len(record.goals))
	copy(goals, record.goals)
	s.mu.Unlock()

	writeJSON(w, goals)
}

// CreateGoal handles POST /goals.
func (s *Server) CreateGoal(w http.ResponseWriter, r *http.Request) {
	record := requestAccount(r)

	var goal types.Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if goal.ID == "" {
		goal.ID = ulid.Make().String()
	}

	s.mu.Lock()
	record.goals = append(record.goals, goal)
	s.mu.Unlock()

	writeJSON(w, goal)
}

// UpdateGoal handles PUT /goals/{id}.
func (s *Server) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	record := requestAccount(r)
	goalID := chi.URLParam(r, "id")

	var goal types.Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	goal.ID = goalID

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range record.goals {
		if g.ID == goalID {
			record.goals[i] = goal
			writeJSON(w, goal)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Goal not found")
}

// DeleteGoal handles DELETE /goals/{id}.
func (s *Server) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	record := requestAccount(r)
	goalID := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range record.goals {
		if g.ID == goalID {
			record.goals = append(record.goals[:i], record.goals[i+1:]...)
			writeJSON(w, map[string]string{"status": "deleted"})
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Goal not found")
}

// Courses handles GET /courses.
func (s *Server) Courses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.courses)
}

// Course handles GET /courses/{id}.
func (s *Server) Course(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")
	for _, c := range s.courses {
		if c.ID == courseID {
			writeJSON(w, c)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Course not found")
}

// snapshotUser returns a copy of the account's profile with its goal list
// attached, matching the shape of the real service's user document.
func (s *Server) snapshotUser(record *accountRecord) types.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := record.user
	goals := make([]types.Goal, len(record.goals))
	copy(goals, record.goals)
	user.Goals = goals
	return user
}
