package devserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/microacademy/tracker/internal/types"
)

func postJSON(t *testing.T, handler http.Handler, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestSignup_IssuesToken(t *testing.T) {
	router := New().Router()

	w := postJSON(t, router, "/api/v1/auth/signup",
		types.SignupRequest{Email: "a@b.c", Password: "pw", Name: "A"}, "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp types.TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.AccessToken == "" || resp.TokenType != "bearer" {
		t.Errorf("TokenResponse = %+v", resp)
	}
	if resp.User == nil || resp.User.Preferences == nil {
		t.Error("signup response missing user with default preferences")
	}
}

func TestSignup_MissingFields(t *testing.T) {
	router := New().Router()

	w := postJSON(t, router, "/api/v1/auth/signup",
		types.SignupRequest{Email: "a@b.c"}, "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil || detail.Detail == "" {
		t.Errorf("error body = %q, want {\"detail\": ...}", w.Body.String())
	}
}

func TestProtectedRoutes_RequireBearerToken(t *testing.T) {
	router := New().Router()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without token", w.Code)
	}
}

func TestCourses_PublicAndSeeded(t *testing.T) {
	router := New().Router()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var courses []types.Course
	if err := json.Unmarshal(w.Body.Bytes(), &courses); err != nil {
		t.Fatalf("unmarshal courses: %v", err)
	}
	if len(courses) == 0 {
		t.Error("course library is empty")
	}
}

func TestUpdateGoal_NotFound(t *testing.T) {
	router := New().Router()

	signup := postJSON(t, router, "/api/v1/auth/signup",
		types.SignupRequest{Email: "a@b.c", Password: "pw", Name: "A"}, "")
	var resp types.TokenResponse
	if err := json.Unmarshal(signup.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal signup: %v", err)
	}

	data, _ := json.Marshal(types.Goal{Title: "x"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/goals/missing", bytes.NewReader(data))
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
