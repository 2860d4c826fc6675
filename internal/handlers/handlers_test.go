package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"spellstory/internal/database"
	"spellstory/internal/models"
	"spellstory/internal/repository"
	"spellstory/internal/security"
	"spellstory/internal/service"
	"spellstory/internal/sharelink"
	"spellstory/internal/storage"
	"spellstory/internal/story"
)

type stubStories struct {
	fail bool
}

func (s *stubStories) Generate(_ context.Context, words []string) (*models.Story, error) {
	if s.fail {
		return nil, fmt.Errorf("%w: model timed out", story.ErrStoryUnavailable)
	}
	beats := []models.Beat{{Type: models.BeatNarrative, Text: "Off we go"}}
	for _, w := range words {
		beats = append(beats, models.Beat{Type: models.BeatGame, TargetWord: w, GameType: models.GameLetterScramble})
	}
	return &models.Story{Title: "Adventure", Beats: beats}, nil
}

type testServer struct {
	handler http.Handler
	stories *stubStories
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	listRepo := repository.NewListRepository(db)
	progress := storage.NewProgress(storage.NewMemoryStore())
	stories := &stubStories{}

	listService := service.NewListService(listRepo, db, sharelink.NewCodec("secret", time.Hour), nil)
	sessionService := service.NewSessionService(listService, stories, progress, nil, time.Hour)

	routes := Routes{
		Lists:      NewListHandler(listService),
		Sessions:   NewSessionHandler(sessionService),
		Learners:   NewLearnerHandler(service.NewLearnerService(progress)),
		Admin:      NewAdminHandler(service.NewBackupService(listRepo, progress)),
		Checkers:   map[string]storage.Checker{"database": CheckFunc(db.PingContext)},
		StoryLimit: security.NewRateLimiter(3, time.Minute),
		AdminToken: "admin-secret",
	}
	return &testServer{handler: routes.Handler(), stories: stories}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "192.0.2.1:1234"
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, "GET", "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	checks := decode[map[string]checkResult](t, rec)
	if checks["database"].Status != "ok" {
		t.Errorf("checks = %+v", checks)
	}
}

func TestHealthFailure(t *testing.T) {
	handler := Health(map[string]storage.Checker{
		"redis": CheckFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestListEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, "POST", "/api/lists", map[string]interface{}{"name": "Animals", "words": []string{"cat", "dog"}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	list := decode[models.WordList](t, rec)

	rec = srv.do(t, "POST", fmt.Sprintf("/api/lists/%d/words", list.ID), map[string]interface{}{"words": []string{"cow"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("add words status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := decode[models.WordList](t, rec); strings.Join(got.Words, ",") != "cat,dog,cow" {
		t.Errorf("words = %v", got.Words)
	}

	rec = srv.do(t, "GET", "/api/lists", nil)
	summaries := decode[[]models.ListSummary](t, rec)
	if len(summaries) != 1 || summaries[0].WordCount != 3 {
		t.Errorf("summaries = %+v", summaries)
	}

	rec = srv.do(t, "POST", fmt.Sprintf("/api/lists/%d/share", list.ID), nil)
	token := decode[map[string]string](t, rec)["token"]
	if token == "" {
		t.Fatal("empty share token")
	}

	rec = srv.do(t, "GET", "/api/share/"+token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview status = %d", rec.Code)
	}
	if shared := decode[sharelink.SharedList](t, rec); shared.Name != "Animals" || len(shared.Words) != 3 {
		t.Errorf("shared = %+v", shared)
	}

	rec = srv.do(t, "POST", "/api/share/import", map[string]string{"token": "garbage"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("import garbage status = %d, want 400", rec.Code)
	}
	if got := decode[errorResponse](t, rec); got.Error != "invalid share link" {
		t.Errorf("error = %q", got.Error)
	}

	rec = srv.do(t, "DELETE", fmt.Sprintf("/api/lists/%d", list.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	rec = srv.do(t, "GET", fmt.Sprintf("/api/lists/%d", list.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get deleted status = %d, want 404", rec.Code)
	}
}

func TestListEndpointValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{name: "missing name", method: "POST", path: "/api/lists", body: map[string]interface{}{"words": []string{"cat"}}, want: http.StatusBadRequest},
		{name: "unknown field", method: "POST", path: "/api/lists", body: map[string]interface{}{"name": "A", "colour": "red"}, want: http.StatusBadRequest},
		{name: "bad id", method: "GET", path: "/api/lists/abc", want: http.StatusBadRequest},
		{name: "missing list", method: "GET", path: "/api/lists/999", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestSessionFlow(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, "POST", "/api/lists", map[string]interface{}{"name": "Pets", "words": []string{"cat"}})
	list := decode[models.WordList](t, rec)

	rec = srv.do(t, "POST", "/api/learners/sam/sessions", map[string]int64{"list_id": list.ID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body.String())
	}
	session := decode[service.SessionView](t, rec)
	if len(session.Story.Beats) != 2 || session.Story.Beats[1].Puzzle == nil {
		t.Fatalf("story = %+v", session.Story)
	}

	rec = srv.do(t, "POST", "/api/sessions/"+session.ID+"/answers", map[string]interface{}{"beat": 1, "answer": "cat", "latency_ms": 900})
	if rec.Code != http.StatusOK {
		t.Fatalf("answer status = %d: %s", rec.Code, rec.Body.String())
	}
	outcome := decode[service.ResultOutcome](t, rec)
	if !outcome.Result.Correct || !outcome.Finale {
		t.Errorf("outcome = %+v, want correct answer reaching the finale", outcome)
	}

	rec = srv.do(t, "GET", "/api/sessions/"+session.ID, nil)
	view := decode[service.SessionView](t, rec)
	if view.Stats.TotalGames != 1 || view.Stats.Accuracy != 1 || view.FinaleAt == nil {
		t.Errorf("view stats = %+v, finale %v", view.Stats, view.FinaleAt)
	}

	rec = srv.do(t, "POST", "/api/sessions/"+session.ID+"/results", map[string]interface{}{"word": "zebra", "game_type": "hangman", "correct": true})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("foreign word status = %d, want 400", rec.Code)
	}

	rec = srv.do(t, "GET", "/api/learners/sam/progress", nil)
	summary := decode[service.ProgressSummary](t, rec)
	if summary.TotalGames != 1 || summary.MasteredWords != 1 {
		t.Errorf("summary = %+v", summary)
	}

	rec = srv.do(t, "GET", "/api/learners/sam/profile", nil)
	profile := decode[service.ProfileView](t, rec)
	if profile.BestMechanic != models.GameLetterScramble {
		t.Errorf("profile = %+v", profile)
	}

	rec = srv.do(t, "DELETE", "/api/sessions/"+session.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("end status = %d", rec.Code)
	}
	rec = srv.do(t, "GET", "/api/sessions/"+session.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get ended session status = %d, want 404", rec.Code)
	}
}

func TestStartSessionStoryUnavailable(t *testing.T) {
	srv := newTestServer(t)
	srv.stories.fail = true

	rec := srv.do(t, "POST", "/api/lists", map[string]interface{}{"name": "Pets", "words": []string{"cat"}})
	list := decode[models.WordList](t, rec)

	rec = srv.do(t, "POST", "/api/learners/sam/sessions", map[string]int64{"list_id": list.ID})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if got := decode[errorResponse](t, rec); got.Error != ErrStoryUnavailableMsg {
		t.Errorf("error = %q", got.Error)
	}
}

func TestStartSessionRateLimited(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, "POST", "/api/lists", map[string]interface{}{"name": "Pets", "words": []string{"cat"}})
	list := decode[models.WordList](t, rec)

	for i := 0; i < 3; i++ {
		rec = srv.do(t, "POST", "/api/learners/sam/sessions", map[string]int64{"list_id": list.ID})
		if rec.Code != http.StatusCreated {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}

	rec = srv.do(t, "POST", "/api/learners/sam/sessions", map[string]int64{"list_id": list.ID})
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}

func TestAdminRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, "GET", "/api/admin/backup", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", rec.Code)
	}

	srv.do(t, "POST", "/api/lists", map[string]interface{}{"name": "Pets", "words": []string{"cat"}})
	rec = srv.do(t, "GET", "/api/admin/backup?learner=sam", nil, "Authorization", "Bearer admin-secret")
	if rec.Code != http.StatusOK {
		t.Fatalf("backup status = %d: %s", rec.Code, rec.Body.String())
	}
	backup := decode[service.BackupData](t, rec)
	if len(backup.Lists) != 1 || backup.Lists[0].Name != "Pets" {
		t.Errorf("backup lists = %+v", backup.Lists)
	}
	if _, ok := backup.Learners["sam"]; !ok {
		t.Error("backup missing learner sam")
	}
}

func TestRequireAdminDisabled(t *testing.T) {
	handler := RequireAdmin("", func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler called with admin routes disabled")
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/admin/backup", nil)
	req.Header.Set("Authorization", "Bearer ")
	handler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSuggestLearner(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, "GET", "/api/learners/suggestion", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decode[map[string]string](t, rec)
	name := body["learner"]
	if strings.Count(name, "-") != 2 {
		t.Errorf("learner = %q, want adjective-noun-NN", name)
	}

	rec = srv.do(t, "GET", "/api/learners/"+name+"/progress", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("progress for suggested name: status = %d", rec.Code)
	}
}
