package handlers

import (
	"net/http"

	"spellstory/internal/security"
	"spellstory/internal/storage"
)

// Routes bundles the handlers the API is built from
type Routes struct {
	Lists      *ListHandler
	Sessions   *SessionHandler
	Learners   *LearnerHandler
	Admin      *AdminHandler
	Checkers   map[string]storage.Checker
	StoryLimit *security.RateLimiter
	AdminToken string
	AudioDir   string
}

// Handler registers every route and wraps the mux in the standard middleware
func (rt Routes) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", Health(rt.Checkers))

	if rt.AudioDir != "" {
		mux.Handle("GET /audio/", http.StripPrefix("/audio/", http.FileServer(http.Dir(rt.AudioDir))))
	}

	// Word lists
	mux.HandleFunc("GET /api/lists", rt.Lists.ListLists)
	mux.HandleFunc("POST /api/lists", rt.Lists.CreateList)
	mux.HandleFunc("GET /api/lists/{id}", rt.Lists.GetList)
	mux.HandleFunc("PUT /api/lists/{id}", rt.Lists.UpdateList)
	mux.HandleFunc("DELETE /api/lists/{id}", rt.Lists.DeleteList)
	mux.HandleFunc("GET /api/lists/{id}/words", rt.Lists.GetListWords)
	mux.HandleFunc("POST /api/lists/{id}/words", rt.Lists.AddWords)
	mux.HandleFunc("PUT /api/lists/{id}/words", rt.Lists.ReplaceWords)
	mux.HandleFunc("POST /api/lists/{id}/share", rt.Lists.ShareList)
	mux.HandleFunc("GET /api/share/{token}", rt.Lists.PreviewShare)
	mux.HandleFunc("POST /api/share/import", rt.Lists.ImportShare)

	// Play sessions
	startSession := rt.Sessions.StartSession
	if rt.StoryLimit != nil {
		startSession = RateLimit(rt.StoryLimit, startSession)
	}
	mux.HandleFunc("POST /api/learners/{learner}/sessions", startSession)
	mux.HandleFunc("GET /api/sessions/{id}", rt.Sessions.GetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", rt.Sessions.EndSession)
	mux.HandleFunc("POST /api/sessions/{id}/results", rt.Sessions.RecordResult)
	mux.HandleFunc("POST /api/sessions/{id}/answers", rt.Sessions.SubmitAnswer)

	// Learner progress
	mux.HandleFunc("GET /api/learners/suggestion", rt.Learners.SuggestLearner)
	mux.HandleFunc("GET /api/learners/{learner}/reviews/due", rt.Learners.DueReviews)
	mux.HandleFunc("GET /api/learners/{learner}/profile", rt.Learners.Profile)
	mux.HandleFunc("GET /api/learners/{learner}/progress", rt.Learners.Summary)

	// Backup
	mux.HandleFunc("GET /api/admin/backup", RequireAdmin(rt.AdminToken, rt.Admin.ExportBackup))
	mux.HandleFunc("POST /api/admin/restore", RequireAdmin(rt.AdminToken, rt.Admin.ImportBackup))

	return Recover(Logging(mux))
}
