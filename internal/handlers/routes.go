package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rocfit/classtrack-api/internal/auth"
)

// Handlers bundles every route handler the API mounts.
type Handlers struct {
	Meeting      *MeetingHandler
	Student      *StudentHandler
	Activity     *ActivityHandler
	Cancellation *CancellationHandler
	Session      *SessionHandler
	Organization *OrganizationHandler
	SignInSheet  *SignInSheetHandler
	Stats        *StatsHandler
}

func RegisterRoutes(r *chi.Mux, authHandler *auth.AuthHandler, h *Handlers, corsOrigin string) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if corsOrigin != "" {
		r.Use(corsMiddleware(corsOrigin))
	}

	config := huma.DefaultConfig("ClassTrack API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
		"bearerAuth": {
			Type:   "http",
			Scheme: "bearer",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes
	r.Get("/auth/discord/login", authHandler.HandleLogin)
	r.Get("/auth/discord/callback", authHandler.HandleCallback)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authHandler.AuthMiddleware)

		protected := func(o *huma.Operation) {
			o.Security = []map[string][]string{{"cookieAuth": {}}, {"bearerAuth": {}}}
		}

		huma.Get(api, "/me", authHandler.HandleMe, protected)

		huma.Post(api, "/meetings/resolve", h.Meeting.HandleResolve, protected)
		huma.Post(api, "/meetings/{id}/attendance", h.Meeting.HandleSaveAttendance, protected)

		huma.Get(api, "/students", h.Student.HandleList, protected)
		huma.Get(api, "/students/search", h.Student.HandleSearch, protected)
		huma.Post(api, "/students/quick-create", h.Student.HandleQuickCreate, protected)

		huma.Get(api, "/activities", h.Activity.HandleList, protected)
		huma.Get(api, "/activities/{id}", h.Activity.HandleGet, protected)
		huma.Post(api, "/activities/{id}/enrollment", h.Activity.HandleSaveEnrollment, protected)
		huma.Post(api, "/activities/{id}/signin-sheet", h.SignInSheet.HandleGenerate, protected)

		huma.Get(api, "/cancellations", h.Cancellation.HandleList, protected)
		huma.Post(api, "/cancellations", h.Cancellation.HandleCreate, protected)
		huma.Delete(api, "/cancellations/{id}", h.Cancellation.HandleDelete, protected)

		huma.Get(api, "/sessions", h.Session.HandleList, protected)
		huma.Patch(api, "/sessions/{id}", h.Session.HandleUpdate, protected)

		huma.Get(api, "/organizations", h.Organization.HandleList, protected)

		huma.Get(api, "/attendance/stats", h.Stats.HandleDayStats, protected)
	})
}

func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-API-KEY")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
