package routes

import (
	"net/http"

	"github.com/templui/goalkeeper/internal/app"
	"github.com/templui/goalkeeper/internal/handler"
	"github.com/templui/goalkeeper/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	meta := handler.NewMetaHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	account := handler.NewAccountHandler(app.UserService)
	goal := handler.NewGoalHandler(app.GoalService)
	activity := handler.NewActivityHandler(app.GoalService, app.ProgressService)
	group := handler.NewGroupHandler(app.GroupService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", meta.Health)
	mux.HandleFunc("GET /api/units", meta.Units)

	// Auth (rate limited)
	rateLimiter := func(next http.HandlerFunc) http.HandlerFunc { return next }
	if app.Cfg.RateLimitAuth {
		rateLimiter = middleware.RateLimitAuth()
	}

	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/password/forgot", rateLimiter(auth.ForgotPassword))
	mux.HandleFunc("POST /api/auth/password/reset", rateLimiter(auth.ResetPassword))

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Account
	mux.HandleFunc("GET /api/me", middleware.RequireAuth(account.Me))
	mux.HandleFunc("PUT /api/me", middleware.RequireAuth(account.UpdateProfile))
	mux.HandleFunc("PUT /api/me/password", middleware.RequireAuth(account.ChangePassword))
	mux.HandleFunc("DELETE /api/me", middleware.RequireAuth(account.Delete))

	// Goals
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("POST /api/goals/generate", middleware.RequireAuth(goal.Generate))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("POST /api/goals/{id}/accept", middleware.RequireAuth(goal.Accept))
	mux.HandleFunc("POST /api/goals/{id}/quit", middleware.RequireAuth(goal.Quit))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))

	// Activities
	mux.HandleFunc("POST /api/activities", middleware.RequireAuth(activity.Log))
	mux.HandleFunc("GET /api/progress", middleware.RequireAuth(activity.Progress))

	// Groups
	mux.HandleFunc("POST /api/groups", middleware.RequireAuth(group.Create))
	mux.HandleFunc("GET /api/groups/{id}", middleware.RequireAuth(group.Get))
	mux.HandleFunc("GET /api/groups/{id}/members", middleware.RequireAuth(group.Members))
	mux.HandleFunc("POST /api/groups/{id}/invites", middleware.RequireAuth(group.Invite))
	mux.HandleFunc("POST /api/invites/accept", middleware.RequireAuth(group.AcceptInvite))
	mux.HandleFunc("DELETE /api/groups/{id}/members/me", middleware.RequireAuth(group.Leave))
	mux.HandleFunc("POST /api/groups/{id}/goals", middleware.RequireAuth(group.CreateGoal))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.RequestLogging,
		middleware.Auth(app.AuthService),
	)
}
