package routes

import (
	"net/http"

	"github.com/detoxmine/detoxmine/internal/app"
	"github.com/detoxmine/detoxmine/internal/handler"
	"github.com/detoxmine/detoxmine/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	program := handler.NewProgramHandler(app.ProgramService)
	profile := handler.NewProfileHandler(app.ProfileService, app.GoalService)
	goal := handler.NewGoalHandler(app.GoalService)

	mux := http.NewServeMux()

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /v1/auth/token", rateLimiter(auth.IssueToken))

	// Program
	mux.HandleFunc("POST /v1/program", middleware.RequireAuth(program.Bootstrap))
	mux.HandleFunc("GET /v1/program", program.State)
	mux.HandleFunc("POST /v1/rewards/distributions", middleware.RequireAuth(program.Distribute))

	// Profiles
	mux.HandleFunc("POST /v1/profiles", middleware.RequireAuth(profile.Create))
	mux.HandleFunc("GET /v1/profiles/{address}", profile.Get)
	mux.HandleFunc("GET /v1/profiles/{address}/goals", profile.Goals)

	// Goals
	mux.HandleFunc("POST /v1/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /v1/goals/{address}", goal.Get)
	mux.HandleFunc("GET /v1/goals/{address}/reports", goal.Reports)
	mux.HandleFunc("POST /v1/goals/{address}/reports", middleware.RequireAuth(goal.Report))
	mux.HandleFunc("POST /v1/goals/{address}/finalize", middleware.RequireAuth(goal.Finalize))

	// Holding accounts
	mux.HandleFunc("GET /v1/accounts/{address}", program.Account)
	mux.HandleFunc("POST /v1/accounts/{address}/fund", middleware.RequireAuth(program.Fund))

	// Global middleware
	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.Identity(app.AuthService),
	)
}
