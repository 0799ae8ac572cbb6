package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/detoxmine/detoxmine/internal/config"
	"github.com/detoxmine/detoxmine/internal/db"
	"github.com/detoxmine/detoxmine/internal/event"
	"github.com/detoxmine/detoxmine/internal/repository"
	"github.com/detoxmine/detoxmine/internal/service"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	Store          *repository.Store
	Emitter        *event.Emitter
	AuthService    *service.AuthService
	NotifyService  *service.NotifyService
	ProgramService *service.ProgramService
	ProfileService *service.ProfileService
	GoalService    *service.GoalService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	store := repository.NewStore(database)

	emitter, err := event.NewEmitter(cfg.EventWebhookURL, cfg.EventWebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event emitter: %v", err)
	}

	// Services
	authService := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry)
	notifyService := service.NewNotifyService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppName, cfg.IsDevelopment())
	programService := service.NewProgramService(store, emitter, cfg.EnableFaucet)
	profileService := service.NewProfileService(store)
	goalService := service.NewGoalService(store, emitter, notifyService)

	return &App{
		Cfg:            cfg,
		DB:             database,
		Store:          store,
		Emitter:        emitter,
		AuthService:    authService,
		NotifyService:  notifyService,
		ProgramService: programService,
		ProfileService: profileService,
		GoalService:    goalService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
