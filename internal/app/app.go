package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goalkeeper/internal/config"
	"github.com/templui/goalkeeper/internal/db"
	"github.com/templui/goalkeeper/internal/repository"
	"github.com/templui/goalkeeper/internal/service"
	"github.com/templui/goalkeeper/internal/validation"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	AuthService     *service.AuthService
	UserService     *service.UserService
	EmailService    *service.EmailService
	GoalService     *service.GoalService
	GroupService    *service.GroupService
	ProgressService *service.ProgressService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewWithDB(cfg, database), nil
}

// NewWithDB wires the services on top of an open, migrated database.
func NewWithDB(cfg *config.Config, database *sqlx.DB) *App {
	validation.Init()

	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	activityRepository := repository.NewActivityRepository(database)
	historyRepository := repository.NewHistoryRepository(database)
	groupRepository := repository.NewGroupRepository(database)
	transactor := repository.NewTransactor(database)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(transactor, userRepository, emailService, cfg.JWTSecret, cfg.JWTExpiry)
	userService := service.NewUserService(userRepository)
	groupService := service.NewGroupService(transactor, groupRepository, goalRepository, userRepository, emailService)
	goalService := service.NewGoalService(
		transactor,
		goalRepository,
		historyRepository,
		userRepository,
		emailService,
		groupService,
		cfg.GeneratorSeed,
	)
	progressService := service.NewProgressService(activityRepository)

	return &App{
		Cfg:             cfg,
		DB:              database,
		AuthService:     authService,
		UserService:     userService,
		EmailService:    emailService,
		GoalService:     goalService,
		GroupService:    groupService,
		ProgressService: progressService,
	}
}

// Close waits for pending notifications and closes the database.
func (a *App) Close() error {
	a.GoalService.Wait()
	a.GroupService.Wait()

	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
