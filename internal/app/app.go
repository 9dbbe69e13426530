package app

import (
	"context"

	"lumen/config"
	"lumen/internal/controllers"
	"lumen/internal/database"
	"lumen/internal/events"
	"lumen/internal/handlers/middleware"
	"lumen/internal/jobs"
	"lumen/internal/repositories"
	"lumen/internal/services"
	"lumen/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events)

	services := services.New(db, config)
	repos := repositories.New(db)
	controllers := controllers.New(services, repos, eventBus, config, db)

	websocket, err := websockets.New(eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	if err := jobs.RegisterAllJobs(services.Scheduler, config, controllers, repos, db); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}
	if err := services.Scheduler.Start(context.Background()); err != nil {
		return &App{}, log.Err("failed to start scheduler", err)
	}

	app := &App{
		Database:    db,
		Middleware:  middleware.New(config),
		Websocket:   websocket,
		EventBus:    eventBus,
		Config:      config,
		Services:    services,
		Repos:       repos,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := map[string]any{
		"websocket":                 a.Websocket,
		"eventBus":                  a.EventBus,
		"transactionService":        a.Services.Transaction,
		"aiService":                 a.Services.AI,
		"emailService":              a.Services.Email,
		"schedulerService":          a.Services.Scheduler,
		"roomsController":           a.Controllers.Rooms,
		"bookingsController":        a.Controllers.Bookings,
		"serviceRequestsController": a.Controllers.ServiceRequests,
		"adminController":           a.Controllers.Admin,
		"aiController":              a.Controllers.AI,
	}

	for name, check := range nilChecks {
		if isNil(check) {
			return log.Error("nil check failed", "component", name)
		}
	}

	return nil
}

func isNil(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case *websockets.Manager:
		return v == nil
	case *events.EventBus:
		return v == nil
	case *services.TransactionService:
		return v == nil
	case *services.AIService:
		return v == nil
	case *services.EmailService:
		return v == nil
	case *services.SchedulerService:
		return v == nil
	}
	return false
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil && a.Services.Scheduler.IsRunning() {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if a.Websocket != nil {
		a.Websocket.Close()
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
