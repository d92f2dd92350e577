package app

import (
	"github.com/artcal/artcal/internal/config"
	"github.com/artcal/artcal/internal/utils"
	"github.com/artcal/artcal/pkg/calendar"
	"github.com/artcal/artcal/pkg/event"
	"github.com/artcal/artcal/pkg/grid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock utils.Clock

	EventStore event.Store

	CalendarService *calendar.Service
	CalendarHandler *calendar.Handler

	HealthHandler *HealthHandler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) (*Dependencies, error) {
	return buildDependencies(event.NewRepository(db), db, cfg)
}

func buildDependencies(store event.Store, pinger Pinger, cfg config.Application) (*Dependencies, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{}
	deps.Clock = &utils.SystemClock{}
	deps.EventStore = store

	deps.CalendarService = calendar.NewService(deps.EventStore, deps.Clock, calendar.Options{
		Location:     location,
		WeekStart:    grid.ParseWeekStart(cfg.Calendar.WeekStart),
		MaxVisible:   cfg.Calendar.MaxVisible,
		AgendaDays:   cfg.Calendar.AgendaDays,
		DefaultColor: cfg.Calendar.DefaultColor,
		Workers:      cfg.Calendar.Workers,
	})
	deps.CalendarHandler = calendar.NewHandler(deps.CalendarService)

	deps.HealthHandler = NewHealthHandler(pinger)

	return deps, nil
}
