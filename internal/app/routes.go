package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Calendar views
	r.HandleFunc("/api/calendar/month", deps.CalendarHandler.GetMonth).Methods("GET")
	r.HandleFunc("/api/calendar/week", deps.CalendarHandler.GetWeek).Methods("GET")
	r.HandleFunc("/api/calendar/day", deps.CalendarHandler.GetDay).Methods("GET")
	r.HandleFunc("/api/calendar/agenda", deps.CalendarHandler.GetAgenda).Methods("GET")
	r.HandleFunc("/api/calendar/feed.ics", deps.CalendarHandler.GetFeed).Methods("GET")

	r.HandleFunc("/health", deps.HealthHandler.Health).Methods("GET")
}
