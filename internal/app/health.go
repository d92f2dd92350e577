package app

import (
	"context"
	"net/http"

	"github.com/artcal/artcal/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

type healthDTO struct {
	Status string `json:"status"`
}

// Health godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} healthDTO
// @Failure 503 {object} rest.ErrorResponse "Database unreachable"
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		log.Warnf("health check failed: %v", err)
		rest.WriteError(w, http.StatusServiceUnavailable, "Database unreachable", err.Error())
		return
	}
	rest.WriteJSON(w, healthDTO{Status: "ok"})
}
