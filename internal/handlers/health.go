package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker/v2"
	apierrors "github.com/yukikurage/event-management-api/internal/errors"
	"github.com/yukikurage/event-management-api/internal/logging"
	"gorm.io/gorm"
)

// CircuitState reports the state of a circuit breaker.
type CircuitState interface {
	State() gobreaker.State
}

// HealthHandler reports service and database liveness
type HealthHandler struct {
	db            *gorm.DB
	notifications CircuitState
}

// NewHealthHandler creates a HealthHandler. notifications is nil when no broker is configured.
func NewHealthHandler(db *gorm.DB, notifications CircuitState) *HealthHandler {
	return &HealthHandler{db: db, notifications: notifications}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("database ping failed")
		apierrors.ServiceUnavailable(c, "Banco de dados indisponível")
		return
	}

	// an open breaker only degrades notifications
	notifications := "disabled"
	if h.notifications != nil {
		notifications = h.notifications.State().String()
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up", "notifications": notifications})
}
