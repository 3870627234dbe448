package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// CatalogCounter reports the catalog size
type CatalogCounter interface {
	Count(ctx context.Context) (int, error)
}

// SessionCounter reports the number of live chat sessions
type SessionCounter interface {
	Len() int
}

// HealthHandler serves the liveness check
type HealthHandler struct {
	BaseHandler
	catalog   CatalogCounter
	sessions  SessionCounter
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler. sessions may be nil.
func NewHealthHandler(catalog CatalogCounter, sessions SessionCounter) *HealthHandler {
	return &HealthHandler{
		catalog:   catalog,
		sessions:  sessions,
		startTime: time.Now(),
	}
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Products int    `json:"products" example:"6"`
	Sessions int    `json:"sessions" example:"0"`
	Uptime   string `json:"uptime" example:"1h30m45s"`
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health godoc
// @Summary      Liveness check
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=HealthResponse}
// @Failure      500 {object} dto.Response
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	count, err := h.catalog.Count(c.Request.Context())
	if err != nil {
		h.InternalError(c, err)
		return
	}

	resp := HealthResponse{
		Status:   "ok",
		Products: count,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.sessions != nil {
		resp.Sessions = h.sessions.Len()
	}
	h.Success(c, resp)
}
