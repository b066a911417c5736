package service

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// pingTimeout bounds the store check of the health endpoint.
const pingTimeout = 2 * time.Second

// apiInfo describes the API.
//
// Example REST API call:
//
//	> curl http://localhost:10000/
func (h *handler) apiInfo(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{
		"name":    "MyContacts API",
		"version": h.deps.Version,
		"status":  "running",
		"endpoints": gin.H{
			"users":    "/api/users",
			"contacts": "/api/contacts",
			"health":   "/health",
			"ping":     "/ping",
		},
		"timestamp": time.Now().UTC(),
	})
}

// health reports liveness together with the state of the database connection. It always
// answers 200 so that a database outage does not get the process restarted.
//
// Example REST API call:
//
//	> curl http://localhost:10000/health
func (h *handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	database := "connected"
	if err := h.deps.Store.Ping(ctx); err != nil {
		h.log.Warn("health check: database not reachable", "error", err.Error())
		database = "disconnected"
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"status":      "OK",
		"timestamp":   time.Now().UTC(),
		"uptime":      time.Since(h.deps.StartedAt).Seconds(),
		"environment": h.deps.Config.Environment,
		"database":    database,
	})
}

// ping is the cheapest possible liveness probe.
//
// Example REST API call:
//
//	> curl http://localhost:10000/ping
func (h *handler) ping(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
