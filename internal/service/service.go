// Package service is the HTTP transport of MyContacts. It registers the REST endpoints on a
// gin router, checks bearer tokens and turns application errors into JSON responses.
package service

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gitlab.com/dirk.krummacker/mycontacts/internal/auth"
	"gitlab.com/dirk.krummacker/mycontacts/internal/config"
	"gitlab.com/dirk.krummacker/mycontacts/internal/contacts"
	"gitlab.com/dirk.krummacker/mycontacts/internal/logger"
	"gitlab.com/dirk.krummacker/mycontacts/internal/store"
)

// Dependencies are the collaborators of the HTTP layer. They are created once in main and
// shared by all requests.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Auth     *auth.Service
	Contacts *contacts.Service
	// Store is only used by the health check.
	Store     store.Store
	Version   string
	StartedAt time.Time
}

type handler struct {
	deps Dependencies
	log  *logger.Logger
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
func SetupHttpRouter(deps Dependencies) *gin.Engine {
	if deps.StartedAt.IsZero() {
		deps.StartedAt = time.Now()
	}
	h := &handler{deps: deps, log: deps.Logger}

	router := gin.New()
	router.Use(gin.CustomRecovery(h.recovered))
	if strings.EqualFold(deps.Config.GinLogging, "off") {
		h.log.Info("Turning off HTTP request logging.")
	} else {
		router.Use(h.requestLogger())
	}
	router.Use(cors.New(corsConfig(deps.Config.CORS)))
	router.Use(h.errorHandler())

	router.GET("/", h.apiInfo)
	router.GET("/health", h.health)
	router.GET("/ping", h.ping)

	api := router.Group("/api")

	users := api.Group("/users")
	users.POST("/register", h.register)
	users.POST("/login", h.login)
	users.GET("/current", h.authRequired(), h.currentUser)

	contactsGroup := api.Group("/contacts", h.authRequired())
	contactsGroup.GET("", h.findContacts)
	contactsGroup.POST("", h.createContact)
	contactsGroup.GET("/:id", h.findContactByID)
	contactsGroup.PUT("/:id", h.updateContactByID)
	contactsGroup.DELETE("/:id", h.deleteContactByID)

	router.NoRoute(h.routeNotFound)
	return router
}

// corsConfig allows the configured browser origins. Without any, cross-origin requests are
// refused.
func corsConfig(cfg config.CORS) cors.Config {
	c := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(c.AllowOrigins) == 0 {
		c.AllowOriginFunc = func(string) bool { return false }
	}
	return c
}
