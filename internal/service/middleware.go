package service

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"gitlab.com/dirk.krummacker/mycontacts/internal/apperror"
	"gitlab.com/dirk.krummacker/mycontacts/internal/auth"
	apimodel "gitlab.com/dirk.krummacker/mycontacts/pkg/model"
)

// errorHandler converts the last error a handler pushed onto the context into the JSON error
// envelope. Details of internal errors are logged but never sent to the client.
func (h *handler) errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		appErr := apperror.FromError(c.Errors.Last().Err)
		if appErr.IsInternalError() {
			h.log.Error("request failed",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", appErr.Error())
		}
		writeError(c, appErr)
	}
}

// recovered answers a panicking request with the generic server error.
func (h *handler) recovered(c *gin.Context, recovered any) {
	h.log.Error("recovered from panic",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"panic", recovered)
	writeError(c, apperror.Internal(nil))
}

func writeError(c *gin.Context, appErr *apperror.Error) {
	c.AbortWithStatusJSON(appErr.Status(), apimodel.ErrorResponse{
		Title:   appErr.Title(),
		Message: appErr.Message,
		Fields:  appErr.Fields,
	})
}

// requestLogger logs one line per request.
func (h *handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP())
	}
}

// authRequired rejects requests without a valid bearer token. On success the user id is put
// into the request context for the handlers.
func (h *handler) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWithError(c, apperror.Unauthorized("missing or malformed authorization header"))
			return
		}
		id, err := h.deps.Auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), id))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// userID returns the id the auth middleware stored. Handlers behind authRequired can rely on
// it being present.
func userID(c *gin.Context) (string, bool) {
	id, ok := auth.UserIDFromContext(c.Request.Context())
	if !ok {
		_ = c.Error(apperror.Unauthorized("not authenticated"))
	}
	return id, ok
}

func (h *handler) routeNotFound(c *gin.Context) {
	writeError(c, apperror.NotFound("route not found"))
}

// abortWithError hands err to the error handler.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// invalidJSON is the error for request bodies that cannot be decoded.
func invalidJSON(err error) error {
	return apperror.Validation("invalid JSON", nil).Wrap(err)
}
