package service

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gitlab.com/dirk.krummacker/mycontacts/internal/model"
	apimodel "gitlab.com/dirk.krummacker/mycontacts/pkg/model"
)

// register creates a user account and responds with the user and a session token.
//
// Example REST API call:
//
//	> curl http://localhost:10000/api/users/register --request "POST" --include --header "Content-Type: application/json" --data '{"username": "alice", "password": "secret1"}'
func (h *handler) register(c *gin.Context) {
	var creds apimodel.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		abortWithError(c, invalidJSON(err))
		return
	}
	user, token, err := h.deps.Auth.Register(c.Request.Context(), creds.Username, creds.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, apimodel.AuthResponse{User: toAPIUser(user), Token: token})
}

// login checks the credentials and responds with the user and a fresh session token.
//
// Example REST API call:
//
//	> curl http://localhost:10000/api/users/login --request "POST" --header "Content-Type: application/json" --data '{"username": "alice", "password": "secret1"}'
func (h *handler) login(c *gin.Context) {
	var creds apimodel.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		abortWithError(c, invalidJSON(err))
		return
	}
	user, token, err := h.deps.Auth.Login(c.Request.Context(), creds.Username, creds.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, apimodel.AuthResponse{User: toAPIUser(user), Token: token})
}

// currentUser responds with the user the session token belongs to.
//
// Example REST API call:
//
//	> curl http://localhost:10000/api/users/current --header "Authorization: Bearer $TOKEN"
func (h *handler) currentUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	user, err := h.deps.Auth.CurrentUser(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, toAPIUser(user))
}

func toAPIUser(u model.User) apimodel.User {
	return apimodel.User{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}
