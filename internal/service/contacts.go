package service

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gitlab.com/dirk.krummacker/mycontacts/internal/model"
	apimodel "gitlab.com/dirk.krummacker/mycontacts/pkg/model"
)

// findContacts responds with all contacts of the authenticated user as JSON, oldest first. A
// user without contacts gets an empty list. Searching happens on the client.
//
// REST API call:
//
//	> curl http://localhost:10000/api/contacts --header "Authorization: Bearer $TOKEN"
func (h *handler) findContacts(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	contacts, err := h.deps.Contacts.List(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	result := make([]apimodel.Contact, 0, len(contacts))
	for _, contact := range contacts {
		result = append(result, toAPIContact(contact))
	}
	c.IndentedJSON(http.StatusOK, result)
}

// createContact stores the contact specified in the request's JSON for the authenticated user.
// It responds with the full contact data including the newly assigned id. Name, email and
// phone are all required.
//
// Example REST API call:
//
//	> curl http://localhost:10000/api/contacts --request "POST" --include --header "Authorization: Bearer $TOKEN" --header "Content-Type: application/json" --data '{"name": "Erika Mustermann", "email": "erika@example.de", "phone": "+49 0815 4711"}'
func (h *handler) createContact(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req apimodel.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, invalidJSON(err))
		return
	}
	contact, err := h.deps.Contacts.Create(c.Request.Context(), id, model.ContactInput{
		Name:  deref(req.Name),
		Email: deref(req.Email),
		Phone: deref(req.Phone),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, toAPIContact(contact))
}

// findContactByID locates the contact whose ID value matches the id parameter of the request URL,
// then returns that contact as a response. Contacts of other users are not found.
//
// Example REST API call:
//
//	> curl http://localhost:10000/api/contacts/6650a1f2c3d4e5f601234567 --header "Authorization: Bearer $TOKEN"
func (h *handler) findContactByID(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	contact, err := h.deps.Contacts.Get(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, toAPIContact(contact))
}

// updateContactByID updates the contact whose ID value matches the id parameter of the request
// URL, updates the values specified in the JSON (and only those), and finally responds with the
// new version of the contact.
//
// Example REST API call:
//
//	> curl http://localhost:10000/api/contacts/6650a1f2c3d4e5f601234567 --request "PUT" --include --header "Authorization: Bearer $TOKEN" --header "Content-Type: application/json" --data '{"phone": "81970"}'
func (h *handler) updateContactByID(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req apimodel.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, invalidJSON(err))
		return
	}
	contact, err := h.deps.Contacts.Update(c.Request.Context(), id, c.Param("id"), model.ContactPatch{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, toAPIContact(contact))
}

// deleteContactByID deletes the contact whose ID value matches the id parameter of the request URL
// and responds with the deleted contact.
//
// Example REST API call:
//
//	> curl http://localhost:10000/api/contacts/6650a1f2c3d4e5f601234567 --request "DELETE" --header "Authorization: Bearer $TOKEN"
func (h *handler) deleteContactByID(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	contact, err := h.deps.Contacts.Delete(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, toAPIContact(contact))
}

func toAPIContact(c model.Contact) apimodel.Contact {
	return apimodel.Contact{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
