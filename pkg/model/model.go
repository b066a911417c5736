// Package model contains the JSON shapes of the MyContacts REST API. They are shared by the
// HTTP handlers and the Go client.
package model

import "time"

// User is the public view of an account.
type User struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Contact is the data structure for a person that we know.
type Contact struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Credentials is the request body of register and login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// ContactRequest is the request body of create and update. On update, omitted fields are
// left unchanged.
type ContactRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Title   string            `json:"title"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
