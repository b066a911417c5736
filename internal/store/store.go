// Package store declares the persistence contract for users and contacts. Implementations
// live in the memory, mongostore and mysqlstore subpackages; the process picks one at startup
// and injects it into the services.
package store

import (
	"context"
	"errors"

	"gitlab.com/dirk.krummacker/mycontacts/internal/model"
)

var (
	// ErrNotFound is returned when a record does not exist. Contacts owned by another user
	// and malformed ids are reported the same way.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate")
	// ErrUnavailable is returned when the backing database cannot be used at all.
	ErrUnavailable = errors.New("store unavailable")
)

// UserStore persists users.
type UserStore interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	UserByUsername(ctx context.Context, username string) (model.User, error)
	UserByID(ctx context.Context, id string) (model.User, error)
}

// ContactStore persists contacts. Every method is scoped by the owning user id.
type ContactStore interface {
	// ListContacts returns the user's contacts ordered by creation time, then id.
	ListContacts(ctx context.Context, userID string) ([]model.Contact, error)
	CreateContact(ctx context.Context, contact model.Contact) (model.Contact, error)
	ContactByID(ctx context.Context, userID, id string) (model.Contact, error)
	// UpdateContact overwrites name, email, phone and updated time of an owned contact.
	UpdateContact(ctx context.Context, contact model.Contact) (model.Contact, error)
	DeleteContact(ctx context.Context, userID, id string) error
}

// Store is the full persistence handle.
type Store interface {
	UserStore
	ContactStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
