package store

import (
	"context"
	"fmt"

	"gitlab.com/dirk.krummacker/mycontacts/internal/model"
)

// Unavailable stands in for a store that could not be constructed at startup. It lets the
// HTTP server keep running in a degraded state: every call fails with ErrUnavailable and the
// health endpoint reports the database as disconnected.
type Unavailable struct {
	Cause error
}

var _ Store = Unavailable{}

func (u Unavailable) err() error {
	if u.Cause == nil {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, u.Cause)
}

func (u Unavailable) CreateUser(context.Context, model.User) (model.User, error) {
	return model.User{}, u.err()
}

func (u Unavailable) UserByUsername(context.Context, string) (model.User, error) {
	return model.User{}, u.err()
}

func (u Unavailable) UserByID(context.Context, string) (model.User, error) {
	return model.User{}, u.err()
}

func (u Unavailable) ListContacts(context.Context, string) ([]model.Contact, error) {
	return nil, u.err()
}

func (u Unavailable) CreateContact(context.Context, model.Contact) (model.Contact, error) {
	return model.Contact{}, u.err()
}

func (u Unavailable) ContactByID(context.Context, string, string) (model.Contact, error) {
	return model.Contact{}, u.err()
}

func (u Unavailable) UpdateContact(context.Context, model.Contact) (model.Contact, error) {
	return model.Contact{}, u.err()
}

func (u Unavailable) DeleteContact(context.Context, string, string) error {
	return u.err()
}

func (u Unavailable) Ping(context.Context) error {
	return u.err()
}

func (u Unavailable) Close(context.Context) error {
	return nil
}
