// Package contacts implements the contacts resource. Every operation is scoped to the user id
// that the auth gate extracted from the session token.
package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/mycontacts/internal/apperror"
	"gitlab.com/dirk.krummacker/mycontacts/internal/logger"
	"gitlab.com/dirk.krummacker/mycontacts/internal/model"
	"gitlab.com/dirk.krummacker/mycontacts/internal/store"
)

// Service manages the contacts of authenticated users.
type Service struct {
	contacts  store.ContactStore
	validator *Validator
	now       func() time.Time
	logger    *logger.Logger
}

// NewService creates the contacts service.
func NewService(contacts store.ContactStore, validator *Validator, log *logger.Logger) *Service {
	return &Service{
		contacts:  contacts,
		validator: validator,
		now:       time.Now,
		logger:    log,
	}
}

// List returns all contacts of the user, oldest first. A user without contacts gets an empty
// slice.
func (s *Service) List(ctx context.Context, userID string) ([]model.Contact, error) {
	contacts, err := s.contacts.ListContacts(ctx, userID)
	if err != nil {
		return nil, s.storeError("failed to list contacts", userID, err)
	}
	if contacts == nil {
		contacts = []model.Contact{}
	}
	return contacts, nil
}

// Create validates the input and stores a new contact owned by the user.
func (s *Service) Create(ctx context.Context, userID string, in model.ContactInput) (model.Contact, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.Phone)
	if err := s.validator.Check(name, email, phone); err != nil {
		return model.Contact{}, err
	}

	now := s.timestamp()
	contact, err := s.contacts.CreateContact(ctx, model.Contact{
		UserID:    userID,
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Contact{}, s.storeError("failed to create contact", userID, err)
	}

	s.logger.Info("Contacts service: contact created", "user_id", userID, "contact_id", contact.ID)
	return contact, nil
}

// Get returns one contact of the user. Contacts of other users are reported as not found.
func (s *Service) Get(ctx context.Context, userID, id string) (model.Contact, error) {
	contact, err := s.contacts.ContactByID(ctx, userID, id)
	if err != nil {
		return model.Contact{}, s.storeError("failed to get contact", userID, err)
	}
	return contact, nil
}

// Update applies the fields present in the patch. The result is validated as a whole, so a
// patch cannot leave a contact in a state Create would have rejected.
func (s *Service) Update(ctx context.Context, userID, id string, patch model.ContactPatch) (model.Contact, error) {
	if patch.IsEmpty() {
		return model.Contact{}, apperror.Validation("no values to be updated", nil)
	}

	existing, err := s.contacts.ContactByID(ctx, userID, id)
	if err != nil {
		return model.Contact{}, s.storeError("failed to get contact", userID, err)
	}

	updated := existing
	patch.Apply(&updated)
	updated.Name = strings.TrimSpace(updated.Name)
	updated.Email = strings.TrimSpace(updated.Email)
	updated.Phone = strings.TrimSpace(updated.Phone)
	if err := s.validator.Check(updated.Name, updated.Email, updated.Phone); err != nil {
		return model.Contact{}, err
	}

	updated.UpdatedAt = s.timestamp()
	if !updated.UpdatedAt.After(existing.UpdatedAt) {
		updated.UpdatedAt = existing.UpdatedAt.Add(time.Millisecond)
	}

	contact, err := s.contacts.UpdateContact(ctx, updated)
	if err != nil {
		return model.Contact{}, s.storeError("failed to update contact", userID, err)
	}

	s.logger.Info("Contacts service: contact updated", "user_id", userID, "contact_id", contact.ID)
	return contact, nil
}

// Delete removes one contact of the user and returns what was removed.
func (s *Service) Delete(ctx context.Context, userID, id string) (model.Contact, error) {
	existing, err := s.contacts.ContactByID(ctx, userID, id)
	if err != nil {
		return model.Contact{}, s.storeError("failed to get contact", userID, err)
	}
	if err := s.contacts.DeleteContact(ctx, userID, id); err != nil {
		return model.Contact{}, s.storeError("failed to delete contact", userID, err)
	}

	s.logger.Info("Contacts service: contact deleted", "user_id", userID, "contact_id", id)
	return existing, nil
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *Service) storeError(msg, userID string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperror.NotFound("contact not found")
	case errors.Is(err, store.ErrUnavailable):
		s.logger.Error("Contacts service: "+msg, "user_id", userID, "error", err.Error())
		return apperror.Unavailable(err)
	default:
		s.logger.Error("Contacts service: "+msg, "user_id", userID, "error", err.Error())
		return apperror.Internal(fmt.Errorf("%s: %w", msg, err))
	}
}
