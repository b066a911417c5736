// Package memory is an in-process store. It backs the test suites and the "memory" store
// driver for local development.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"gitlab.com/dirk.krummacker/mycontacts/internal/model"
	"gitlab.com/dirk.krummacker/mycontacts/internal/store"
)

// Store keeps users and contacts in maps guarded by a single mutex.
type Store struct {
	mu         sync.RWMutex
	users      map[string]model.User
	usernames  map[string]string
	contacts   map[string]model.Contact
	pingErr    error
	generateID func() string
}

var _ store.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		users:      make(map[string]model.User),
		usernames:  make(map[string]string),
		contacts:   make(map[string]model.Contact),
		generateID: uuid.NewString,
	}
}

// SetPingError makes Ping fail with err; nil restores a healthy store.
func (s *Store) SetPingError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pingErr = err
}

func (s *Store) CreateUser(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usernames[user.Username]; taken {
		return model.User{}, store.ErrDuplicate
	}
	user.ID = s.generateID()
	s.users[user.ID] = user
	s.usernames[user.Username] = user.ID
	return user, nil
}

func (s *Store) UserByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernames[username]
	if !ok {
		return model.User{}, store.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) UserByID(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return model.User{}, store.ErrNotFound
	}
	return user, nil
}

func (s *Store) ListContacts(_ context.Context, userID string) ([]model.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contacts := make([]model.Contact, 0)
	for _, c := range s.contacts {
		if c.UserID == userID {
			contacts = append(contacts, c)
		}
	}
	slices.SortFunc(contacts, func(a, b model.Contact) int {
		if n := a.CreatedAt.Compare(b.CreatedAt); n != 0 {
			return n
		}
		return strings.Compare(a.ID, b.ID)
	})
	return contacts, nil
}

func (s *Store) CreateContact(_ context.Context, contact model.Contact) (model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contact.ID = s.generateID()
	s.contacts[contact.ID] = contact
	return contact, nil
}

func (s *Store) ContactByID(_ context.Context, userID, id string) (model.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contacts[id]
	if !ok || c.UserID != userID {
		return model.Contact{}, store.ErrNotFound
	}
	return c, nil
}

func (s *Store) UpdateContact(_ context.Context, contact model.Contact) (model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.contacts[contact.ID]
	if !ok || existing.UserID != contact.UserID {
		return model.Contact{}, store.ErrNotFound
	}
	existing.Name = contact.Name
	existing.Email = contact.Email
	existing.Phone = contact.Phone
	existing.UpdatedAt = contact.UpdatedAt
	s.contacts[existing.ID] = existing
	return existing, nil
}

func (s *Store) DeleteContact(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contacts[id]
	if !ok || c.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.contacts, id)
	return nil
}

func (s *Store) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pingErr
}

func (s *Store) Close(context.Context) error {
	return nil
}
