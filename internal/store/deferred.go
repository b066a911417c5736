package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"gitlab.com/dirk.krummacker/mycontacts/internal/model"
)

var errClosed = errors.New("store closed")

// Opener connects a store and runs whatever setup it needs before serving.
type Opener func(ctx context.Context) (Store, error)

// Deferred opens its store on first use. A failed attempt is answered like Unavailable and
// repeated on a later call, at most once per retry interval, so a server started before its
// database recovers without a restart.
type Deferred struct {
	open  Opener
	retry time.Duration
	now   func() time.Time

	mu      sync.Mutex
	inner   Store
	lastErr error
	lastTry time.Time
	closed  bool
}

var _ Store = (*Deferred)(nil)

// NewDeferred returns a store that calls open until it succeeds.
func NewDeferred(open Opener, retry time.Duration) *Deferred {
	return &Deferred{open: open, retry: retry, now: time.Now}
}

// current returns the opened store, or an Unavailable carrying the last failure.
func (d *Deferred) current(ctx context.Context) Store {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inner != nil {
		return d.inner
	}
	if d.closed {
		return Unavailable{Cause: errClosed}
	}
	if d.lastErr != nil && d.now().Sub(d.lastTry) < d.retry {
		return Unavailable{Cause: d.lastErr}
	}
	d.lastTry = d.now()
	inner, err := d.open(ctx)
	if err != nil {
		d.lastErr = err
		return Unavailable{Cause: err}
	}
	d.inner, d.lastErr = inner, nil
	return inner
}

// Opened reports whether the store has been opened.
func (d *Deferred) Opened() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inner != nil
}

func (d *Deferred) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	return d.current(ctx).CreateUser(ctx, user)
}

func (d *Deferred) UserByUsername(ctx context.Context, username string) (model.User, error) {
	return d.current(ctx).UserByUsername(ctx, username)
}

func (d *Deferred) UserByID(ctx context.Context, id string) (model.User, error) {
	return d.current(ctx).UserByID(ctx, id)
}

func (d *Deferred) ListContacts(ctx context.Context, userID string) ([]model.Contact, error) {
	return d.current(ctx).ListContacts(ctx, userID)
}

func (d *Deferred) CreateContact(ctx context.Context, contact model.Contact) (model.Contact, error) {
	return d.current(ctx).CreateContact(ctx, contact)
}

func (d *Deferred) ContactByID(ctx context.Context, userID, id string) (model.Contact, error) {
	return d.current(ctx).ContactByID(ctx, userID, id)
}

func (d *Deferred) UpdateContact(ctx context.Context, contact model.Contact) (model.Contact, error) {
	return d.current(ctx).UpdateContact(ctx, contact)
}

func (d *Deferred) DeleteContact(ctx context.Context, userID, id string) error {
	return d.current(ctx).DeleteContact(ctx, userID, id)
}

func (d *Deferred) Ping(ctx context.Context) error {
	return d.current(ctx).Ping(ctx)
}

// Close closes the opened store. It never opens one, and no call opens one afterwards.
func (d *Deferred) Close(ctx context.Context) error {
	d.mu.Lock()
	inner := d.inner
	d.inner, d.closed = nil, true
	d.mu.Unlock()
	if inner == nil {
		return nil
	}
	return inner.Close(ctx)
}
