package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/dirk.krummacker/mycontacts/internal/model"
	"gitlab.com/dirk.krummacker/mycontacts/internal/store"
	"gitlab.com/dirk.krummacker/mycontacts/internal/store/memory"
)

// flakyOpener fails a fixed number of times and then opens a memory store.
type flakyOpener struct {
	failures int
	calls    int
	opened   *memory.Store
}

func (o *flakyOpener) open(context.Context) (store.Store, error) {
	o.calls++
	if o.calls <= o.failures {
		return nil, errors.New("dial tcp: connection refused")
	}
	o.opened = memory.New()
	return o.opened, nil
}

func TestDeferredRecoversAfterFailedOpen(t *testing.T) {
	ctx := context.Background()
	opener := &flakyOpener{failures: 2}
	s := store.NewDeferred(opener.open, 0)

	err := s.Ping(ctx)
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.ErrorContains(t, err, "connection refused")
	_, err = s.CreateUser(ctx, model.User{Username: "alice"})
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.False(t, s.Opened())

	user, err := s.CreateUser(ctx, model.User{Username: "alice"})
	require.NoError(t, err)
	assert.True(t, s.Opened())
	assert.NoError(t, s.Ping(ctx))

	found, err := s.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, found)
	assert.Equal(t, 3, opener.calls)
}

func TestDeferredWaitsBetweenAttempts(t *testing.T) {
	ctx := context.Background()
	opener := &flakyOpener{failures: 1}
	s := store.NewDeferred(opener.open, time.Hour)

	assert.ErrorIs(t, s.Ping(ctx), store.ErrUnavailable)
	assert.ErrorIs(t, s.Ping(ctx), store.ErrUnavailable)
	assert.Equal(t, 1, opener.calls)
}

func TestDeferredClose(t *testing.T) {
	ctx := context.Background()
	opener := &flakyOpener{}
	s := store.NewDeferred(opener.open, 0)

	// closing before first use opens nothing
	require.NoError(t, s.Close(ctx))
	assert.ErrorIs(t, s.Ping(ctx), store.ErrUnavailable)
	assert.Zero(t, opener.calls)
}
