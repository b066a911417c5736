package contacts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/dirk.krummacker/mycontacts/internal/apperror"
	"gitlab.com/dirk.krummacker/mycontacts/internal/config"
	"gitlab.com/dirk.krummacker/mycontacts/internal/logger"
	"gitlab.com/dirk.krummacker/mycontacts/internal/model"
	"gitlab.com/dirk.krummacker/mycontacts/internal/store"
	"gitlab.com/dirk.krummacker/mycontacts/internal/store/memory"
)

var fixedNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, contacts store.ContactStore) *Service {
	t.Helper()
	v, err := NewValidator(config.PolicyStrict)
	require.NoError(t, err)
	s := NewService(contacts, v, logger.NewNop())
	s.now = func() time.Time { return fixedNow }
	return s
}

func ptr(s string) *string { return &s }

func bob() model.ContactInput {
	return model.ContactInput{Name: "Bob", Email: "bob@x.com", Phone: "555-0100"}
}

func TestCreateAndList(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, memory.New())

	empty, err := s.List(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	created, err := s.Create(ctx, "u1", model.ContactInput{Name: "  Bob ", Email: "bob@x.com", Phone: " 555-0100"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, "Bob", created.Name)
	assert.Equal(t, "555-0100", created.Phone)
	assert.Equal(t, fixedNow, created.CreatedAt)
	assert.Equal(t, fixedNow, created.UpdatedAt)

	list, err := s.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []model.Contact{created}, list)

	others, err := s.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestCreateInvalidPersistsNothing(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, memory.New())

	_, err := s.Create(ctx, "u1", model.ContactInput{Name: "Bob", Email: "not-an-email", Phone: "555-0100"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Contains(t, apperror.FromError(err).Fields, "email")

	list, err := s.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, memory.New())

	for i, name := range []string{"First", "Second", "Third"} {
		s.now = func() time.Time { return fixedNow.Add(time.Duration(i) * time.Minute) }
		in := bob()
		in.Name = name
		_, err := s.Create(ctx, "u1", in)
		require.NoError(t, err)
	}

	list, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "First", list[0].Name)
	assert.Equal(t, "Second", list[1].Name)
	assert.Equal(t, "Third", list[2].Name)
}

func TestGetOwnership(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, memory.New())

	created, err := s.Create(ctx, "u1", bob())
	require.NoError(t, err)

	got, err := s.Get(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, foreign := s.Get(ctx, "u2", created.ID)
	_, unknown := s.Get(ctx, "u1", "does-not-exist")
	for _, err := range []error{foreign, unknown} {
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	}
	assert.Equal(t, foreign.Error(), unknown.Error())
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, memory.New())

	created, err := s.Create(ctx, "u1", bob())
	require.NoError(t, err)

	updated, err := s.Update(ctx, "u1", created.ID, model.ContactPatch{Phone: ptr("555-0199")})
	require.NoError(t, err)
	assert.Equal(t, "555-0199", updated.Phone)
	assert.Equal(t, "Bob", updated.Name)
	assert.Equal(t, "bob@x.com", updated.Email)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	// the clock did not move, but the update time still has to
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	again, err := s.Update(ctx, "u1", created.ID, model.ContactPatch{Name: ptr("Robert")})
	require.NoError(t, err)
	assert.True(t, again.UpdatedAt.After(updated.UpdatedAt))

	stored, err := s.Get(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, again, stored)
}

func TestUpdateRejects(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, memory.New())

	created, err := s.Create(ctx, "u1", bob())
	require.NoError(t, err)

	_, err = s.Update(ctx, "u1", created.ID, model.ContactPatch{})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Equal(t, "no values to be updated", apperror.FromError(err).Message)

	_, err = s.Update(ctx, "u1", created.ID, model.ContactPatch{Name: ptr("   ")})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = s.Update(ctx, "u1", created.ID, model.ContactPatch{Email: ptr("broken")})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = s.Update(ctx, "u2", created.ID, model.ContactPatch{Name: ptr("Mallory")})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	stored, err := s.Get(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, stored)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, memory.New())

	created, err := s.Create(ctx, "u1", bob())
	require.NoError(t, err)

	_, err = s.Delete(ctx, "u2", created.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	deleted, err := s.Delete(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, deleted)

	_, err = s.Delete(ctx, "u1", created.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = s.Get(ctx, "u1", created.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestStoreUnavailable(t *testing.T) {
	s := newTestService(t, store.Unavailable{Cause: errors.New("connection refused")})

	_, err := s.List(context.Background(), "u1")
	assert.True(t, apperror.IsKind(err, apperror.KindUnavailable))

	_, err = s.Create(context.Background(), "u1", bob())
	assert.True(t, apperror.IsKind(err, apperror.KindUnavailable))
}
