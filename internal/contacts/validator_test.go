package contacts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/dirk.krummacker/mycontacts/internal/apperror"
	"gitlab.com/dirk.krummacker/mycontacts/internal/config"
)

func TestNewValidatorUnknownPolicy(t *testing.T) {
	_, err := NewValidator("paranoid")
	assert.Error(t, err)
}

func TestStrictPolicy(t *testing.T) {
	v, err := NewValidator(config.PolicyStrict)
	require.NoError(t, err)
	assert.Equal(t, config.PolicyStrict, v.Policy())

	valid := []struct{ name, email, phone string }{
		{"Bob", "bob@x.com", "555-0100"},
		{"Erika Mustermann", "erika@example.de", "+49 (0)815 4711"},
		{"Ann", "ann@example.org", "123"},
	}
	for _, c := range valid {
		assert.NoError(t, v.Check(c.name, c.email, c.phone), c)
	}

	invalid := []struct {
		name, email, phone string
		field              string
	}{
		{"", "bob@x.com", "555-0100", "name"},
		{strings.Repeat("n", 101), "bob@x.com", "555-0100", "name"},
		{"Bob", "", "555-0100", "email"},
		{"Bob", "not-an-email", "555-0100", "email"},
		{"Bob", "bob@x.com", "", "phone"},
		{"Bob", "bob@x.com", "call me", "phone"},
		{"Bob", "bob@x.com", "12", "phone"},
		{"Bob", "bob@x.com", "1--------", "phone"},
	}
	for _, c := range invalid {
		err := v.Check(c.name, c.email, c.phone)
		require.Error(t, err, c)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation), c)
		assert.Contains(t, apperror.FromError(err).Fields, c.field, c)
	}
}

func TestLenientPolicy(t *testing.T) {
	v, err := NewValidator(config.PolicyLenient)
	require.NoError(t, err)

	assert.NoError(t, v.Check("B", "b@x", "ext. 5"))
	assert.NoError(t, v.Check(strings.Repeat("n", 200), "bob@localhost", "1"))

	for _, c := range []struct{ name, email, phone, field string }{
		{"", "b@x", "1", "name"},
		{"B", "bx", "1", "email"},
		{"B", "@x", "1", "email"},
		{"B", "b@", "1", "email"},
		{"B", "a@b@c", "1", "email"},
		{"B", "b@x", "call me", "phone"},
	} {
		err := v.Check(c.name, c.email, c.phone)
		require.Error(t, err, c)
		assert.Contains(t, apperror.FromError(err).Fields, c.field, c)
	}
}

// TestLengthLimits expects that no policy accepts a value longer than its database column.
func TestLengthLimits(t *testing.T) {
	longEmail := strings.Repeat("a", 64) + "@" + strings.Repeat(strings.Repeat("b", 60)+".", 4) + "com"
	require.Greater(t, len(longEmail), 254)

	for _, policy := range []string{config.PolicyStrict, config.PolicyLenient} {
		v, err := NewValidator(policy)
		require.NoError(t, err)

		for _, c := range []struct{ name, email, phone, field string }{
			{strings.Repeat("n", 256), "bob@x.com", "555-0100", "name"},
			{"Bob", longEmail, "555-0100", "email"},
			{"Bob", "bob@x.com", "1" + strings.Repeat("0", 100), "phone"},
		} {
			err := v.Check(c.name, c.email, c.phone)
			require.Error(t, err, policy, c.field)
			fields := apperror.FromError(err).Fields
			assert.Contains(t, fields, c.field, policy)
			assert.Contains(t, fields[c.field], "must be at most", policy)
		}
	}

	lenient, err := NewValidator(config.PolicyLenient)
	require.NoError(t, err)
	assert.NoError(t, lenient.Check(strings.Repeat("n", 255), "b@x", strings.Repeat("1", 64)))
}

func TestCheckReportsAllFields(t *testing.T) {
	v, err := NewValidator(config.PolicyStrict)
	require.NoError(t, err)

	appErr := apperror.FromError(v.Check("", "", ""))
	assert.Len(t, appErr.Fields, 3)
	assert.Equal(t, "name is required; email is required; phone is required", appErr.Message)
}
