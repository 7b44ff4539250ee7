//go:build unit

package user_test

import (
	"testing"

	"bookstore-backoffice/internal/domain/user"
	"bookstore-backoffice/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(user.User{}),
	cmpopts.EquateEmpty(),
}

type testCase struct {
	name   string
	mutate func(*builder.UserBuilder)
	errIs  error
}

func TestUser(t *testing.T) {
	t.Run("basic success", func(t *testing.T) {
		actual, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		email, _ := user.NewEmail("clerk@example.com")
		expected := user.NewUser(email, "hashed_password", "Test Clerk", user.RoleStaff)

		if diff := cmp.Diff(expected, actual, cmpOpts...); diff != "" {
			t.Errorf("User mismatch (-want +got):\n%s", diff)
		}

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, "Test Clerk", actual.FullName())
		assert.True(t, actual.IsActive())
		assert.True(t, actual.CanLogin())
		assert.False(t, actual.IsElevated())
		assert.Nil(t, actual.LastLogin())
	})

	t.Run("email", func(t *testing.T) {
		runCases(t, []testCase{
			{name: "valid address", mutate: func(b *builder.UserBuilder) { b.WithEmail("valid@example.com") }},
			{name: "surrounding spaces are trimmed", mutate: func(b *builder.UserBuilder) { b.WithEmail("  valid@example.com ") }},
			{name: "empty", mutate: func(b *builder.UserBuilder) { b.WithEmail("") }, errIs: user.ErrInvalidEmail},
			{name: "no domain", mutate: func(b *builder.UserBuilder) { b.WithEmail("invalid-email") }, errIs: user.ErrInvalidEmail},
			{name: "no at sign", mutate: func(b *builder.UserBuilder) { b.WithEmail("invalidemail.com") }, errIs: user.ErrInvalidEmail},
		})
	})

	t.Run("email is case-insensitive", func(t *testing.T) {
		e, err := user.NewEmail("Clerk@Example.COM")
		require.NoError(t, err)
		assert.Equal(t, "clerk@example.com", e.Value())
	})

	t.Run("role", func(t *testing.T) {
		runCases(t, []testCase{
			{name: "staff", mutate: func(b *builder.UserBuilder) { b.WithRole("staff") }},
			{name: "admin", mutate: func(b *builder.UserBuilder) { b.WithRole("admin") }},
			{name: "unknown role", mutate: func(b *builder.UserBuilder) { b.WithRole("operator") }, errIs: user.ErrInvalidRole},
			{name: "empty role", mutate: func(b *builder.UserBuilder) { b.WithRole("") }, errIs: user.ErrInvalidRole},
		})
	})

	t.Run("only admin is elevated", func(t *testing.T) {
		admin, err := builder.NewUserBuilder().AsAdmin().BuildDomain()
		require.NoError(t, err)
		assert.True(t, admin.IsElevated())
		assert.False(t, user.RoleStaff.IsElevated())
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewUserBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NoError(t, err)
				require.NotNil(t, actual)
			} else {
				require.Nil(t, actual)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
