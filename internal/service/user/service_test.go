package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/apperr"
	"restaurant-ordering/internal/auth"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/storage/memory"
)

func newFixture(t *testing.T) *Service {
	t.Helper()
	tokens := auth.NewManager("test-secret", time.Hour)
	return New(memory.New(), tokens, nil)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterParams{
		Name: "Amina", Email: "amina@example.com", Phone: "0712345678", Password: "s3cret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, domain.RoleCustomer, u.Role)
	assert.NotEqual(t, "s3cret", u.PasswordHash)

	logged, token, err := svc.Login(ctx, "amina@example.com", "", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	assert.NotEmpty(t, token)

	// Phone works as the login identifier too.
	_, _, err = svc.Login(ctx, "", "0712345678", "s3cret")
	require.NoError(t, err)
}

func TestRegisterValidatesAndRejectsDuplicates(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterParams{Email: "a@b.c", Phone: "1", Password: "x"})
	assert.True(t, apperr.Is(err, apperr.Validation))

	_, err = svc.Register(ctx, RegisterParams{Name: "Amina", Email: "amina@example.com", Phone: "0712", Password: "x"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterParams{Name: "Other", Email: "amina@example.com", Phone: "0799", Password: "x"})
	assert.True(t, apperr.Is(err, apperr.Conflict))

	_, err = svc.Register(ctx, RegisterParams{Name: "Other", Email: "other@example.com", Phone: "0712", Password: "x"})
	assert.True(t, apperr.Is(err, apperr.Conflict))
}

func TestLoginFailures(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "", "", "pw")
	assert.True(t, apperr.Is(err, apperr.Validation))

	_, _, err = svc.Login(ctx, "ghost@example.com", "", "pw")
	assert.True(t, apperr.Is(err, apperr.NotFound))

	_, err = svc.Register(ctx, RegisterParams{Name: "Amina", Email: "amina@example.com", Phone: "0712", Password: "right"})
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "amina@example.com", "", "wrong")
	assert.True(t, apperr.Is(err, apperr.Unauthorized))
}

func TestEnsureAdmin(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	// No credentials configured means no bootstrap.
	require.NoError(t, svc.EnsureAdmin(ctx, "", "", ""))

	require.NoError(t, svc.EnsureAdmin(ctx, "admin@example.com", "0700", "adminpw"))
	u, _, err := svc.Login(ctx, "admin@example.com", "", "adminpw")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	// Second call is a no-op.
	require.NoError(t, svc.EnsureAdmin(ctx, "admin@example.com", "0700", "adminpw"))
}
