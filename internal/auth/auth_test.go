package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dvieira/videoboard/internal/models"
	"github.com/dvieira/videoboard/internal/storage"
)

func newTestService(t *testing.T) (*Service, storage.Store) {
	t.Helper()
	st := storage.NewMemory()
	s, err := Open(st, zap.NewNop())
	require.NoError(t, err)
	return s, st
}

func TestFirstOpenSeedsAdmin(t *testing.T) {
	s, _ := newTestService(t)

	require.NoError(t, s.Login(BootstrapEmail, BootstrapPassword))
	email, ok := s.CurrentUser()
	assert.True(t, ok)
	assert.Equal(t, BootstrapEmail, email)
	assert.True(t, s.IsAdmin(BootstrapEmail))
}

func TestBootstrapFallbackWithEmptyDirectory(t *testing.T) {
	st := storage.NewMemory()
	// An explicitly empty directory: no seed happens, the built-in pair
	// still works.
	require.NoError(t, st.Save(storage.KeyUserDirectory, []byte("[]")))

	s, err := Open(st, zap.NewNop())
	require.NoError(t, err)

	assert.ErrorIs(t, s.Login("someone@x.com", "pw"), ErrBadCredentials)
	assert.NoError(t, s.Login(BootstrapEmail, BootstrapPassword))
}

func TestRegisterAndApprovalFlow(t *testing.T) {
	s, _ := newTestService(t)

	require.NoError(t, s.Register("new@x.com", "pw", "pw"))

	// Pending accounts fail with the distinct pending condition, not the
	// generic one.
	err := s.Login("new@x.com", "pw")
	assert.ErrorIs(t, err, ErrPendingApproval)
	assert.NotErrorIs(t, err, ErrBadCredentials)

	pending, err := s.PendingUsers(BootstrapEmail)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "new@x.com", pending[0].Email)
	assert.False(t, pending[0].AccessGranted)
	assert.Equal(t, models.AccessMember, pending[0].AccessLevel)

	require.NoError(t, s.ApproveUser(BootstrapEmail, "new@x.com"))
	assert.NoError(t, s.Login("new@x.com", "pw"))
}

func TestRegisterValidation(t *testing.T) {
	s, _ := newTestService(t)

	assert.ErrorIs(t, s.Register("new@x.com", "pw", "other"), ErrPasswordMismatch)
	require.NoError(t, s.Register("new@x.com", "pw", "pw"))
	assert.ErrorIs(t, s.Register("new@x.com", "pw2", "pw2"), ErrEmailTaken)
}

func TestRejectRemovesPendingAccount(t *testing.T) {
	s, _ := newTestService(t)

	require.NoError(t, s.Register("new@x.com", "pw", "pw"))
	require.NoError(t, s.RejectUser(BootstrapEmail, "new@x.com"))

	assert.ErrorIs(t, s.Login("new@x.com", "pw"), ErrBadCredentials)

	// Idempotent: rejecting again is a no-op, as is approving a missing
	// email.
	assert.NoError(t, s.RejectUser(BootstrapEmail, "new@x.com"))
	assert.NoError(t, s.ApproveUser(BootstrapEmail, "missing@x.com"))

	// Reject never touches approved accounts.
	require.NoError(t, s.RejectUser(BootstrapEmail, BootstrapEmail))
	assert.NoError(t, s.Login(BootstrapEmail, BootstrapPassword))
}

func TestAdminOnlyOperations(t *testing.T) {
	s, _ := newTestService(t)

	require.NoError(t, s.Register("member@x.com", "pw", "pw"))
	require.NoError(t, s.ApproveUser(BootstrapEmail, "member@x.com"))

	_, err := s.PendingUsers("member@x.com")
	assert.ErrorIs(t, err, ErrNotAdmin)
	assert.ErrorIs(t, s.ApproveUser("member@x.com", "x@x.com"), ErrNotAdmin)
	assert.ErrorIs(t, s.RejectUser("member@x.com", "x@x.com"), ErrNotAdmin)
}

func TestPasswordResetLeaksExistence(t *testing.T) {
	s, _ := newTestService(t)

	assert.NoError(t, s.RequestPasswordReset(BootstrapEmail))
	assert.ErrorIs(t, s.RequestPasswordReset("nobody@x.com"), ErrUserNotFound)
}

func TestSessionPersistence(t *testing.T) {
	s, st := newTestService(t)

	require.NoError(t, s.Login(BootstrapEmail, BootstrapPassword))

	// A new service over the same storage restores the session.
	restored, err := Open(st, zap.NewNop())
	require.NoError(t, err)
	email, ok := restored.CurrentUser()
	assert.True(t, ok)
	assert.Equal(t, BootstrapEmail, email)

	// Logout clears the stored identity for future opens too.
	restored.Logout()
	_, ok = restored.CurrentUser()
	assert.False(t, ok)

	again, err := Open(st, zap.NewNop())
	require.NoError(t, err)
	_, ok = again.CurrentUser()
	assert.False(t, ok)
}
