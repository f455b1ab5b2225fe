// Package auth implements the local user directory and the login session:
// hardcoded bootstrap credentials, self-registration, and the
// admin-approval workflow that gates new accounts.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dvieira/videoboard/internal/models"
	"github.com/dvieira/videoboard/internal/storage"
)

// Built-in bootstrap credentials, honored when no user directory exists.
// Carried over verbatim from the app this replaces.
const (
	BootstrapEmail    = "teste@teste.com"
	BootstrapPassword = "teste"
)

var (
	// ErrBadCredentials is the generic login failure.
	ErrBadCredentials = errors.New("auth: invalid email or password")
	// ErrPendingApproval means the credentials matched but an admin has
	// not approved the account yet. The UI must present this differently
	// from ErrBadCredentials.
	ErrPendingApproval = errors.New("auth: account pending admin approval")
	// ErrPasswordMismatch rejects registration when the confirmation
	// does not match.
	ErrPasswordMismatch = errors.New("auth: passwords do not match")
	// ErrEmailTaken rejects registration of an existing email.
	ErrEmailTaken = errors.New("auth: email already registered")
	// ErrUserNotFound reports a password-reset request for an unknown
	// email. This leaks account existence; preserved as observed.
	ErrUserNotFound = errors.New("auth: no account with that email")
	// ErrNotAdmin rejects approval operations from non-admin callers.
	ErrNotAdmin = errors.New("auth: admin access required")
)

// Service holds the user directory and the current session, persisting
// both through the blob store.
type Service struct {
	storage storage.Store
	log     *zap.Logger
	users   []models.User
	current string

	now func() time.Time
}

// Open loads the user directory and any saved session. When no directory
// exists yet it seeds the single admin account from the bootstrap
// credentials.
func Open(st storage.Store, log *zap.Logger) (*Service, error) {
	s := &Service{
		storage: st,
		log:     log,
		now:     time.Now,
	}

	data, err := st.Load(storage.KeyUserDirectory)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// First run: seed the admin so approvals have somewhere to go.
		s.users = []models.User{{
			Email:         BootstrapEmail,
			Password:      BootstrapPassword,
			AccessLevel:   models.AccessAdmin,
			AccessGranted: true,
			RequestedAt:   s.now().UnixMilli(),
		}}
		if err := s.persist(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load user directory: %w", err)
	default:
		if len(data) > 0 {
			if err := json.Unmarshal(data, &s.users); err != nil {
				return nil, fmt.Errorf("failed to parse user directory: %w", err)
			}
		}
	}

	// Restore a saved session if both flag and identity are present.
	if flag, err := st.Load(storage.KeyAuth); err == nil && string(flag) == "true" {
		if email, err := st.Load(storage.KeyCurrentUser); err == nil && len(email) > 0 {
			s.current = string(email)
		}
	}

	return s, nil
}

// CurrentUser returns the logged-in email, if any.
func (s *Service) CurrentUser() (string, bool) {
	return s.current, s.current != ""
}

// Login authenticates against the directory. Matching credentials on an
// unapproved account fail with ErrPendingApproval, which the caller must
// distinguish from ErrBadCredentials. The bootstrap pair logs in
// regardless when the directory is empty.
func (s *Service) Login(email, password string) error {
	if len(s.users) == 0 {
		if email == BootstrapEmail && password == BootstrapPassword {
			return s.startSession(email)
		}
		return ErrBadCredentials
	}

	for i := range s.users {
		u := &s.users[i]
		if u.Email != email || u.Password != password {
			continue
		}
		if !u.AccessGranted {
			return ErrPendingApproval
		}
		return s.startSession(email)
	}
	return ErrBadCredentials
}

func (s *Service) startSession(email string) error {
	s.current = email
	if err := s.storage.Save(storage.KeyAuth, []byte("true")); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	if err := s.storage.Save(storage.KeyCurrentUser, []byte(email)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	s.log.Info("login", zap.String("email", email))
	return nil
}

// Logout clears the session and the stored identity.
func (s *Service) Logout() {
	if s.current != "" {
		s.log.Info("logout", zap.String("email", s.current))
	}
	s.current = ""
	if err := s.storage.Remove(storage.KeyAuth); err != nil {
		s.log.Error("failed to clear auth flag", zap.Error(err))
	}
	if err := s.storage.Remove(storage.KeyCurrentUser); err != nil {
		s.log.Error("failed to clear current user", zap.Error(err))
	}
}

// Register creates a new member account awaiting admin approval. It does
// not log the user in.
func (s *Service) Register(email, password, confirmPassword string) error {
	if password != confirmPassword {
		return ErrPasswordMismatch
	}
	email = strings.TrimSpace(email)
	if s.find(email) != nil {
		return ErrEmailTaken
	}

	s.users = append(s.users, models.User{
		Email:         email,
		Password:      password,
		AccessLevel:   models.AccessMember,
		AccessGranted: false,
		RequestedAt:   s.now().UnixMilli(),
	})
	if err := s.persist(); err != nil {
		return err
	}

	s.log.Info("registration pending approval", zap.String("email", email))
	return nil
}

// RequestPasswordReset reports whether an account exists for email. There
// is no mail transport; success is purely informational.
func (s *Service) RequestPasswordReset(email string) error {
	if s.find(email) == nil {
		return ErrUserNotFound
	}
	s.log.Info("password reset requested", zap.String("email", email))
	return nil
}

// PendingUsers returns the accounts awaiting approval. Admin only.
func (s *Service) PendingUsers(caller string) ([]models.User, error) {
	if !s.isAdmin(caller) {
		return nil, ErrNotAdmin
	}
	var pending []models.User
	for _, u := range s.users {
		if !u.AccessGranted {
			pending = append(pending, u)
		}
	}
	return pending, nil
}

// ApproveUser grants login access to a pending account. Admin only; a
// missing email is a no-op.
func (s *Service) ApproveUser(caller, email string) error {
	if !s.isAdmin(caller) {
		return ErrNotAdmin
	}
	u := s.find(email)
	if u == nil || u.AccessGranted {
		return nil
	}
	u.AccessGranted = true
	if err := s.persist(); err != nil {
		return err
	}
	s.log.Info("user approved", zap.String("email", email), zap.String("by", caller))
	return nil
}

// RejectUser removes a pending account outright. Admin only; a missing
// email is a no-op. Approved accounts are not touched.
func (s *Service) RejectUser(caller, email string) error {
	if !s.isAdmin(caller) {
		return ErrNotAdmin
	}
	for i := range s.users {
		if s.users[i].Email == email && !s.users[i].AccessGranted {
			s.users = append(s.users[:i], s.users[i+1:]...)
			if err := s.persist(); err != nil {
				return err
			}
			s.log.Info("user rejected", zap.String("email", email), zap.String("by", caller))
			return nil
		}
	}
	return nil
}

// IsAdmin reports whether email is an approved admin account.
func (s *Service) IsAdmin(email string) bool {
	return s.isAdmin(email)
}

func (s *Service) isAdmin(email string) bool {
	u := s.find(email)
	return u != nil && u.AccessLevel == models.AccessAdmin && u.AccessGranted
}

func (s *Service) find(email string) *models.User {
	for i := range s.users {
		if s.users[i].Email == email {
			return &s.users[i]
		}
	}
	return nil
}

func (s *Service) persist() error {
	data, err := json.Marshal(s.users)
	if err != nil {
		return fmt.Errorf("failed to serialize user directory: %w", err)
	}
	if err := s.storage.Save(storage.KeyUserDirectory, data); err != nil {
		s.log.Error("failed to persist user directory", zap.Error(err))
		return fmt.Errorf("failed to persist user directory: %w", err)
	}
	return nil
}
