package services

import (
	"errors"
	"strings"
	"time"

	"storeledger/internal/domain"
	"storeledger/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid email or password")

// AuthService signs operators in and out of the back office.
type AuthService struct {
	Users *repos.UserRepo
	// Idle signs a session out after this long without a request. Zero keeps
	// sessions until logout.
	Idle time.Duration
}

// Login checks the password and binds the session id to the operator.
func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrBadCreds
	}
	u, err := s.Users.ByEmail(email)
	if err != nil {
		// compare anyway so unknown emails cost the same as bad passwords
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("storeledger"), bcrypt.DefaultCost)

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	if sid == "" {
		return nil, ErrBadCreds
	}
	return s.Users.SessionUser(sid, s.Idle)
}

// Prune removes signed-out and idle sessions; a no-op without an idle limit.
func (s *AuthService) Prune() (int64, error) {
	if s.Idle <= 0 {
		return 0, nil
	}
	return s.Users.PruneSessions(s.Idle)
}
