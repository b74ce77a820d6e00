package services

import (
	"errors"
	"strings"

	"farmstand/internal/authz"
	"farmstand/internal/domain"
	"farmstand/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCreds    = errors.New("invalid email or password")
	ErrEmailTaken  = errors.New("email already registered")
	ErrInvalidRole = errors.New("role must be FARMER or BUYER")
)

type AuthService struct {
	Users *repos.UserRepo
}

// Register creates an account. The role is fixed here and never changes.
func (s *AuthService) Register(email, name, password, role, phone string) (*domain.User, error) {
	role = strings.ToUpper(strings.TrimSpace(role))
	if role != domain.RoleFarmer && role != domain.RoleBuyer {
		return nil, ErrInvalidRole
	}
	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, ErrEmailTaken
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
		Hash:  string(h),
		Role:  role,
		Phone: phone,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
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

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}

// User returns the public contact card for any account.
func (s *AuthService) User(id string) (*domain.User, error) {
	return s.Users.ByID(id)
}

// UpdateProfile changes the caller's own name/phone. Email and role are
// immutable.
func (s *AuthService) UpdateProfile(caller authz.Caller, name, phone string) (*domain.User, error) {
	if caller.Anonymous() {
		return nil, authz.ErrDenied
	}
	ok, err := s.Users.UpdateProfile(caller.ID, name, phone)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, authz.ErrDenied
	}
	return s.Users.ByID(caller.ID)
}
