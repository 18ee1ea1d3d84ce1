// Package user implements registration and login. Passwords are stored as
// bcrypt hashes; login returns a signed token consumed by the admin
// endpoints.
package user

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"restaurant-ordering/internal/apperr"
	"restaurant-ordering/internal/auth"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/storage"
)

type Service struct {
	store  storage.UserStore
	tokens *auth.Manager
	log    *logger.Logger
}

func New(store storage.UserStore, tokens *auth.Manager, log *logger.Logger) *Service {
	if log == nil {
		log = logger.New("user")
	}
	return &Service{store: store, tokens: tokens, log: log}
}

type RegisterParams struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

func (s *Service) Register(ctx context.Context, p RegisterParams) (domain.User, error) {
	return s.register(ctx, p, domain.RoleCustomer)
}

func (s *Service) register(ctx context.Context, p RegisterParams, role string) (domain.User, error) {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Email) == "" ||
		strings.TrimSpace(p.Phone) == "" || p.Password == "" {
		return domain.User{}, apperr.Validationf("name, email, phone, and password are required")
	}
	if _, err := s.store.FindUserByEmailOrPhone(ctx, p.Email, p.Phone); err == nil {
		return domain.User{}, apperr.Conflictf("user with this email or phone already exists")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperr.Internalf(err, "hash password")
	}
	u := domain.User{
		ID:           uuid.NewString(),
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	created, err := s.store.CreateUser(ctx, u)
	if err != nil {
		return domain.User{}, err
	}
	s.log.Info("user_registered", map[string]any{"user_id": created.ID, "role": role})
	return created, nil
}

// Login authenticates by email or phone and returns the user with a signed
// token.
func (s *Service) Login(ctx context.Context, email, phone, password string) (domain.User, string, error) {
	if (email == "" && phone == "") || password == "" {
		return domain.User{}, "", apperr.Validationf("email/phone and password are required")
	}
	u, err := s.store.FindUserByEmailOrPhone(ctx, email, phone)
	if err != nil {
		return domain.User{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return domain.User{}, "", apperr.Unauthorizedf("invalid password")
	}
	token, err := s.tokens.Issue(u)
	if err != nil {
		return domain.User{}, "", apperr.Internalf(err, "issue token")
	}
	s.log.Info("user_logged_in", map[string]any{"user_id": u.ID})
	return u, token, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.User, error) {
	return s.store.GetUser(ctx, id)
}

// EnsureAdmin creates the bootstrap admin account if it does not exist yet.
func (s *Service) EnsureAdmin(ctx context.Context, email, phone, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.store.FindUserByEmailOrPhone(ctx, email, phone); err == nil {
		return nil
	}
	_, err := s.register(ctx, RegisterParams{
		Name:     "Administrator",
		Email:    email,
		Phone:    phone,
		Password: password,
	}, domain.RoleAdmin)
	return err
}
