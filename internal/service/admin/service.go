package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"cvs-storefront/internal/domain"
	adminrepo "cvs-storefront/internal/repository/admin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when username/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the presented token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Service handles back-office account registration and login.
type Service struct {
	repo        adminrepo.Repository
	secret      []byte
	tokenTTL    time.Duration
	passwordMin int
	now         func() time.Time
}

func New(repo adminrepo.Repository, secret string, tokenTTL time.Duration) *Service {
	return &Service{
		repo:        repo,
		secret:      []byte(secret),
		tokenTTL:    tokenTTL,
		passwordMin: 8,
		now:         time.Now,
	}
}

// RegisterInput captures fields expected by the admin signup endpoint.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.Admin, error) {
	username := strings.TrimSpace(strings.ToLower(in.Username))
	if username == "" {
		return nil, errors.New("username required")
	}
	password := strings.TrimSpace(in.Password)
	if len(password) < s.passwordMin {
		return nil, errors.New("password too short")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, domain.Admin{
		Username:     username,
		Email:        strings.TrimSpace(strings.ToLower(in.Email)),
		PasswordHash: string(hashed),
	})
}

// LoginResult bundles the signed token with its expiry for the client.
type LoginResult struct {
	Token     string        `json:"token"`
	ExpiresIn time.Duration `json:"-"`
	Admin     *domain.Admin `json:"admin"`
}

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	acct, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   acct.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: signed, ExpiresIn: s.tokenTTL, Admin: acct}, nil
}

// Verify parses a bearer token and resolves the admin it belongs to.
func (s *Service) Verify(ctx context.Context, token string) (*domain.Admin, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	acct, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return acct, nil
}
