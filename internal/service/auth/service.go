// Package auth implements storefront login, registration and session lookup.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auraz-storefront/internal/domain"
	"auraz-storefront/internal/ids"
	userrepo "auraz-storefront/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for an unknown email.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidPassword is returned when the email exists but the password does not match.
	ErrInvalidPassword = errors.New("invalid password")
	ErrPendingApproval = errors.New("account pending approval")
	ErrAccountRejected = errors.New("account rejected")
	ErrEmailTaken      = errors.New("email already registered")
	// ErrInvalidToken indicates the provided session token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// AdminID is the fixed id of the configured administrator account.
const AdminID = "admin"

// Options configures a Service.
type Options struct {
	AdminEmail        string
	AdminPasswordHash string
	JWTSecret         []byte
	SessionTTL        time.Duration
	Now               func() time.Time
}

// Session is the result of a successful login or token lookup.
type Session struct {
	User    domain.User `json:"user"`
	IsAdmin bool        `json:"isAdmin"`
	Token   string      `json:"token,omitempty"`
}

// RegisterInput captures the fields accepted by registration.
type RegisterInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	ProfilePhoto string `json:"profilePhoto"`
	DateOfBirth  string `json:"dateOfBirth"`
	Gender       string `json:"gender"`
}

// Service handles the login and registration flows.
type Service struct {
	users      userrepo.Repository
	tokens     *tokenManager
	adminEmail string
	adminHash  []byte
	now        func() time.Time
}

// New creates a Service. The admin account is disabled unless both an email
// and a bcrypt hash are configured.
func New(users userrepo.Repository, opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	s := &Service{
		users:  users,
		tokens: newTokenManager(opts.JWTSecret, ttl, now),
		now:    now,
	}
	if opts.AdminEmail != "" && opts.AdminPasswordHash != "" {
		s.adminEmail = strings.ToLower(strings.TrimSpace(opts.AdminEmail))
		s.adminHash = []byte(opts.AdminPasswordHash)
	}
	return s
}

// HashPassword returns the bcrypt hash stored for a password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Login checks the administrator account first, then stored users. Pending and
// rejected accounts cannot log in.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if s.isAdmin(email, password) {
		return s.session(s.adminUser(), true)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}
	switch u.Status {
	case domain.UserPending:
		return nil, ErrPendingApproval
	case domain.UserRejected:
		return nil, ErrAccountRejected
	}
	return s.session(u.Public(), false)
}

// Register stores a new pending account and returns it without the password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u := domain.User{
		ID:             ids.New("user", now),
		Name:           strings.TrimSpace(in.Name),
		Email:          email,
		Phone:          in.Phone,
		Password:       hashed,
		ProfilePhoto:   in.ProfilePhoto,
		DateOfBirth:    in.DateOfBirth,
		Gender:         in.Gender,
		Status:         domain.UserPending,
		CreatedAt:      now,
		Addresses:      []domain.Address{},
		PaymentMethods: []domain.PaymentMethod{},
		UsedVouchers:   []string{},
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	public := u.Public()
	return &public, nil
}

// Lookup returns the session bound to a valid token.
func (s *Service) Lookup(ctx context.Context, token string) (*Session, error) {
	meta, ok := s.tokens.Validate(token)
	if !ok {
		return nil, ErrInvalidToken
	}
	if meta.Admin {
		if meta.UserID != AdminID || s.adminHash == nil {
			return nil, ErrInvalidToken
		}
		return &Session{User: s.adminUser(), IsAdmin: true}, nil
	}
	u, err := s.users.GetByID(ctx, meta.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if u.Status != domain.UserApproved {
		return nil, ErrInvalidToken
	}
	return &Session{User: u.Public()}, nil
}

// SessionTTLSeconds exposes the token lifetime in seconds.
func (s *Service) SessionTTLSeconds() int {
	return int(s.tokens.ttl.Seconds())
}

func (s *Service) isAdmin(email, password string) bool {
	if s.adminHash == nil || !strings.EqualFold(email, s.adminEmail) {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)) == nil
}

func (s *Service) adminUser() domain.User {
	return domain.User{
		ID:             AdminID,
		Name:           "Admin",
		Email:          s.adminEmail,
		Status:         domain.UserApproved,
		CreatedAt:      s.now().UTC(),
		Addresses:      []domain.Address{},
		PaymentMethods: []domain.PaymentMethod{},
		UsedVouchers:   []string{},
	}
}

func (s *Service) session(u domain.User, admin bool) (*Session, error) {
	token, err := s.tokens.Issue(u.ID, admin)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, IsAdmin: admin, Token: token}, nil
}
