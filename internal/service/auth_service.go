package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"lifeband-data/internal/collection"
	"lifeband-data/internal/domain"
	"lifeband-data/internal/repository"
	"lifeband-data/internal/supabase"
)

// LocalAdminIDKey storage key of the admin id generated for local mode.
const LocalAdminIDKey = "lifeband_local_admin_id"

const (
	sessionTTL    = 7 * 24 * time.Hour
	sessionIssuer = "lifeband-data"
	minPassword   = 8
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService admin registration, sign-in and session resolution.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error)
	// Authenticate resolves a bearer token to an admin id.
	Authenticate(ctx context.Context, token string) (string, error)
	// CurrentAdminID the implicit admin of local mode, created on first use.
	// Fails with ErrUnauthorized when a remote backend is in use.
	CurrentAdminID(ctx context.Context) (string, error)
}

// ============================================
// Request/Response DTOs
// ============================================

type RegisterRequest struct {
	FullName          string `json:"full_name"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	Country           string `json:"country"`
	Language          string `json:"language"`
	AcceptTerms       bool   `json:"accept_terms"`
	AcceptPrivacy     bool   `json:"accept_privacy"`
	AcceptMedicalData bool   `json:"accept_medical_data"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AdminID string `json:"admin_id"`
	Email   string `json:"email"`
	// Token bearer token; empty while the email awaits confirmation.
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ============================================
// Implementation
// ============================================

type authService struct {
	admins repository.AdminsRepository
	// remote auth API; nil when sessions are issued locally
	remote *supabase.Client
	kv     collection.Storage
	secret []byte
	now    func() time.Time
	logger *zap.Logger

	localMu sync.Mutex
}

// NewAuthService remote non-nil delegates credentials to the hosted auth
// API; otherwise admins are stored locally with bcrypt hashes and sessions
// are HS256 tokens signed with secret.
func NewAuthService(admins repository.AdminsRepository, remote *supabase.Client, kv collection.Storage, secret string, logger *zap.Logger) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{
		admins: admins,
		remote: remote,
		kv:     kv,
		secret: []byte(secret),
		now:    time.Now,
		logger: logger,
	}
}

func validateRegister(req *RegisterRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return invalid("full_name is required")
	}
	if !emailPattern.MatchString(req.Email) {
		return invalid("email is not valid")
	}
	if err := validatePassword(req.Password); err != nil {
		return err
	}
	if !req.AcceptTerms || !req.AcceptPrivacy || !req.AcceptMedicalData {
		return invalid("all consents must be accepted")
	}
	return nil
}

func validatePassword(pw string) error {
	if len(pw) < minPassword {
		return invalid("password must have at least %d characters", minPassword)
	}
	var letter, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return invalid("password must contain letters and digits")
	}
	return nil
}

// splitName first word is the first name, the rest the last name.
func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validateRegister(&req); err != nil {
		return nil, err
	}
	first, last := splitName(req.FullName)
	admin := &domain.Admin{
		FirstName: first,
		LastName:  last,
		Email:     req.Email,
		Status:    domain.AdminStatusActive,
		Country:   req.Country,
		Language:  req.Language,
	}

	if s.remote != nil {
		return s.registerRemote(ctx, req, admin)
	}

	if _, err := s.admins.GetAdminByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email %s: %w", req.Email, ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	now := s.now().UTC()
	admin.PasswordHash = string(hash)
	admin.LastPasswordChangeAt = &now

	created, err := s.admins.CreateAdmin(ctx, admin)
	if err != nil {
		return nil, err
	}
	s.logger.Info("admin registered", zap.String("admin_id", created.ID))
	return s.issue(created.ID, created.Email)
}

func (s *authService) registerRemote(ctx context.Context, req RegisterRequest, admin *domain.Admin) (*AuthResponse, error) {
	session, err := s.remote.SignUp(ctx, req.Email, req.Password, map[string]any{
		"country":    req.Country,
		"language":   req.Language,
		"first_name": admin.FirstName,
		"last_name":  admin.LastName,
		"phone":      "",
	})
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}

	resp := &AuthResponse{AdminID: session.User.ID, Email: req.Email, Token: session.AccessToken}
	if session.AccessToken == "" {
		// email confirmation pending, the admins row is written on first sign-in
		return resp, nil
	}
	if session.ExpiresIn > 0 {
		resp.ExpiresAt = s.now().Add(time.Duration(session.ExpiresIn) * time.Second)
	}
	admin.ID = session.User.ID
	if _, err := s.admins.CreateAdmin(supabase.WithAccessToken(ctx, session.AccessToken), admin); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *authService) SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, invalid("email and password are required")
	}
	if s.remote != nil {
		return s.signInRemote(ctx, email, req.Password)
	}

	admin, err := s.admins.GetAdminByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if admin.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if admin.Status != domain.AdminStatusActive {
		return nil, fmt.Errorf("admin is %s: %w", admin.Status, ErrForbidden)
	}
	s.touchLogin(ctx, admin.ID)
	return s.issue(admin.ID, admin.Email)
}

func (s *authService) signInRemote(ctx context.Context, email, password string) (*AuthResponse, error) {
	session, err := s.remote.SignIn(ctx, email, password)
	if err != nil {
		var apiErr *supabase.Error
		if errors.As(err, &apiErr) && apiErr.Status == 400 {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}
	authed := supabase.WithAccessToken(ctx, session.AccessToken)
	if _, err := s.admins.GetAdmin(authed, session.User.ID); errors.Is(err, repository.ErrNotFound) {
		// first sign-in after email confirmation
		_, err = s.admins.CreateAdmin(authed, &domain.Admin{
			Record:   domain.Record{ID: session.User.ID},
			Email:    email,
			Status:   domain.AdminStatusActive,
			Language: "es",
		})
		if err != nil {
			s.logger.Warn("failed to create admin row", zap.String("admin_id", session.User.ID), zap.Error(err))
		}
	}
	s.touchLogin(authed, session.User.ID)

	resp := &AuthResponse{AdminID: session.User.ID, Email: email, Token: session.AccessToken}
	if session.ExpiresIn > 0 {
		resp.ExpiresAt = s.now().Add(time.Duration(session.ExpiresIn) * time.Second)
	}
	return resp, nil
}

// touchLogin best effort.
func (s *authService) touchLogin(ctx context.Context, adminID string) {
	if _, err := s.admins.UpdateAdmin(ctx, adminID, repository.Patch{"last_login_at": s.now().UTC()}); err != nil {
		s.logger.Warn("failed to record login", zap.String("admin_id", adminID), zap.Error(err))
	}
}

type sessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (s *authService) issue(adminID, email string) (*AuthResponse, error) {
	now := s.now()
	exp := now.Add(sessionTTL)
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}
	return &AuthResponse{AdminID: adminID, Email: email, Token: token, ExpiresAt: exp}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}
	if s.remote != nil {
		user, err := s.remote.GetUser(ctx, token)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return user.ID, nil
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(sessionIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}
	return claims.Subject, nil
}

func (s *authService) CurrentAdminID(ctx context.Context) (string, error) {
	if s.remote != nil || s.kv == nil {
		return "", ErrUnauthorized
	}
	s.localMu.Lock()
	defer s.localMu.Unlock()

	if id, ok := s.kv.Get(ctx, LocalAdminIDKey); ok && id != "" {
		return id, nil
	}

	id := collection.GenerateID("admin")
	s.kv.Set(ctx, LocalAdminIDKey, id)
	if _, err := s.admins.CreateAdmin(ctx, &domain.Admin{
		Record:   domain.Record{ID: id},
		Status:   domain.AdminStatusActive,
		Language: "es",
	}); err != nil {
		s.logger.Warn("failed to create local admin", zap.String("admin_id", id), zap.Error(err))
	}
	s.logger.Info("local admin created", zap.String("admin_id", id))
	return id, nil
}
