package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/serraej/member-evaluations/internal/core/domain"
	"github.com/serraej/member-evaluations/internal/core/ports"
)

const minPasswordLength = 6

var ErrSignUpDisabled = errors.New("sign-up is disabled")

// AuthService implements sign-up, login and session handling.
type AuthService struct {
	authn     ports.Authenticator
	users     ports.UserRepository // nil when identities come from a static table
	profiles  ports.ProfileRepository
	sessions  ports.SessionRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(
	authn ports.Authenticator,
	users ports.UserRepository,
	profiles ports.ProfileRepository,
	sessions ports.SessionRepository,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		authn:     authn,
		users:     users,
		profiles:  profiles,
		sessions:  sessions,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

func (s *AuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.Identity, error) {
	if s.users == nil {
		return nil, ErrSignUpDisabled
	}
	if err := validateSignUp(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	profile := &domain.Profile{
		ID:          user.ID,
		NotionName:  in.NotionName,
		UserRole:    in.UserRole,
		ProjectName: in.ProjectName,
		Assessoria:  in.Assessoria,
	}
	if profile.UserRole != domain.RoleManager {
		profile.ProjectName = ""
	}

	created, err := s.users.Create(ctx, user, profile)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", profile.UserRole).Msg("identity created")
	return &domain.Identity{ID: created.ID, Email: created.Email, Profile: profile}, nil
}

func validateSignUp(in ports.SignUpInput) error {
	ve := &domain.ValidationError{}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		ve.Fields = append(ve.Fields, domain.FieldError{Field: "email", Message: "must be a valid email"})
	}
	if len(in.Password) < minPasswordLength {
		ve.Fields = append(ve.Fields, domain.FieldError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minPasswordLength)})
	}
	if strings.TrimSpace(in.NotionName) == "" {
		ve.Fields = append(ve.Fields, domain.FieldError{Field: "notion_name", Message: "is required"})
	}
	if !domain.ValidRole(in.UserRole) {
		ve.Fields = append(ve.Fields, domain.FieldError{Field: "user_role", Message: "must be one of: Gestor Diretor"})
	}
	if in.UserRole == domain.RoleManager && strings.TrimSpace(in.ProjectName) == "" {
		ve.Fields = append(ve.Fields, domain.FieldError{Field: "project_name", Message: "is required for Gestor"})
	}
	if strings.TrimSpace(in.Assessoria) == "" {
		ve.Fields = append(ve.Fields, domain.FieldError{Field: "assessoria", Message: "is required"})
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.authn.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    identity.ID,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("login: open session: %w", err)
	}

	token, err := s.generateToken(identity, session)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", identity.ID).Str("session_id", session.ID).Msg("login")
	return &ports.LoginResult{Token: token, Identity: identity}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrSessionNotFound
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Str("session_id", sessionID).Msg("logout")
	return nil
}

func (s *AuthService) Verify(ctx context.Context, token string) (*ports.Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	userID, _ := claims["sub"].(string)
	sessionID, _ := claims["sid"].(string)
	role, _ := claims["role"].(string)
	name, _ := claims["name"].(string)
	if userID == "" || sessionID == "" {
		return nil, domain.ErrInvalidCredentials
	}

	session, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, domain.ErrSessionNotFound
	}

	return &ports.Claims{UserID: userID, SessionID: sessionID, Role: role, Name: name}, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.Identity, error) {
	profile, err := s.profiles.FindProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.Identity{ID: userID, Profile: profile}, nil
}

func (s *AuthService) generateToken(identity *domain.Identity, session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub":   identity.ID,
		"sid":   session.ID,
		"email": identity.Email,
		"role":  identity.Role(),
		"exp":   session.ExpiresAt.Unix(),
	}
	if identity.Profile != nil {
		claims["name"] = identity.Profile.NotionName
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// PasswordAuthenticator checks bcrypt credentials stored in a UserRepository
// and attaches the profile row, if any.
type PasswordAuthenticator struct {
	users    ports.UserRepository
	profiles ports.ProfileRepository
}

func NewPasswordAuthenticator(users ports.UserRepository, profiles ports.ProfileRepository) *PasswordAuthenticator {
	return &PasswordAuthenticator{users: users, profiles: profiles}
}

// Authenticate looks the email up as sign-up stored it: trimmed and lower-cased.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	user, err := a.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	identity := &domain.Identity{ID: user.ID, Email: user.Email}
	profile, err := a.profiles.FindProfile(ctx, user.ID)
	switch {
	case err == nil:
		identity.Profile = profile
	case errors.Is(err, domain.ErrProfileNotFound):
		// identity without profile; the dashboard treats it as "profile=null"
	default:
		return nil, err
	}
	return identity, nil
}
