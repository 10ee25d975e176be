// Package account covers registration, credential checks, token issuance and
// profile maintenance.
package account

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/auth"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/repository"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/utils"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/validation"
)

type Config struct {
	JWTSecret        string
	ExpiresMin       int
	AllowAdminSignup bool
}

type Service struct {
	store    repository.Store
	cfg      Config
	validate *validation.Validator
	log      *slog.Logger
}

func NewService(store repository.Store, cfg Config, v *validation.Validator, log *slog.Logger) *Service {
	if v == nil {
		v = validation.New()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, cfg: cfg, validate: v, log: log}
}

// Session is the result of a successful sign-in.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type RegisterInput struct {
	Name     string `json:"name" validate:"notblank,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,user_role"`
}

type ProfileInput struct {
	Name  string `json:"name" validate:"notblank,max=255"`
	Email string `json:"email" validate:"required,email"`
}

var (
	errInvalidCredentials = apperrors.Unauthenticated("Invalid credentials")
	errEmailTaken         = apperrors.Conflict("Email already exists")
)

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ensureEmailFree reports Conflict when email belongs to a user other than
// self. The unique index still decides races between concurrent writers.
func (s *Service) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	u, err := s.store.Users().GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.ID != self {
			return errEmailTaken
		}
		return nil
	case apperrors.IsKind(err, apperrors.KindNotFound):
		return nil
	default:
		return err
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	role, _ := auth.ParseRole(in.Role)
	if role == models.RoleAdmin && !s.cfg.AllowAdminSignup {
		return nil, apperrors.ValidationFields(map[string][]string{
			"role": {"Must be one of client, freelancer"},
		})
	}
	if err := s.ensureEmailFree(ctx, in.Email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to hash password")
	}

	u := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     role,
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user registered", slog.String("user_id", u.ID.String()), slog.String("role", string(u.Role)))
	return s.session(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	fields := map[string][]string{}
	if email == "" {
		fields["email"] = []string{"This field is required"}
	}
	if password == "" {
		fields["password"] = []string{"This field is required"}
	}
	if len(fields) > 0 {
		return nil, apperrors.ValidationFields(fields)
	}

	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(u.Password, password) {
		return nil, errInvalidCredentials
	}
	return s.session(u)
}

// LoginWithGoogle signs in the owner of a verified Google address, creating a
// client account on first use.
func (s *Service) LoginWithGoogle(ctx context.Context, email, name string) (*Session, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" {
		return nil, apperrors.Validation("Google account has no email")
	}

	u, err := s.store.Users().GetByEmail(ctx, email)
	switch {
	case err == nil:
		return s.session(u)
	case !apperrors.IsKind(err, apperrors.KindNotFound):
		return nil, err
	}

	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	// password login stays unusable until the user sets one
	hash, err := utils.HashPassword(randomSecret(24))
	if err != nil {
		return nil, apperrors.Internal(err, "failed to hash password")
	}
	u = &models.User{Name: name, Email: email, Password: hash, Role: models.RoleClient}
	if err := s.store.Users().Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user registered via google", slog.String("user_id", u.ID.String()))
	return s.session(u)
}

func (s *Service) GetProfile(ctx context.Context, actor models.Actor) (*models.User, error) {
	return s.store.Users().GetByID(ctx, actor.ID)
}

func (s *Service) UpdateProfile(ctx context.Context, actor models.Actor, in ProfileInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, in.Email, actor.ID); err != nil {
		return nil, err
	}
	if err := s.store.Users().UpdateProfile(ctx, actor.ID, in.Name, in.Email); err != nil {
		return nil, err
	}
	return s.store.Users().GetByID(ctx, actor.ID)
}

// ResolveActor maps a token subject to the current user. Tokens of deleted
// users stop working immediately.
func (s *Service) ResolveActor(ctx context.Context, userID string) (models.Actor, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return models.Actor{}, apperrors.Unauthenticated("Invalid token")
	}
	u, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return models.Actor{}, apperrors.Unauthenticated("Account no longer exists")
		}
		return models.Actor{}, err
	}
	return u.Actor(), nil
}

func (s *Service) session(u *models.User) (*Session, error) {
	token, err := utils.SignJWT(s.cfg.JWTSecret, u.ID.String(), string(u.Role), u.Email, s.cfg.ExpiresMin)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to sign token")
	}
	return &Session{Token: token, User: u}, nil
}

func randomSecret(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
