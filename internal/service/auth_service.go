package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"arrow-be/internal/dto"
	"arrow-be/internal/entity"
	"arrow-be/internal/pkg/logger"
	"arrow-be/internal/pkg/mailer"
	"arrow-be/internal/repository/contract"
	"arrow-be/internal/repository/unitofwork"
	"arrow-be/internal/session"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

// Identity provider errors. The "auth: " prefix is stripped before display.
var (
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrEmailInUse         = errors.New("auth: email already in use")
	ErrWeakPassword       = errors.New("auth: password should be at least 6 characters")
	ErrUserNotFound       = errors.New("auth: no user found with that email")
	ErrInvalidResetToken  = errors.New("auth: invalid or expired reset link")
)

// SessionNotifier is told about sign-outs so open page views can react.
type SessionNotifier interface {
	SignedOut(ctx context.Context, userId uuid.UUID)
}

type IAuthService interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResponse, error)
	SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.AuthResponse, error)
	SignOut(ctx context.Context, id *session.Identity) error
	SendPasswordReset(ctx context.Context, req *dto.PasswordResetRequest) error
	ResetPassword(ctx context.Context, req *dto.PasswordResetConfirmRequest) error
	// Authenticate turns a session token back into an identity.
	Authenticate(token string) (*session.Identity, error)
}

type authService struct {
	uowFactory    unitofwork.RepositoryFactory
	issuer        *session.TokenIssuer
	emailService  mailer.IEmailService
	notifier      SessionNotifier
	resetTokenTTL time.Duration
	logger        logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	issuer *session.TokenIssuer,
	emailService mailer.IEmailService,
	notifier SessionNotifier,
	resetTokenTTL time.Duration,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:    uowFactory,
		issuer:        issuer,
		emailService:  emailService,
		notifier:      notifier,
		resetTokenTTL: resetTokenTTL,
		logger:        log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) issue(user *entity.User) (*dto.AuthResponse, error) {
	id := &session.Identity{UserId: user.Id, Email: user.Email}
	token, err := s.issuer.Issue(id)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token: token,
		User:  dto.SessionUser{Id: user.Id, Email: user.Email},
	}, nil
}

func (s *authService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResponse, error) {
	if len(req.Password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	email := normalizeEmail(req.Email)

	existing, err := uow.UserRepository().FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		Role:         entity.UserRoleFounder,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if errors.Is(err, contract.ErrDuplicateKey) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	s.logger.Info("AUTH", "User signed up", map[string]interface{}{"user_id": user.Id.String()})
	return s.issue(user)
}

func (s *authService) SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// SignOut pushes "no session" to every open page view of the user. Tokens are
// stateless; the client discards its copy.
func (s *authService) SignOut(ctx context.Context, id *session.Identity) error {
	if err := session.Require(id); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.SignedOut(ctx, id.UserId)
	}
	return nil
}

func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *authService) SendPasswordReset(ctx context.Context, req *dto.PasswordResetRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}
	resetToken := &entity.PasswordResetToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     token,
		ExpiresAt: time.Now().Add(s.resetTokenTTL),
	}
	if err := uow.UserRepository().CreatePasswordResetToken(ctx, resetToken); err != nil {
		return err
	}

	go func() {
		if err := s.emailService.SendResetToken(user.Email, token); err != nil {
			s.logger.Warn("AUTH", "Reset mail not sent", map[string]interface{}{"user_id": user.Id.String(), "error": err.Error()})
		}
	}()
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.PasswordResetConfirmRequest) error {
	if len(req.Password) < MinPasswordLength {
		return ErrWeakPassword
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	tokenEntity, err := uow.UserRepository().FindPasswordResetToken(ctx, req.Token)
	if err != nil {
		return err
	}
	if tokenEntity == nil || tokenEntity.Used || time.Now().After(tokenEntity.ExpiresAt) {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().UpdatePassword(ctx, tokenEntity.UserId, string(hash)); err != nil {
		return err
	}
	if err := uow.UserRepository().MarkTokenUsed(ctx, tokenEntity.Id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *authService) Authenticate(token string) (*session.Identity, error) {
	return s.issuer.Parse(token)
}
