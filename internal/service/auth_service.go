package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/dto"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/repository"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("cédula, correo o contraseña incorrectos")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrUserDisabled       = errors.New("la cuenta está desactivada")
	ErrInvalidToken       = errors.New("token inválido o revocado")
	ErrWrongPassword      = errors.New("la contraseña actual es incorrecta")
	ErrSamePassword       = errors.New("la nueva contraseña debe ser distinta de la actual")
)

// AuthService authentication
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout revokes the access token identified by jti until it expires
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	Me(ctx context.Context, userID uint) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates an AuthService
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to load user", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrUserDisabled
	}

	return s.issue(user)
}

// ────────────────────── Refresh ──────────────────────

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		s.logger.Error("failed to load user", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return nil, err
	}
	if !user.Active {
		return nil, ErrUserDisabled
	}

	// refresh tokens are single use; the claim is atomic so concurrent
	// requests with the same token cannot both win
	if s.blacklist == nil {
		return s.issue(user)
	}
	claimed, err := s.blacklist.ClaimToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	if err != nil {
		s.logger.Error("failed to claim refresh token", zap.Error(err))
		return nil, err
	}
	if !claimed {
		return nil, ErrInvalidToken
	}

	return s.issue(user)
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return ErrInvalidToken
	}
	// without Redis the token simply lives until it expires
	if s.blacklist == nil {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("failed to revoke access token", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("failed to load user", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *authService) ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}
	if req.CurrentPassword == req.NewPassword {
		return ErrSamePassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return err
	}

	user.PasswordHash = string(hash)
	user.MustChangePassword = false
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("failed to update password", zap.Uint("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func (s *authService) issue(user *model.User) (*dto.TokenResponse, error) {
	access, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role, user.TeacherRef())
	if err != nil {
		s.logger.Error("failed to sign access token", zap.Error(err))
		return nil, err
	}
	refresh, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, user.TeacherRef())
	if err != nil {
		s.logger.Error("failed to sign refresh token", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user),
	}, nil
}

func toUserResponse(user *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:                 user.UserID,
		IDNumber:           user.IDNumber,
		Name:               user.Name,
		Email:              user.Email,
		Role:               user.Role,
		TeacherID:          user.TeacherRef(),
		MustChangePassword: user.MustChangePassword,
		Active:             user.Active,
	}
	if user.StudentID != nil {
		resp.StudentID = *user.StudentID
	}
	if !user.CreatedAt.IsZero() {
		resp.CreatedAt = user.CreatedAt.Format(time.RFC3339)
	}
	return resp
}
