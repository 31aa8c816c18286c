package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/adhamhusein/mio-super-app/config"
	"github.com/adhamhusein/mio-super-app/internal/dto"
	"github.com/adhamhusein/mio-super-app/internal/model"
	"github.com/adhamhusein/mio-super-app/internal/repository"
	"github.com/adhamhusein/mio-super-app/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles dispatcher authentication.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Logout(ctx context.Context, userID, jti string, expiresAt time.Time) error
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	sessions  SessionStore
	logger    *zap.Logger
}

// NewAuthService creates an AuthService instance.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	sessions SessionStore,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		sessions:  sessions,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user, err := s.repo.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("query user failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	userID := strconv.Itoa(user.ID)

	accessToken, err := s.jwtMgr.GenerateAccessToken(userID, user.Username, user.Fullname)
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(userID, user.Username, user.Fullname)
	if err != nil {
		s.logger.Error("generate refresh token failed", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User: dto.UserResponse{
			ID:       userID,
			Username: user.Username,
			Fullname: user.Fullname,
		},
	}, nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	fullname := strings.TrimSpace(req.Fullname)

	switch {
	case username == "" || req.Password == "" || req.ConfirmPassword == "" || fullname == "":
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	case req.Password != req.ConfirmPassword:
		return nil, fmt.Errorf("%w: passwords do not match", ErrValidation)
	case len(req.Password) < 4:
		return nil, fmt.Errorf("%w: password must be at least 4 characters long", ErrValidation)
	case len(username) < 3:
		return nil, fmt.Errorf("%w: username must be at least 3 characters long", ErrValidation)
	}

	if _, err := s.repo.User.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("query user failed", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username: username,
		Password: string(hash),
		Fullname: strings.ToUpper(fullname),
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("create user failed", zap.Error(err))
		return nil, err
	}

	return &dto.UserResponse{
		ID:       strconv.Itoa(user.ID),
		Username: user.Username,
		Fullname: user.Fullname,
	}, nil
}

// Logout revokes the presented access token and drops any wizard state the
// session accumulated.
func (s *authService) Logout(ctx context.Context, userID, jti string, expiresAt time.Time) error {
	if err := s.blacklist.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("blacklist token failed", zap.Error(err))
		return err
	}
	if err := s.sessions.ClearSession(ctx, userID, sessionKeyStep1, sessionKeyStep2); err != nil {
		// Session leftovers expire on their own; the logout still succeeded.
		s.logger.Warn("clear wizard session on logout failed", zap.Error(err))
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	id, err := strconv.Atoi(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("query user failed", zap.Error(err))
		return nil, err
	}

	return &dto.UserResponse{
		ID:       userID,
		Username: user.Username,
		Fullname: user.Fullname,
	}, nil
}
