package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/adhamhusein/mio-super-app/config"
	"github.com/adhamhusein/mio-super-app/internal/repository"
	"github.com/adhamhusein/mio-super-app/pkg/jwt"
	"github.com/adhamhusein/mio-super-app/pkg/redis"
)

// ErrValidation marks missing or malformed input. Handlers map it to 400;
// wrapped reasons reach the client verbatim.
var ErrValidation = errors.New("validation failed")

// SessionStore is the narrow per-user wizard state capability. Implemented
// by the Redis client; replaced by an in-memory fake in tests.
type SessionStore interface {
	SetSession(ctx context.Context, userID, key string, value interface{}) error
	GetSession(ctx context.Context, userID, key string, dest interface{}) (bool, error)
	ClearSession(ctx context.Context, userID string, keys ...string) error
}

// TokenBlacklist revokes JWT IDs until their natural expiry.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// Service aggregates all business service interfaces.
type Service struct {
	Auth           AuthService
	Wizard         WizardService
	TripQuery      TripQueryService
	TripMutation   TripMutationService
	Reconciliation ReconciliationService
	Export         ExportService
}

// NewService wires the service aggregate.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	wizard := NewWizardService(rdb, logger)
	return &Service{
		Auth:           NewAuthService(cfg, repo, jwtMgr, rdb, rdb, logger),
		Wizard:         wizard,
		TripQuery:      NewTripQueryService(repo, logger),
		TripMutation:   NewTripMutationService(repo, logger),
		Reconciliation: NewReconciliationService(repo, rdb, logger),
		Export:         NewExportService(rdb, logger),
	}
}
