package service

import (
	"go.uber.org/zap"

	"github.com/spec-kit/minesafe-service/internal/authz"
	"github.com/spec-kit/minesafe-service/internal/domain"
	apperrors "github.com/spec-kit/minesafe-service/pkg/util"
)

// denied logs the distinguishing denial reason (insufficient role vs not
// resource owner) on the operator channel and returns the uniform
// forbidden error surfaced to callers.
func denied(logger *zap.Logger, caller *domain.User, action authz.Action, decision authz.Decision) error {
	if logger != nil {
		logger.Warn("authorization denied",
			zap.String("user_id", caller.UserID),
			zap.String("role", string(caller.Role)),
			zap.String("action", string(action)),
			zap.String("reason", string(decision.Reason)),
		)
	}
	return apperrors.NewForbidden("not permitted")
}
