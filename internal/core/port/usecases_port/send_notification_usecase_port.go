package usecases_port

import (
	"context"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
)

type SendNotificationUseCasePort interface {
	Execute(ctx context.Context, event domain.NotificationEvent) error
}
