package port

import (
	"context"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
)

// NotifierPort публикует транзакционные события. Ошибка публикации не откатывает бизнес-операцию.
type NotifierPort interface {
	Notify(ctx context.Context, event domain.NotificationEvent) error
}

// MailerPort отправляет готовое письмо
type MailerPort interface {
	Send(ctx context.Context, mail domain.Mail) error
}
