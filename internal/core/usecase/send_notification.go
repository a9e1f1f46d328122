package usecase

import (
	"context"
	"fmt"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

type SendNotificationUseCase struct {
	mailer port.MailerPort
}

func NewSendNotificationUseCase(mailer port.MailerPort) *SendNotificationUseCase {
	return &SendNotificationUseCase{mailer: mailer}
}

// Execute превращает событие в текстовое письмо производителю
func (uc *SendNotificationUseCase) Execute(ctx context.Context, event domain.NotificationEvent) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "SendNotification",
		"event_id":   event.ID,
		"event_type": string(event.Type),
		"listing_id": event.ListingID,
	})
	ucLogger.Info("Use case started", nil)

	mail, err := BuildMail(event)
	if err != nil {
		ucLogger.Error("Cannot build mail for event", err, nil)
		return err
	}

	if err := uc.mailer.Send(ctx, mail); err != nil {
		ucLogger.Error("Mailer returned an error", err, nil)
		return fmt.Errorf("failed to send mail: %w", err)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}

// BuildMail - тексты писем на французском, как и весь интерфейс
func BuildMail(event domain.NotificationEvent) (domain.Mail, error) {
	mail := domain.Mail{To: event.Recipient}
	switch event.Type {
	case domain.NotificationListingApproved:
		mail.Subject = fmt.Sprintf("Votre ferme « %s » est en ligne", event.ListingName)
		mail.Body = fmt.Sprintf("Bonne nouvelle ! Votre fiche « %s » a été validée et apparaît désormais sur la carte Farm to Fork.", event.ListingName)
	case domain.NotificationListingRejected:
		mail.Subject = fmt.Sprintf("Votre fiche « %s » n'a pas été validée", event.ListingName)
		mail.Body = fmt.Sprintf("Votre fiche « %s » n'a pas été validée.", event.ListingName)
		if event.Reason != "" {
			mail.Body += fmt.Sprintf("\nMotif : %s", event.Reason)
		}
	case domain.NotificationReviewCreated:
		mail.Subject = fmt.Sprintf("Nouvel avis sur « %s »", event.ListingName)
		mail.Body = fmt.Sprintf("Un client a laissé un avis %d/5 sur votre fiche « %s ».", event.Rating, event.ListingName)
	default:
		return domain.Mail{}, fmt.Errorf("%w: unknown notification type %q", domain.ErrInvalidInput, event.Type)
	}
	if mail.To == "" {
		return domain.Mail{}, fmt.Errorf("%w: notification has no recipient", domain.ErrInvalidInput)
	}
	return mail, nil
}
