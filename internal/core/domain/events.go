package domain

import "time"

// NotificationType - тип транзакционного уведомления
type NotificationType string

const (
	NotificationListingApproved NotificationType = "listing-approved"
	NotificationListingRejected NotificationType = "listing-rejected"
	NotificationReviewCreated   NotificationType = "review-created"
)

// NotificationEvent - событие, из которого потребитель собирает письмо
type NotificationEvent struct {
	ID          string
	Type        NotificationType
	Version     string
	OccurredAt  time.Time
	ListingID   int64
	ListingName string
	Recipient   string
	Reason      string
	Rating      int
}

// Mail - текстовое письмо для MailerPort
type Mail struct {
	To      string
	Subject string
	Body    string
}
