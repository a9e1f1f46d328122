package port

import "context"

// Claims - то, что сервису нужно знать о пользователе из токена
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// TokenVerifierPort проверяет bearer-токен провайдера аутентификации
type TokenVerifierPort interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}
