package usecase

import (
	"fmt"
	"strings"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
)

// validateDraft проверяет обязательные поля. Координаты храним строками, но пустые или
// нечитаемые не принимаем: такая карточка никогда не попадет на карту.
func validateDraft(d domain.ListingDraft) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(d.Address) == "" {
		return fmt.Errorf("%w: address is required", domain.ErrInvalidInput)
	}
	lat, ok := domain.ParseCoordinate(d.Lat)
	if !ok || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: lat must be a number between -90 and 90", domain.ErrInvalidInput)
	}
	lng, ok := domain.ParseCoordinate(d.Lng)
	if !ok || lng < -180 || lng > 180 {
		return fmt.Errorf("%w: lng must be a number between -180 and 180", domain.ErrInvalidInput)
	}
	return nil
}

// checkOwner проверяет, что карточка принадлежит производителю
func checkOwner(listing *domain.Listing, producerID string) error {
	if listing.ProducerID != producerID {
		return domain.ErrForbidden
	}
	return nil
}
