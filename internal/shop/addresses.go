package shop

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/naazbookdepot/shopauth/internal/models"
)

func (s *Service) ListAddresses(ctx context.Context, userID string) ([]models.Address, error) {
	return s.repomanager.Addresses(s.db).ListByUser(ctx, userID)
}

// CreateAddress stores a for userID. Any ID or owner set by the caller is
// replaced.
func (s *Service) CreateAddress(ctx context.Context, userID string, a models.Address) (*models.Address, error) {
	a.ID = ""
	a.UserID = userID
	return s.repomanager.Addresses(s.db).Create(ctx, &a)
}

func (s *Service) UpdateAddress(ctx context.Context, userID string, a models.Address) (*models.Address, error) {
	a.ID = strings.TrimSpace(a.ID)
	if a.ID == "" {
		return nil, ErrAddressIDRequired
	}
	if _, err := uuid.Parse(a.ID); err != nil {
		return nil, ErrAddressNotFound
	}
	a.UserID = userID

	out, err := s.repomanager.Addresses(s.db).Update(ctx, &a)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrAddressNotFound
	}
	return out, err
}

func (s *Service) DeleteAddress(ctx context.Context, userID, addressID string) error {
	addressID = strings.TrimSpace(addressID)
	if addressID == "" {
		return ErrAddressIDRequired
	}
	if _, err := uuid.Parse(addressID); err != nil {
		return ErrAddressNotFound
	}

	err := s.repomanager.Addresses(s.db).Delete(ctx, addressID, userID)
	if errors.Is(err, models.ErrNotFound) {
		return ErrAddressNotFound
	}
	return err
}
