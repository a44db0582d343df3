package address

import (
	"context"

	"github.com/saitejagovikar/my-website-sub000/internal/domain"
)

// Service enforces the one-default-at-a-time rule over the raw repositories:
// saving an address or profile with IsDefault set demotes any previous
// default for the same owner first.
type Service struct {
	addresses AddressRepository
	profiles  ProfileRepository
}

func NewService(addresses AddressRepository, profiles ProfileRepository) *Service {
	return &Service{addresses: addresses, profiles: profiles}
}

// ListAddresses returns the user's addresses with the default (if any) first,
// so checkout auto-selects index zero when it is marked default.
func (s *Service) ListAddresses(ctx context.Context, userID string) ([]domain.ShippingAddress, error) {
	return s.addresses.List(ctx, userID)
}

func (s *Service) GetAddress(ctx context.Context, userID, id string) (*domain.ShippingAddress, error) {
	return s.addresses.Get(ctx, userID, id)
}

func (s *Service) CreateAddress(ctx context.Context, addr *domain.ShippingAddress) error {
	if addr.IsDefault {
		if err := s.addresses.ClearDefault(ctx, addr.UserID); err != nil {
			return err
		}
	}
	return s.addresses.Create(ctx, addr)
}

func (s *Service) UpdateAddress(ctx context.Context, addr *domain.ShippingAddress) error {
	if addr.IsDefault {
		if err := s.addresses.ClearDefault(ctx, addr.UserID); err != nil {
			return err
		}
	}
	return s.addresses.Update(ctx, addr)
}

func (s *Service) DeleteAddress(ctx context.Context, userID, id string) error {
	return s.addresses.Delete(ctx, userID, id)
}

func (s *Service) ListProfiles(ctx context.Context, userID string) ([]domain.PaymentProfile, error) {
	return s.profiles.List(ctx, userID)
}

func (s *Service) CreateProfile(ctx context.Context, profile *domain.PaymentProfile) error {
	if profile.IsDefault {
		if err := s.profiles.ClearDefault(ctx, profile.UserID); err != nil {
			return err
		}
	}
	return s.profiles.Create(ctx, profile)
}

func (s *Service) UpdateProfile(ctx context.Context, profile *domain.PaymentProfile) error {
	if profile.IsDefault {
		if err := s.profiles.ClearDefault(ctx, profile.UserID); err != nil {
			return err
		}
	}
	return s.profiles.Update(ctx, profile)
}

func (s *Service) DeleteProfile(ctx context.Context, userID, id string) error {
	return s.profiles.Delete(ctx, userID, id)
}
