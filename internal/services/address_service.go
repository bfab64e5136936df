package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zshop-storefront-api/internal/cache"
	"zshop-storefront-api/internal/models"
)

// AddressAPI is the part of the shop API the address book needs.
type AddressAPI interface {
	Addresses(ctx context.Context) ([]models.Address, error)
	CreateAddress(ctx context.Context, req models.AddressRequest) (*models.Address, error)
	UpdateAddress(ctx context.Context, addressID string, req models.AddressRequest) (*models.Address, error)
	DeleteAddress(ctx context.Context, addressID string) error
	SetDefaultAddress(ctx context.Context, addressID string) (*models.Address, error)
	EffectiveUserID(ctx context.Context) string
}

// AddressService is a read-through cache over the shopper's address book.
type AddressService struct {
	api   AddressAPI
	lists *cache.TTLCache[[]models.Address]
}

func NewAddressService(api AddressAPI, ttl, cleanup time.Duration) *AddressService {
	return &AddressService{
		api:   api,
		lists: cache.NewTTLCache[[]models.Address]("addresses", ttl, cleanup),
	}
}

func (s *AddressService) Close() {
	s.lists.Stop()
}

// Cache exposes the address cache for stats and metrics.
func (s *AddressService) Cache() *cache.TTLCache[[]models.Address] {
	return s.lists
}

// Addresses returns the current shopper's addresses.
func (s *AddressService) Addresses(ctx context.Context) ([]models.Address, error) {
	key := s.api.EffectiveUserID(ctx)
	list, err := s.lists.GetOrLoad(key, func() ([]models.Address, error) {
		return s.api.Addresses(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return append([]models.Address(nil), list...), nil
}

func (s *AddressService) Create(ctx context.Context, req models.AddressRequest) (*models.Address, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a, err := s.api.CreateAddress(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	s.lists.Update(s.api.EffectiveUserID(ctx), func(list []models.Address) []models.Address {
		out := append([]models.Address(nil), list...)
		if a.IsDefault {
			out = clearDefault(out)
		}
		return append(out, *a)
	})
	slog.Info("Address created", "address_id", a.ID, "is_default", a.IsDefault)
	return a, nil
}

func (s *AddressService) Update(ctx context.Context, addressID string, req models.AddressRequest) (*models.Address, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a, err := s.api.UpdateAddress(ctx, addressID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update address %s: %w", addressID, err)
	}

	s.lists.Update(s.api.EffectiveUserID(ctx), func(list []models.Address) []models.Address {
		out := append([]models.Address(nil), list...)
		if a.IsDefault {
			out = clearDefault(out)
		}
		for i := range out {
			if out[i].ID == addressID {
				out[i] = *a
			}
		}
		return out
	})
	slog.Info("Address updated", "address_id", addressID)
	return a, nil
}

func (s *AddressService) Delete(ctx context.Context, addressID string) error {
	if err := s.api.DeleteAddress(ctx, addressID); err != nil {
		return fmt.Errorf("failed to delete address %s: %w", addressID, err)
	}

	s.lists.Update(s.api.EffectiveUserID(ctx), func(list []models.Address) []models.Address {
		out := make([]models.Address, 0, len(list))
		for _, a := range list {
			if a.ID != addressID {
				out = append(out, a)
			}
		}
		return out
	})
	slog.Info("Address deleted", "address_id", addressID)
	return nil
}

func (s *AddressService) SetDefault(ctx context.Context, addressID string) (*models.Address, error) {
	a, err := s.api.SetDefaultAddress(ctx, addressID)
	if err != nil {
		return nil, fmt.Errorf("failed to set default address %s: %w", addressID, err)
	}

	s.lists.Update(s.api.EffectiveUserID(ctx), func(list []models.Address) []models.Address {
		out := append([]models.Address(nil), list...)
		for i := range out {
			out[i].IsDefault = out[i].ID == addressID
		}
		return out
	})
	slog.Info("Default address set", "address_id", addressID)
	return a, nil
}

func clearDefault(list []models.Address) []models.Address {
	for i := range list {
		list[i].IsDefault = false
	}
	return list
}

// SelectDefault returns the default address, else the first, else nil.
func SelectDefault(list []models.Address) *models.Address {
	for i := range list {
		if list[i].IsDefault {
			return &list[i]
		}
	}
	if len(list) > 0 {
		return &list[0]
	}
	return nil
}
