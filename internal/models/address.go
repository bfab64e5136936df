package models

import "fmt"

// Address is a saved delivery address.
type Address struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city,omitempty"`
	IsDefault bool   `json:"isDefault"`
	ShopID    string `json:"shopId,omitempty"`
	UserID    string `json:"userId,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

func (a Address) Validate() error {
	if a.ID == "" {
		return missing("address", "id")
	}
	return nil
}

// FullAddress joins street and city the way the order service expects it.
func (a Address) FullAddress() string {
	if a.City == "" {
		return a.Address
	}
	return a.Address + ", " + a.City
}

type AddressList []Address

func (l AddressList) Validate() error {
	for i, a := range l {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return nil
}

// AddressRequest creates or updates an address.
type AddressRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city,omitempty"`
	IsDefault bool   `json:"isDefault"`
	ShopID    string `json:"shopId,omitempty"`
}

// Validate checks the request before it is forwarded.
func (r AddressRequest) Validate() error {
	switch {
	case r.Name == "":
		return missing("address", "name")
	case r.Phone == "":
		return missing("address", "phone")
	case r.Address == "":
		return missing("address", "address")
	}
	return nil
}
