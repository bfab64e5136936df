package models

import (
	"fmt"
	"strings"
)

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	IsActive    bool   `json:"isActive"`
	Icon        string `json:"icon,omitempty"`
}

func (c Category) Validate() error {
	if c.ID == "" {
		return missing("category", "id")
	}
	if c.Name == "" {
		return missing("category", "name")
	}
	return nil
}

type CategoryList []Category

func (l CategoryList) Validate() error {
	for i, c := range l {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return nil
}

var categoryIcons = []struct {
	keywords []string
	icon     string
}{
	{[]string{"skin", "da", "serum", "cream"}, "sparkles"},
	{[]string{"makeup", "trang điểm", "lip", "son"}, "palette"},
	{[]string{"hair", "tóc"}, "scissors"},
	{[]string{"perfume", "nước hoa", "fragrance"}, "flower"},
	{[]string{"body", "cơ thể"}, "droplet"},
	{[]string{"phone", "điện thoại"}, "smartphone"},
	{[]string{"laptop", "computer", "máy tính"}, "laptop"},
	{[]string{"fashion", "thời trang", "shirt", "áo"}, "shirt"},
}

// IconFor picks a display icon from the category name.
func IconFor(name string) string {
	lower := strings.ToLower(name)
	for _, entry := range categoryIcons {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.icon
			}
		}
	}
	return "tag"
}

// LocationPrediction is one autocomplete suggestion.
type LocationPrediction struct {
	PlaceID              string               `json:"place_id"`
	Description          string               `json:"description"`
	StructuredFormatting StructuredFormatting `json:"structured_formatting"`
	Types                []string             `json:"types,omitempty"`
}

type StructuredFormatting struct {
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text,omitempty"`
}

// Autocomplete statuses.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
	StatusSuperseded  = "SUPERSEDED"
)

type AutocompleteResponse struct {
	Predictions []LocationPrediction `json:"predictions"`
	Status      string               `json:"status"`
	Error       string               `json:"error,omitempty"`
}

func (r AutocompleteResponse) Validate() error {
	if r.Status == "" {
		return missing("autocomplete", "status")
	}
	return nil
}

// LoginRequest exchanges a Zalo access token for shop tokens.
type LoginRequest struct {
	AppID       string `json:"appId"`
	AccessToken string `json:"accessToken"`
	ShopID      string `json:"shopId"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type User struct {
	ID          string `json:"id"`
	ZaloID      string `json:"zaloId,omitempty"`
	FullName    string `json:"fullName"`
	Avatar      string `json:"avatar,omitempty"`
	Role        string `json:"role,omitempty"`
	IsFollower  bool   `json:"isFollower"`
	IsSensitive bool   `json:"isSensitive"`
	ShopID      string `json:"shopId,omitempty"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user,omitempty"`
}

func (t TokenPair) Validate() error {
	if t.AccessToken == "" {
		return missing("tokenPair", "accessToken")
	}
	return nil
}
