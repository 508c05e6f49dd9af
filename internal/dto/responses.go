package dto

import (
	"github.com/ignatzorin/handyman-backend/internal/models"
	"github.com/ignatzorin/handyman-backend/internal/service"
)

// ErrorResponse represents a standardized error payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standardized success payload
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AuthResponse represents the result of a register or login call
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
}

// NewAuthResponse creates an AuthResponse from a service result
func NewAuthResponse(result *service.AuthResult) *AuthResponse {
	return &AuthResponse{
		User:         result.User,
		AccessToken:  result.TokenPair.AccessToken,
		RefreshToken: result.TokenPair.RefreshToken,
		ExpiresIn:    int64(result.TokenPair.ExpiresIn.Seconds()),
	}
}

// TokenResponse represents a refreshed token pair
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// NewTokenResponse creates a TokenResponse from a token pair
func NewTokenResponse(pair *service.TokenPair) *TokenResponse {
	return &TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(pair.ExpiresIn.Seconds()),
	}
}

// ReviewResponse represents a created review with the recalculated rating
type ReviewResponse struct {
	Review          *models.Review `json:"review"`
	HandymanRating  float64        `json:"handyman_rating"`
	HandymanReviews int            `json:"handyman_reviews"`
}

// NewReviewResponse creates a ReviewResponse from a service result
func NewReviewResponse(result *service.CreateReviewResult) *ReviewResponse {
	return &ReviewResponse{
		Review:          result.Review,
		HandymanRating:  result.Rating,
		HandymanReviews: result.TotalReviews,
	}
}

// ListResponse represents a generic paginated list
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewListResponse creates a ListResponse from items and paging params
func NewListResponse[T any](items []T, limit, offset int) *ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return &ListResponse[T]{Items: items, Limit: limit, Offset: offset}
}
