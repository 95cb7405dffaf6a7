package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/firmarollers/b2b-backend/pkg/enums"
)

// AppMetadata mirrors the identity provider's app_metadata claim block.
// The provider owns token minting; this API only parses.
type AppMetadata struct {
	Role       enums.UserRole `json:"role"`
	CustomerID *uuid.UUID     `json:"customer_id,omitempty"`
}

// AccessTokenClaims represents the typed JWT attached to portal and admin requests.
type AccessTokenClaims struct {
	Email       string      `json:"email"`
	AppMetadata AppMetadata `json:"app_metadata"`
	jwt.RegisteredClaims
}

// AuthUserID parses the subject claim as the identity provider's user id.
func (c *AccessTokenClaims) AuthUserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid subject claim %q: %w", c.Subject, err)
	}
	return id, nil
}

// Role returns the actor role carried in app_metadata.
func (c *AccessTokenClaims) Role() enums.UserRole {
	return c.AppMetadata.Role
}

// IsAdmin reports whether the token belongs to a back-office operator.
func (c *AccessTokenClaims) IsAdmin() bool {
	return c.AppMetadata.Role == enums.UserRoleAdmin
}
