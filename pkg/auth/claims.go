package auth

import (
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.UIRole
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients. The role
// claim is advisory: privilege-checked endpoints re-verify the stored
// role against the database before mutating other identities.
type AccessTokenClaims struct {
	UserID uuid.UUID    `json:"user_id"`
	Role   enums.UIRole `json:"role"`
	jwt.RegisteredClaims
}
