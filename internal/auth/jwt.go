package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
)

// Claims represents the JWT payload. The voice part travels in the token so
// coordinator scoping never needs a profile lookup on every request.
type Claims struct {
	Role      string `json:"role"`
	VoicePart string `json:"voice_part"`
	Name      string `json:"name"`
	jwt.RegisteredClaims
}

// Issue signs an access token for the authenticated user.
func Issue(user model.User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:      string(user.Role),
		VoicePart: string(user.VoicePart),
		Name:      user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    "voiceofsoul",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse verifies a token and returns the identity it carries.
func Parse(tokenString, secret string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, err
	}
	if !token.Valid {
		return Identity{}, errors.New("invalid token")
	}
	return Identity{
		UserID:    claims.Subject,
		Name:      claims.Name,
		Role:      model.Role(claims.Role),
		VoicePart: model.VoicePart(claims.VoicePart),
	}, nil
}

// Identity is the authenticated caller extracted from a token.
type Identity struct {
	UserID    string
	Name      string
	Role      model.Role
	VoicePart model.VoicePart
}

// User converts the identity to a model.User for service-layer scoping
// checks. Status is active by construction: pending and rejected accounts
// never receive tokens.
func (id Identity) User() model.User {
	return model.User{
		ID:        id.UserID,
		Name:      id.Name,
		Role:      id.Role,
		VoicePart: id.VoicePart,
		Status:    model.StatusActive,
	}
}
