// Package auth issues and verifies the access tokens used by the API.
package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	// Issuer is the JWT issuer claim.
	Issuer = "smartdocs"
	// KeyID identifies the signing key version.
	KeyID = "v1"
	// AccessTokenAudience scopes tokens to the API surface.
	AccessTokenAudience = "user.access-token"
	// AccessTokenDuration is how long an issued token stays valid.
	AccessTokenDuration = 7 * 24 * time.Hour
)

// ClaimsMessage is the payload carried in access tokens. Subject holds the
// user ID as a decimal string.
type ClaimsMessage struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a token for the given user.
func GenerateAccessToken(username string, userID int32, expirationTime time.Time, secret []byte) (string, error) {
	registeredClaims := jwt.RegisteredClaims{
		Issuer:   Issuer,
		Audience: jwt.ClaimStrings{AccessTokenAudience},
		IssuedAt: jwt.NewNumericDate(time.Now()),
		Subject:  strconv.Itoa(int(userID)),
	}
	if !expirationTime.IsZero() {
		registeredClaims.ExpiresAt = jwt.NewNumericDate(expirationTime)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &ClaimsMessage{
		Name:             username,
		RegisteredClaims: registeredClaims,
	})
	token.Header["kid"] = KeyID

	accessToken, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}
	return accessToken, nil
}

// VerifyAccessToken parses and validates a token, returning the user ID.
func VerifyAccessToken(accessToken string, secret []byte) (int32, error) {
	claims := &ClaimsMessage{}
	token, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		if kid, ok := t.Header["kid"].(string); !ok || kid != KeyID {
			return nil, errors.Errorf("unexpected key id: %v", t.Header["kid"])
		}
		return secret, nil
	}, jwt.WithIssuer(Issuer), jwt.WithAudience(AccessTokenAudience))
	if err != nil {
		return 0, errors.Wrap(err, "invalid access token")
	}
	if !token.Valid {
		return 0, errors.New("invalid access token")
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, errors.Wrap(err, "malformed token subject")
	}
	return int32(userID), nil
}

// HashPassword derives the stored bcrypt hash for a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}
	return string(hash), nil
}

// CheckPassword reports whether a password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
