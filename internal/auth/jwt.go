// Package auth provides device authentication for the sunalert API.
//
// There is no user account system: the companion app holds a deployment-wide
// device key and exchanges it for a signed access token. Tokens are HS256
// JWTs carrying the device ID; the key exchange is the only unauthenticated
// endpoint besides ops.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry is how long access tokens are valid. The companion app
// re-exchanges its device key when a token expires; there is no separate
// refresh token.
const TokenExpiry = 30 * 24 * time.Hour

// Predefined auth errors.
var (
	ErrInvalidDeviceKey = errors.New("invalid device key")
	ErrInvalidToken     = errors.New("invalid access token")
	ErrTokenExpired     = errors.New("access token has expired")
)

// DeviceClaims represents the claims in an access token.
type DeviceClaims struct {
	jwt.RegisteredClaims

	// DeviceID identifies the companion device the token was issued to.
	DeviceID string `json:"did"`
}

// Config holds configuration for the auth service.
type Config struct {
	// SigningKey is the secret key used to sign tokens.
	SigningKey string

	// DeviceKey is the pre-shared key the companion app authenticates with.
	DeviceKey string

	// Issuer is the issuer claim for tokens.
	Issuer string

	// Audience is the audience claim for tokens.
	Audience string
}

// Service issues and validates device access tokens.
type Service struct {
	signingKey []byte
	deviceKey  string
	issuer     string
	audience   string
}

// NewService creates a new auth service.
func NewService(cfg Config) *Service {
	return &Service{
		signingKey: []byte(cfg.SigningKey),
		deviceKey:  cfg.DeviceKey,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
	}
}

// Exchange validates the pre-shared device key and issues an access token
// for the device.
func (s *Service) Exchange(deviceID, deviceKey string) (string, time.Time, error) {
	if subtle.ConstantTimeCompare([]byte(deviceKey), []byte(s.deviceKey)) != 1 {
		return "", time.Time{}, ErrInvalidDeviceKey
	}

	now := time.Now()
	expiresAt := now.Add(TokenExpiry)

	claims := DeviceClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   deviceID,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
		},
		DeviceID: deviceID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing access token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Validate validates an access token and returns its claims.
func (s *Service) Validate(tokenString string) (*DeviceClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DeviceClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*DeviceClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
