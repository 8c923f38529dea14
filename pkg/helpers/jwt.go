package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ResetTokenTTL is the fixed lifetime of password-reset tokens.
const ResetTokenTTL = time.Hour

var (
	// ErrInvalidToken covers bad signatures and expired tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMalformedToken covers tokens whose payload cannot be decoded.
	ErrMalformedToken = errors.New("malformed token")
)

// JWTManager signs and verifies the three token classes, each with its own
// secret: short-lived access tokens, longer-lived refresh tokens, and
// single-use password-reset tokens.
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	ResetSecret   []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewJWTManager(accessSecret, refreshSecret, resetSecret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		ResetSecret:   []byte(resetSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}
}

// Claims is the payload carried by access and refresh tokens.
type Claims struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// ResetClaims is the payload carried by password-reset tokens.
type ResetClaims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// TokenPair bundles a freshly signed access/refresh token pair.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

func (m *JWTManager) sign(userID int64, email string, secret []byte, exp time.Time) (string, error) {
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			// jti keeps tokens unique even when two are signed within the
			// same second, so rotation always invalidates the previous one.
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// GeneratePair signs an access and a refresh token for the user. The two
// signings run concurrently; if either fails the pair is not issued.
func (m *JWTManager) GeneratePair(userID int64, email string) (TokenPair, error) {
	pair := TokenPair{
		AccessExpiresAt:  time.Now().Add(m.AccessTTL),
		RefreshExpiresAt: time.Now().Add(m.RefreshTTL),
	}

	var g errgroup.Group
	g.Go(func() error {
		t, err := m.sign(userID, email, m.AccessSecret, pair.AccessExpiresAt)
		pair.AccessToken = t
		return err
	})
	g.Go(func() error {
		t, err := m.sign(userID, email, m.RefreshSecret, pair.RefreshExpiresAt)
		pair.RefreshToken = t
		return err
	})
	if err := g.Wait(); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// GenerateResetToken signs a password-reset token with a fixed 1-hour expiry.
func (m *JWTManager) GenerateResetToken(userID int64) (string, error) {
	claims := &ResetClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ResetTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.ResetSecret)
}

func (m *JWTManager) ParseAccessToken(token string) (*Claims, error) {
	claims := &Claims{}
	if err := parseToken(token, claims, m.AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (m *JWTManager) ParseRefreshToken(token string) (*Claims, error) {
	claims := &Claims{}
	if err := parseToken(token, claims, m.RefreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (m *JWTManager) ParseResetToken(token string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := parseToken(token, claims, m.ResetSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func parseToken(token string, claims jwt.Claims, secret []byte) error {
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return ErrMalformedToken
		}
		return ErrInvalidToken
	}
	if !tkn.Valid {
		return ErrInvalidToken
	}
	return nil
}
