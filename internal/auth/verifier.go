package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/franciscosanchezn/docky-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken wraps every reason a presented token is rejected.
var ErrInvalidToken = errors.New("invalid token")

// TokenVerifier turns a bearer token into an Identity.
type TokenVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewTokenVerifier(jwtSecret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(jwtSecret), now: time.Now}
}

// Verify checks the signature and time claims and extracts the uid and role.
func (v *TokenVerifier) Verify(tokenString string) (Identity, error) {
	claims, err := v.parse(tokenString)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := extractUserID(claims)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	role, err := extractRole(claims)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return NewIdentity(userID, role), nil
}

func (v *TokenVerifier) parse(tokenString string) (jwt.MapClaims, error) {
	// Time claims are checked below against the injected clock
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Only HMAC keys are accepted; anything else is an algorithm confusion attempt
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("token parsing failed: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims format")
	}

	now := v.now()

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp != nil && exp.Before(now) {
		return nil, errors.New("token has expired")
	}

	nbf, err := claims.GetNotBefore()
	if err != nil {
		return nil, fmt.Errorf("invalid nbf claim: %w", err)
	}
	if nbf != nil && nbf.After(now) {
		return nil, errors.New("token not yet valid")
	}

	iat, err := claims.GetIssuedAt()
	if err != nil {
		return nil, fmt.Errorf("invalid iat claim: %w", err)
	}
	if iat != nil && iat.After(now.Add(time.Minute)) {
		return nil, errors.New("token issued in the future")
	}

	return claims, nil
}

// extractUserID accepts uid as a numeric string or a JSON number
func extractUserID(claims jwt.MapClaims) (uint, error) {
	switch uid := claims["uid"].(type) {
	case string:
		parsed, err := strconv.ParseUint(uid, 10, 32)
		if err != nil || parsed == 0 {
			return 0, fmt.Errorf("invalid uid claim %q", uid)
		}
		return uint(parsed), nil
	case float64:
		if uid < 1 {
			return 0, fmt.Errorf("invalid uid claim: must be positive, got %v", uid)
		}
		return uint(uid), nil
	default:
		return 0, errors.New("token missing required 'uid' claim")
	}
}

// extractRole requires an explicit, known role claim
func extractRole(claims jwt.MapClaims) (models.Role, error) {
	raw, ok := claims["role"].(string)
	if !ok || raw == "" {
		return "", errors.New("token missing required 'role' claim")
	}
	role, ok := models.ParseRole(raw)
	if !ok {
		return "", fmt.Errorf("invalid role %q", raw)
	}
	return role, nil
}
