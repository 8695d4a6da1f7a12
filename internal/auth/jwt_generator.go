package auth

import (
	"context"
	"fmt"
	"strconv"

	"github.com/franciscosanchezn/docky-api/internal/models"
	"github.com/go-oauth2/oauth2/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserLookup resolves the account a token is issued for.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// JWTAccessGenerate generates JWT access tokens carrying the uid and role claims
type JWTAccessGenerate struct {
	SignedKey    []byte
	SignedMethod jwt.SigningMethod
	Users        UserLookup
}

// NewJWTAccessGenerate creates a new access token generator
func NewJWTAccessGenerate(key []byte, method jwt.SigningMethod, users UserLookup) *JWTAccessGenerate {
	return &JWTAccessGenerate{
		SignedKey:    key,
		SignedMethod: method,
		Users:        users,
	}
}

// Token is called by the OAuth2 manager for every issued token
func (g *JWTAccessGenerate) Token(ctx context.Context, data *oauth2.GenerateBasic, isGenRefresh bool) (string, string, error) {
	if data.UserID == "" {
		return "", "", fmt.Errorf("cannot generate token: no user ID available")
	}

	// The role is read from the store rather than trusted from the caller
	role, err := g.userRole(ctx, data.UserID)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch user role: %w", err)
	}

	createdAt := data.TokenInfo.GetAccessCreateAt()
	claims := jwt.MapClaims{
		"jti":  uuid.NewString(),
		"aud":  data.Client.GetID(),
		"uid":  data.UserID,
		"role": string(role),
		"iat":  createdAt.Unix(),
		"exp":  createdAt.Add(data.TokenInfo.GetAccessExpiresIn()).Unix(),
	}

	access, err := jwt.NewWithClaims(g.SignedMethod, claims).SignedString(g.SignedKey)
	if err != nil {
		return "", "", err
	}

	refresh := ""
	if isGenRefresh {
		refreshClaims := jwt.MapClaims{
			"uid": data.UserID,
			"exp": data.TokenInfo.GetRefreshCreateAt().Add(data.TokenInfo.GetRefreshExpiresIn()).Unix(),
		}
		refresh, err = jwt.NewWithClaims(g.SignedMethod, refreshClaims).SignedString(g.SignedKey)
		if err != nil {
			return "", "", err
		}
	}

	return access, refresh, nil
}

func (g *JWTAccessGenerate) userRole(ctx context.Context, userIDStr string) (models.Role, error) {
	userID, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		return "", fmt.Errorf("invalid user ID format: %w", err)
	}

	user, err := g.Users.FindByID(ctx, uint(userID))
	if err != nil {
		return "", err
	}

	role, ok := models.ParseRole(string(user.Role))
	if !ok {
		return "", fmt.Errorf("user %d has unknown role %q", user.ID, user.Role)
	}
	return role, nil
}
