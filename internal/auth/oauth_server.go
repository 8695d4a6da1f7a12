package auth

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-oauth2/oauth2/v4"
	"github.com/go-oauth2/oauth2/v4/manage"
	oauthmodels "github.com/go-oauth2/oauth2/v4/models"
	"github.com/go-oauth2/oauth2/v4/store"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// WebClientID is the public OAuth2 client every login is issued under.
const WebClientID = "docky-web"

// TokenIssuer issues identity tokens through an OAuth2 password-grant manager.
type TokenIssuer struct {
	manager *manage.Manager
}

func NewTokenIssuer(db *gorm.DB, users UserLookup, jwtSecret string) *TokenIssuer {
	manager := manage.NewDefaultManager()

	// Keep the framework's default access token lifetime; refresh tokens are not handed out
	manager.SetPasswordTokenCfg(&manage.Config{
		AccessTokenExp: manage.DefaultPasswordTokenCfg.AccessTokenExp,
	})

	manager.MapAccessGenerate(NewJWTAccessGenerate([]byte(jwtSecret), jwt.SigningMethodHS256, users))
	manager.MustTokenStorage(NewGormTokenStore(db), nil)

	clientStore := store.NewClientStore()
	_ = clientStore.Set(WebClientID, &oauthmodels.Client{ID: WebClientID, Public: true})
	manager.MapClientStorage(clientStore)

	return &TokenIssuer{manager: manager}
}

// Issue signs a token for userID. The role claim is taken from the user record.
func (i *TokenIssuer) Issue(ctx context.Context, userID uint) (string, error) {
	info, err := i.manager.GenerateAccessToken(ctx, oauth2.PasswordCredentials, &oauth2.TokenGenerateRequest{
		ClientID: WebClientID,
		UserID:   strconv.FormatUint(uint64(userID), 10),
	})
	if err != nil {
		return "", fmt.Errorf("failed to issue token for user %d: %w", userID, err)
	}
	return info.GetAccess(), nil
}
