package middleware

import (
	"net/http"
	"strings"

	"github.com/franciscosanchezn/docky-api/internal/auth"
	"github.com/franciscosanchezn/docky-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const identityKey = "identity"

// Verifier turns a bearer token into a verified identity.
type Verifier interface {
	Verify(token string) (auth.Identity, error)
}

// Authenticate requires a valid Bearer identity token on every request and
// stores the verified identity in the gin context.
func Authenticate(verifier Verifier, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Missing Authorization header")
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			abortUnauthorized(c, "Authorization header must use Bearer scheme")
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			abortUnauthorized(c, "Bearer token is empty")
			return
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			log.WithError(err).WithField("request_id", RequestIDFrom(c)).Debug("Rejected identity token")
			abortUnauthorized(c, "Invalid or missing token")
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by Authenticate, or the anonymous
// identity when the request was not authenticated.
func IdentityFrom(c *gin.Context) auth.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(auth.Identity); ok {
			return identity
		}
	}
	return auth.Identity{}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, message))
}
