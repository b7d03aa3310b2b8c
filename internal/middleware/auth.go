package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/auth"
	"github.com/yukikurage/todo-api/internal/constants"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
)

var (
	errMissingHeader = errors.New("missing Authorization header")
	errNotBearer     = errors.New("authorization scheme is not Bearer")
	errEmptyToken    = errors.New("empty bearer token")
)

// Authenticate resolves an Authorization header to a user ID.
// It reports false for a missing header, a non-Bearer scheme, or any token that fails verification.
func Authenticate(signer auth.TokenSigner, header string) (string, bool) {
	userID, err := authenticate(signer, header)
	if err != nil {
		return "", false
	}
	return userID, true
}

func authenticate(signer auth.TokenSigner, header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	if !strings.HasPrefix(header, constants.BearerPrefix) {
		return "", errNotBearer
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix))
	if token == "" {
		return "", errEmptyToken
	}
	claims, err := signer.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// RequireAuth checks the bearer token and stores the user ID in context.
// Every failure gets the same 401 body.
func RequireAuth(signer auth.TokenSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := authenticate(signer, c.GetHeader("Authorization"))
		if err != nil {
			if !errors.Is(err, errMissingHeader) {
				log.Printf("auth: rejected bearer token on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			}
			apierrors.Unauthorized(c, "")
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
