package middleware

import (
	"errors"
	"net/http"
	"strings"

	"vending-machine/pkg"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// OperatorClaimsKey is the gin context key holding the verified token claims.
const OperatorClaimsKey = "operator"

var errNoBearer = errors.New("authorization header is not a bearer token")

// Operator tokens are only ever issued as HS256.
var tokenParser = jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

// JWTAuthMiddleware lets a request through only with a valid operator token.
func JWTAuthMiddleware(secret string, log pkg.Logger) gin.HandlerFunc {
	key := []byte(secret)
	keyFunc := func(*jwt.Token) (interface{}, error) { return key, nil }

	return func(c *gin.Context) {
		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": "Authorization header missing"})
			return
		}

		claims := jwt.MapClaims{}
		if _, err := tokenParser.ParseWithClaims(raw, claims, keyFunc); err != nil {
			log.Warn("rejected operator token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": "Invalid token"})
			return
		}
		c.Set(OperatorClaimsKey, claims)
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", errNoBearer
	}
	return strings.TrimSpace(raw), nil
}
