package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/mansij47/Optiven-Backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// Principal is the decoded identity attached to every authenticated request.
// The core trusts these claims verbatim for tenant scoping and role checks;
// it never re-verifies tokens downstream.
type Principal struct {
	ID      string
	Role    string
	StoreID string
	OrgID   string
	Email   string
}

const principalKey = "principal"

// PrincipalFromContext returns the principal stashed by RequireRole.
func PrincipalFromContext(c *gin.Context) Principal {
	if p, ok := c.Get(principalKey); ok {
		if principal, ok := p.(Principal); ok {
			return principal
		}
	}
	return Principal{}
}

// RequireRole validates the JWT and checks the user's role against the
// allowed list. On success the decoded principal (id, role, store_id, org_id,
// email) is stored in the gin context for handlers to scope their queries.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Try cookie first, fallback to Authorization header
		tokenString, cookieErr := c.Cookie("access_token")
		if cookieErr != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'"))
				return
			}
			tokenString = parts[1]
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return GetJWTSecret(), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token claims"))
			return
		}

		userRole, ok := claims["role"].(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Role not found in token"))
			return
		}

		roleAllowed := false
		for _, role := range allowedRoles {
			if userRole == role {
				roleAllowed = true
				break
			}
		}

		if !roleAllowed {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		principal := Principal{
			Role:    userRole,
			ID:      stringClaim(claims, "sub"),
			StoreID: stringClaim(claims, "store_id"),
			OrgID:   stringClaim(claims, "org_id"),
			Email:   stringClaim(claims, "email"),
		}
		if principal.StoreID == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Store scope not found in token"))
			return
		}

		c.Set(principalKey, principal)
		c.Set("userID", principal.ID)
		c.Set("userRole", principal.Role)

		c.Next()
	}
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
