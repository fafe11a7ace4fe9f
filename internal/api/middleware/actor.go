package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/aegisproj/aegis/backend/internal/models"
)

const actorKey = "actor"

// actorClaims carries actor identity for audit attribution. This is not an
// authentication system: unauthenticated requests proceed as an anonymous
// actor, and a bad token is simply ignored.
type actorClaims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ActorAttribution extracts actor identity from an optional bearer token so
// hooks and the activity handler can stamp audit records. With an empty
// secret, claims are read without signature verification (attribution only).
func ActorAttribution(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := models.Author{ID: "anonymous"}
		if raw := bearerToken(c.GetHeader("Authorization")); raw != "" {
			if claims := parseActorToken(raw, secret); claims != nil {
				actor = models.Author{
					ID:    claims.Subject,
					Name:  claims.Name,
					Email: claims.Email,
					Role:  claims.Role,
				}
				if actor.ID == "" {
					actor.ID = "anonymous"
				}
			}
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// GetActor returns the request's attributed actor.
func GetActor(c *gin.Context) models.Author {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(models.Author); ok {
			return actor
		}
	}
	return models.Author{ID: "anonymous"}
}

func bearerToken(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}

func parseActorToken(raw, secret string) *actorClaims {
	claims := &actorClaims{}
	if secret == "" {
		parser := jwt.NewParser()
		if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
			return nil
		}
		return claims
	}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil
	}
	return claims
}
