package authorization

import (
	"net/http"
	"strings"

	"CareDesk/config/jwt"
	"CareDesk/config/redis"
	"CareDesk/models"
	"CareDesk/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const principalKey = "principal"

// Guard authenticates bearer tokens and rejects revoked ones.
type Guard struct {
	tokens *jwt.Manager
	cache  redis.Cache
}

func NewGuard(tokens *jwt.Manager, cache redis.Cache) *Guard {
	return &Guard{tokens: tokens, cache: cache}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

/*
* Read the bearer token and verify signature and expiry
* Reject the token if its jti was revoked at logout or its user was removed
* Put the principal on the context for the handlers
 */
func (g *Guard) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, util.FailedResponse(util.Unauthorized(util.MISSING_TOKEN)))
			return
		}
		claims, err := g.tokens.ParseJWT(raw)
		if err != nil {
			log.Debug().Err(err).Msg("token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, util.FailedResponse(util.Unauthorized(util.INVALID_TOKEN)))
			return
		}
		revoked, err := g.revoked(c, claims)
		if err != nil {
			log.Error().Err(err).Msg("revocation lookup failed")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, util.FailedResponse(util.Unavailable(util.GENERIC_ERROR)))
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, util.FailedResponse(util.Unauthorized(util.INVALID_TOKEN)))
			return
		}
		c.Set(principalKey, models.Principal{
			UserID:    claims.Subject,
			Email:     claims.Email,
			Role:      claims.Role,
			TokenID:   claims.ID,
			ExpiresAt: claims.ExpiresAt.Time,
		})
		c.Next()
	}
}

func (g *Guard) revoked(c *gin.Context, claims *jwt.Claims) (bool, error) {
	ctx := c.Request.Context()
	if revoked, err := g.cache.Exists(ctx, util.RevokedTokenKey+claims.ID); err != nil || revoked {
		return revoked, err
	}
	return g.cache.Exists(ctx, util.RevokedUserKey+claims.Subject)
}

// Authorize lets the request through only for the listed roles.
// It must run after JWTAuth.
func Authorize(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, util.FailedResponse(util.Unauthorized(util.MISSING_TOKEN)))
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, util.FailedResponse(util.Forbidden(util.ACCESS_DENIED)))
	}
}

func CurrentPrincipal(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}

// SetPrincipal stores p as the authenticated caller.
func SetPrincipal(c *gin.Context, p models.Principal) {
	c.Set(principalKey, p)
}
