package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/cctfd/internal/dto"
	"github.com/lshigami/cctfd/internal/session"
	"github.com/rs/zerolog/log"
)

const (
	CookieName = "session"
	sessionKey = "session"
	issuer     = "ctf-platform"
)

// Claims is the session token the host platform issues after login.
type Claims struct {
	TeamID   uint   `json:"team_id"`
	Admin    bool   `json:"admin"`
	Verified bool   `json:"verified"`
	Nonce    string `json:"nonce"`
	jwt.RegisteredClaims
}

// NewToken signs a session token for sc.
func NewToken(secret string, sc session.Context, ttl time.Duration) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		TeamID:   sc.TeamID,
		Admin:    sc.Admin,
		Verified: sc.Verified,
		Nonce:    sc.Nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	})
	return tok.SignedString([]byte(secret))
}

// Session resolves the requester from the session cookie or a bearer token.
// Requests without a valid token continue anonymously.
func Session(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := session.Context{IP: c.ClientIP()}

		if tokenStr := tokenFromRequest(c); tokenStr != "" {
			cl, err := parseToken(secret, tokenStr)
			if err != nil {
				log.Debug().Err(err).Str("client_ip", sc.IP).Msg("Ignoring invalid session token")
			} else {
				sc.TeamID = cl.TeamID
				sc.Admin = cl.Admin
				sc.Verified = cl.Verified
				sc.Nonce = cl.Nonce
			}
		}

		c.Set(sessionKey, sc)
		c.Request = c.Request.WithContext(session.WithContext(c.Request.Context(), sc))
		c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SessionFrom(c).Authed() {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "not authorized"})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects requests from non-administrators.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SessionFrom(c).Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "admin only"})
			return
		}
		c.Next()
	}
}

// RequireNonce rejects POST requests whose nonce form field does not match
// the session nonce.
func RequireNonce() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		sc := SessionFrom(c)
		provided := c.PostForm("nonce")
		if sc.Nonce == "" || subtle.ConstantTimeCompare([]byte(sc.Nonce), []byte(provided)) != 1 {
			log.Warn().Uint("teamID", sc.TeamID).Str("path", c.FullPath()).Msg("Rejected request with bad nonce")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "invalid nonce"})
			return
		}
		c.Next()
	}
}

// SessionFrom returns the session context set by Session.
func SessionFrom(c *gin.Context) session.Context {
	if v, ok := c.Get(sessionKey); ok {
		if sc, ok := v.(session.Context); ok {
			return sc
		}
	}
	return session.FromContext(c.Request.Context())
}

func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	tokenStr, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return tokenStr
}

func parseToken(secret, tokenStr string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	cl, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return cl, nil
}
