package middleware

import (
	"crypto/rsa"
	"strings"
	"time"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/errs"
	"github.com/Jarolccis/agreements-core-api/internal/server"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// AuthMiddleware verifies bearer tokens issued by the identity provider and
// exposes the resulting domain.User to downstream handlers. Tokens are RS256
// signed; the verification key and expected audience come from config.
type AuthMiddleware struct {
	server    *server.Server
	publicKey *rsa.PublicKey
}

// accessTokenClaims models the claims the application consumes. Client roles
// live under resource_access keyed by audience, realm roles under
// realm_access.
type accessTokenClaims struct {
	jwt.RegisteredClaims

	Name           string `json:"name"`
	Email          string `json:"email"`
	BusinessUnitID int32  `json:"bu_id"`
	Country        string `json:"country"`

	RealmAccess struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`

	ResourceAccess map[string]struct {
		Roles []string `json:"roles"`
	} `json:"resource_access"`
}

// NewAuthMiddleware constructs an AuthMiddleware, parsing the PEM verification
// key from config. An invalid key is a startup failure, not a request-time one.
func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(s.Config.Auth.PublicKey))
	if err != nil {
		s.Logger.Fatal().Err(err).Msg("invalid auth public key")
	}

	return &AuthMiddleware{
		server:    s,
		publicKey: publicKey,
	}
}

// RequireAuth enforces a valid bearer token. On success it stores the user in
// the echo context under UserKey and the email under UserIDKey.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		token := extractBearerToken(c)
		if token == "" {
			return errs.NewUnauthorizedError("Missing bearer token", false)
		}

		user, err := auth.parseToken(token)
		if err != nil {
			auth.server.Logger.Warn().
				Err(err).
				Str("request_id", GetRequestID(c)).
				Dur("duration", time.Since(start)).
				Msg("token verification failed")

			return errs.NewUnauthorizedError("Invalid or expired token", false)
		}

		c.Set(UserKey, user)
		c.Set(UserIDKey, user.Email)

		return next(c)
	}
}

// RequireRoles enforces that the authenticated user carries every listed
// role. It must run after RequireAuth.
func (auth *AuthMiddleware) RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := GetUser(c)
			if !ok {
				return errs.NewUnauthorizedError("Unauthorized", false)
			}

			for _, role := range roles {
				if !user.HasRole(role) {
					auth.server.Logger.Warn().
						Str("user_id", user.Email).
						Str("missing_role", role).
						Str("request_id", GetRequestID(c)).
						Msg("access denied, missing role")

					return errs.NewForbiddenError("You do not have permission to perform this action", true)
				}
			}

			return next(c)
		}
	}
}

func (auth *AuthMiddleware) parseToken(tokenString string) (domain.User, error) {
	claims := &accessTokenClaims{}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(auth.server.Config.Auth.Audience),
	}
	if issuer := auth.server.Config.Auth.Issuer; issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(issuer))
	}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return auth.publicKey, nil
	}, parserOpts...)
	if err != nil {
		return domain.User{}, err
	}

	roles := claims.RealmAccess.Roles
	if client, ok := claims.ResourceAccess[auth.server.Config.Auth.Audience]; ok {
		roles = append(roles, client.Roles...)
	}

	return domain.User{
		Sub:            claims.Subject,
		Name:           claims.Name,
		Email:          claims.Email,
		BusinessUnitID: claims.BusinessUnitID,
		Country:        claims.Country,
		Roles:          roles,
	}, nil
}

func extractBearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}
