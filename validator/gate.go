package validator

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"tcetCapture/api"
	"tcetCapture/services/user"
	"tcetCapture/set"
)

// Caller is the resolved identity and role of the request's bearer.
type Caller struct {
	UID   string    `json:"uid"`
	Email string    `json:"email"`
	Role  user.Role `json:"role"`
}

func CallerFromContext(c *gin.Context) (*Caller, bool) {
	v, ok := c.Get(string(callerKey))
	if !ok {
		return nil, false
	}
	caller, ok := v.(*Caller)
	return caller, ok
}

// Gate turns bearer tokens into callers and guards admin routes.
type Gate struct {
	verifier  Verifier
	users     user.Service
	bootstrap *set.Set[string]
}

// NewGate creates a gate. Users whose verified email is in bootstrapAdmins get
// the admin role when their record is first created.
func NewGate(verifier Verifier, users user.Service, bootstrapAdmins []string) *Gate {
	bootstrap := set.New[string]()
	for _, email := range bootstrapAdmins {
		if email = normalizeEmail(email); email != "" {
			bootstrap.Add(email)
		}
	}
	return &Gate{
		verifier:  verifier,
		users:     users,
		bootstrap: bootstrap,
	}
}

func (g *Gate) verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, api.NewAuthenticationError("No token provided", nil)
	}
	identity, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return nil, api.NewAuthenticationError("Invalid token", err)
	}
	return identity, nil
}

// Resolve verifies token and upserts the caller's user record, creating it with
// the default role on first sight. It writes to the user store.
func (g *Gate) Resolve(ctx context.Context, token string) (*Caller, error) {
	identity, err := g.verify(ctx, token)
	if err != nil {
		return nil, err
	}
	role := user.RoleClient
	if identity.EmailVerified && g.bootstrap.Contains(normalizeEmail(identity.Email)) {
		role = user.RoleAdmin
	}
	u, _, err := g.users.EnsureUser(ctx, identity.UID, identity.Email, role)
	if err != nil {
		return nil, err
	}
	return &Caller{UID: identity.UID, Email: identity.Email, Role: u.Role}, nil
}

// Authorize verifies token and reads the caller's role without creating anything.
// Callers without a user record are treated as clients.
func (g *Gate) Authorize(ctx context.Context, token string) (*Caller, error) {
	identity, err := g.verify(ctx, token)
	if err != nil {
		return nil, err
	}
	caller := &Caller{UID: identity.UID, Email: identity.Email, Role: user.RoleClient}
	u, err := g.users.Get(ctx, identity.UID)
	switch {
	case errors.Is(err, user.NotFound):
	case err != nil:
		return nil, err
	default:
		caller.Role = u.Role
	}
	return caller, nil
}

// RequireAdmin rejects requests without a valid token with 401 and requests from
// non-admins with 403.
func (g *Gate) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := GetJWSFromRequest(c.Request)
		if err != nil {
			api.WriteError(c, "No token provided", api.NewAuthenticationError("No token provided", err))
			return
		}
		caller, err := g.Authorize(c.Request.Context(), token)
		if err != nil {
			api.WriteError(c, "Failed to verify user", err)
			return
		}
		if caller.Role != user.RoleAdmin {
			log.Warn().Str("uid", caller.UID).Str("role", string(caller.Role)).Msg("User is not admin")
			api.WriteError(c, "Admin access required", api.NewAuthorizationError("Admin access required"))
			return
		}
		c.Set(string(callerKey), caller)
		c.Next()
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
