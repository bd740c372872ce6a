package validator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3filter"
	middleware "github.com/oapi-codegen/gin-middleware"
)

type key string

const callerKey key = "caller"

var (
	ErrNoAuthHeader      = errors.New("Authorization header is missing")
	ErrInvalidAuthHeader = errors.New("Authorization header is malformed")
	ErrNoCaller          = errors.New("request has not been authorized")
)

// GetJWSFromRequest extracts a JWS string from an Authorization: Bearer <jws> header
func GetJWSFromRequest(req *http.Request) (string, error) {
	authHdr := req.Header.Get("Authorization")
	// Check for the Authorization header.
	if authHdr == "" {
		return "", ErrNoAuthHeader
	}
	// We expect a header value of the form "Bearer <token>", with 1 space after
	// Bearer, per spec.
	prefix := "Bearer "
	if !strings.HasPrefix(authHdr, prefix) {
		return "", ErrInvalidAuthHeader
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHdr, prefix))
	if token == "" {
		return "", ErrNoAuthHeader
	}
	return token, nil
}

// Authenticate is the security scheme hook for OpenAPI request validation. The
// admin gate runs before validation, so all that is left is making sure it did.
func Authenticate(ctx context.Context, input *openapi3filter.AuthenticationInput) error {
	// Our security scheme is named bearerAuth, ensure this is the case
	if input.SecuritySchemeName != "bearerAuth" {
		return fmt.Errorf("security scheme %s != 'bearerAuth'", input.SecuritySchemeName)
	}

	if _, err := GetJWSFromRequest(input.RequestValidationInput.Request); err != nil {
		return fmt.Errorf("getting jws: %w", err)
	}

	gCtx := middleware.GetGinContext(ctx)
	if gCtx == nil {
		return ErrNoCaller
	}
	if _, ok := CallerFromContext(gCtx); !ok {
		return ErrNoCaller
	}
	return nil
}
