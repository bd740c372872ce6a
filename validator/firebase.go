package validator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/jwk"
	"github.com/lestrrat-go/jwx/jwt"
)

// GoogleKeysURL publishes the keys Firebase Authentication signs ID tokens with.
const GoogleKeysURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

const issuerPrefix = "https://securetoken.google.com/"

var ErrMissingSubject = errors.New("token has no subject")

// Identity is what a verified ID token says about the caller.
type Identity struct {
	UID           string
	Email         string
	// EmailVerified is the provider's email_verified claim. Email/password
	// sign ups carry an unverified address until the owner confirms it.
	EmailVerified bool
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// KeySource supplies the current signing keys.
type KeySource interface {
	Fetch(ctx context.Context) (jwk.Set, error)
}

type remoteKeys struct {
	ar  *jwk.AutoRefresh
	url string
}

// NewRemoteKeys keeps the key set at url cached, refreshing it as the response
// cache headers allow but at most once a minute.
func NewRemoteKeys(ctx context.Context, url string) KeySource {
	ar := jwk.NewAutoRefresh(ctx)
	ar.Configure(url, jwk.WithMinRefreshInterval(time.Minute))
	return &remoteKeys{ar: ar, url: url}
}

func (k *remoteKeys) Fetch(ctx context.Context) (jwk.Set, error) {
	return k.ar.Fetch(ctx, k.url)
}

// FirebaseVerifier validates Firebase Authentication ID tokens for one project.
type FirebaseVerifier struct {
	keys      KeySource
	projectID string
}

var _ Verifier = (*FirebaseVerifier)(nil)

func NewFirebaseVerifier(keys KeySource, projectID string) *FirebaseVerifier {
	return &FirebaseVerifier{
		keys:      keys,
		projectID: projectID,
	}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	set, err := v.keys.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signing keys: %w", err)
	}
	tok, err := jwt.Parse([]byte(token),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
		jwt.WithIssuer(issuerPrefix+v.projectID),
		jwt.WithAudience(v.projectID),
		jwt.WithAcceptableSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}
	if tok.Subject() == "" {
		return nil, ErrMissingSubject
	}
	identity := &Identity{UID: tok.Subject()}
	if email, ok := tok.Get("email"); ok {
		identity.Email, _ = email.(string)
	}
	if verified, ok := tok.Get("email_verified"); ok {
		identity.EmailVerified, _ = verified.(bool)
	}
	return identity, nil
}
