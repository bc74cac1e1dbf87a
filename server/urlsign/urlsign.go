// Package urlsign signs urls & form keys for a single session, so that
// state changing links can't be forged from another site.
package urlsign

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"net/url"
	"time"

	"github.com/Daskott/rolodex/server/auth"
	"github.com/Daskott/rolodex/server/auth/key"
	"github.com/pkg/errors"
)

// SIGNATURE_PARAM is the query param holding a url's signature
const SIGNATURE_PARAM = "_signature"

var ErrInvalidSignature = errors.New("invalid signature")

// Signer is built per request from the request's session key.
type Signer struct {
	keyPair    *key.KeyPair
	sessionKey string
	lifespan   time.Duration
	now        func() time.Time
}

// New returns a signer bound to sessionKey. A zero lifespan means signatures never expire.
func New(keyPair *key.KeyPair, sessionKey string, lifespan time.Duration) *Signer {
	return &Signer{
		keyPair:    keyPair,
		sessionKey: sessionKey,
		lifespan:   lifespan,
		now:        time.Now,
	}
}

// ForSession returns a signer with the same key & lifespan, bound to another session key
func (signer *Signer) ForSession(sessionKey string) *Signer {
	return &Signer{
		keyPair:    signer.keyPair,
		sessionKey: sessionKey,
		lifespan:   signer.lifespan,
		now:        signer.now,
	}
}

// Sign returns a token valid only for path + params within the signer's session
func (signer *Signer) Sign(path string, params url.Values) (string, error) {
	claims := auth.SignedURLClaims{
		SessionKey: signer.sessionKey,
		Digest:     digest(path, params),
	}

	if signer.lifespan > 0 {
		now := signer.now()
		claims.IssuedAt = now.Unix()
		claims.ExpiresAt = now.Add(signer.lifespan).Unix()
	}

	token, err := auth.EncodeJWT(claims, signer.keyPair)
	if err != nil {
		return "", errors.Wrap(err, "could not sign url")
	}

	return token, nil
}

// URL returns path + params with a signature appended
func (signer *Signer) URL(path string, params url.Values) (string, error) {
	token, err := signer.Sign(path, params)
	if err != nil {
		return "", err
	}

	query := url.Values{}
	for name, values := range params {
		query[name] = values
	}
	query.Set(SIGNATURE_PARAM, token)

	return path + "?" + query.Encode(), nil
}

// Verify checks token was issued by this signer's session for path + params
func (signer *Signer) Verify(path string, params url.Values, token string) error {
	if token == "" {
		return errors.Wrap(ErrInvalidSignature, "missing signature")
	}

	claims, err := auth.DecodeJWT(token, signer.keyPair)
	if err != nil {
		return errors.Wrap(ErrInvalidSignature, err.Error())
	}

	if !constantTimeEqual(claims.SessionKey, signer.sessionKey) {
		return errors.Wrap(ErrInvalidSignature, "signature belongs to another session")
	}

	if !constantTimeEqual(claims.Digest, digest(path, params)) {
		return errors.Wrap(ErrInvalidSignature, "signature does not match url")
	}

	return nil
}

// VerifyRequest verifies the signature carried in the request's query
func (signer *Signer) VerifyRequest(r *http.Request) error {
	params := r.URL.Query()
	token := params.Get(SIGNATURE_PARAM)
	params.Del(SIGNATURE_PARAM)

	return signer.Verify(r.URL.Path, params, token)
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func digest(path string, params url.Values) string {
	// Encode sorts by key, so the digest doesn't depend on param order
	sum := sha256.Sum256([]byte(path + "?" + params.Encode()))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
