package service

import "crypto/subtle"

// Authenticator verifies the shared administrator code. It is injected
// wherever admin capability is required so storage and transport never
// touch the secret directly.
type Authenticator interface {
	Verify(code string) bool
}

type codeAuthenticator struct {
	secret []byte
}

// NewCodeAuthenticator builds an Authenticator around the configured
// admin code. An empty secret never verifies.
func NewCodeAuthenticator(secret string) Authenticator {
	return &codeAuthenticator{secret: []byte(secret)}
}

func (a *codeAuthenticator) Verify(code string) bool {
	if len(a.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), a.secret) == 1
}
