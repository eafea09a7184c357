package auth

import "crypto/subtle"

// Authorizer decides whether a credential may trigger privileged actions
// (the kill switch). Failures are never reported to the caller beyond the
// boolean, so invalid credentials leak nothing.
type Authorizer func(credential string) bool

// CredentialCheck returns an Authorizer comparing against a single shared
// secret in constant time. An empty secret authorizes nothing, which
// effectively disables the kill switch.
func CredentialCheck(secret string) Authorizer {
	return func(credential string) bool {
		if secret == "" || credential == "" {
			return false
		}
		if len(credential) != len(secret) {
			return false
		}
		return subtle.ConstantTimeCompare([]byte(credential), []byte(secret)) == 1
	}
}
