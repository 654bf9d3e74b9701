// Package jwt mints and verifies HS512-signed access/refresh token pairs.
//
// A pair shares one subject and one jti; the access token expires well before
// the refresh token. Verification is stateless — session revocation is layered
// on top by the identity module, which tracks the current jti per subject.
package jwt
