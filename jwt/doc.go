// Package jwt issues and verifies the signed session tokens carried in the
// session cookie. Token handling is split into explicit transforms: Issue
// mints a token, Parse verifies the signature, Refresh marks expiry, and
// Reissue slides the expiry of a token that is still valid.
package jwt
