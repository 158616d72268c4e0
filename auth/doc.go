// Package auth implements the credential and token core of socialbase:
// bcrypt password hashing, HS256 JWT issuance and validation, identity
// lookup against the user store, and ownership checks for mutable
// resources. Transport concerns live in middleware/jwtware and httpapi.
package auth
