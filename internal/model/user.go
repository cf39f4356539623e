package model

// MaxUsernameLength is the widest username the users table accepts.
const MaxUsernameLength = 25

// User is an account holder. Password holds the HMAC digest, never the
// password itself.
type User struct {
	Username string
	Password string
}
