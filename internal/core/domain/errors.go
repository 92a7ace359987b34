package domain

import "errors"

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// AuthError reports missing or rejected credentials. Credentials is set when
// the caller supplied a username/password pair that did not verify, as
// opposed to a missing session or an ownership violation.
type AuthError struct {
	Msg         string
	Credentials bool
}

func (e *AuthError) Error() string { return e.Msg }

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// Validation builds a ValidationError with msg.
func Validation(msg string) error {
	return &ValidationError{Msg: msg}
}

var (
	ErrInvalidEmail       = &ValidationError{Msg: "Invalid email format"}
	ErrUsernameTaken      = &ValidationError{Msg: "Username is already taken"}
	ErrEmailTaken         = &ValidationError{Msg: "Email is already taken"}
	ErrUserExists         = &ValidationError{Msg: "Username or email is already taken"}
	ErrPasswordTooShort   = &ValidationError{Msg: "Password must be at least 6 characters long"}
	ErrPasswordTooLong    = &ValidationError{Msg: "Password must be at most 72 bytes long"}
	ErrPasswordPair       = &ValidationError{Msg: "Please provide both current password and new password"}
	ErrSelfFollow         = &ValidationError{Msg: "You cannot follow/unfollow yourself"}
	ErrEmptyPost          = &ValidationError{Msg: "Post cannot be empty"}
	ErrEmptyComment       = &ValidationError{Msg: "Text is required for comment"}
	ErrInvalidImage       = &ValidationError{Msg: "Image must be a base64 encoded data URL"}
	ErrUnsupportedImage   = &ValidationError{Msg: "Unsupported image type"}
	ErrInvalidCredentials = &AuthError{Msg: "Invalid username or password", Credentials: true}
	ErrWrongPassword      = &AuthError{Msg: "Current password is incorrect", Credentials: true}
	ErrNotPostOwner       = &AuthError{Msg: "Unauthorized access"}
	ErrUserNotFound       = &NotFoundError{Msg: "User not found"}
	ErrPostNotFound       = &NotFoundError{Msg: "Post not found"}
	ErrObjectNotFound     = errors.New("object not found")
)
