package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with
	// an email that already exists (case-insensitively).
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned on any login failure.
	// 「存在しないユーザー」と「パスワード不一致」を区別しないことで
	// ユーザー列挙攻撃を防ぎます。
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrWrongPassword is returned when the current password check fails
	// during a self-service password change.
	ErrWrongPassword = errors.New("current password is incorrect")
)
