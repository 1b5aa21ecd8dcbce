// Package entity はauthフィーチャーのドメインモデルを定義します。
package entity

import (
	"strings"
	"time"
)

// Role はユーザーの権限区分です。
type Role string

const (
	// RoleAdmin は全ユーザー・全プロジェクトを閲覧できる管理者ロールです。
	RoleAdmin Role = "admin"
	// RoleEditor は自分のプロジェクトのみ扱える一般ロールです。
	RoleEditor Role = "editor"
)

// User represents a registered user in the system.
// Email is the unique key of the user collection: display casing is
// preserved as submitted, comparisons are always lower-cased.
type User struct {
	// Email is the user's email address used for authentication.
	Email string `json:"email"`

	// Name is the display name.
	Name string `json:"name"`

	// Role is either "admin" or "editor".
	Role Role `json:"role"`

	// Password is the bcrypt hash of the user's password.
	// This field never leaves the server unredacted.
	Password string `json:"password"`

	// CreatedAt is set once at creation and never updated.
	CreatedAt time.Time `json:"createdAt"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// EmailEquals はメールアドレスを大文字小文字を無視して比較します。
func (u *User) EmailEquals(email string) bool {
	return strings.EqualFold(u.Email, email)
}
