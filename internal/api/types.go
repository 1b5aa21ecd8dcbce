// Package api はHTTPトランスポート層のリクエスト/レスポンス型を定義します。
package api

// SignupRequest は /signup エンドポイントのリクエストボディです。
// Ginのbindingタグでバリデーションを行います（必須・メール形式）。
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// LoginRequest は /login エンドポイントのリクエストボディです。
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest は自分のパスワード変更のリクエストボディです。
// 確認用パスワードの一致はeqfieldで検証します。
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword"`
}

// ResetPasswordRequest は管理者によるパスワードリセットのリクエストボディです。
// 現在のパスワードは要求しません。
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// AnalyzeRequest は /v1/analyze エンドポイントのリクエストボディです。
type AnalyzeRequest struct {
	Content string `json:"content" binding:"required"`
}

// ErrorResponse は全エンドポイント共通のエラーレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse は処理成功を通知するレスポンスです。
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse はクライアントへ返すユーザー情報です。
// パスワード（ハッシュ）は含めません。
type UserResponse struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

// TokenResponse はログイン成功時のレスポンスです。
type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ProjectResponse は1件の分析結果（プロジェクト）を表します。
type ProjectResponse struct {
	ID                     string `json:"id"`
	UserID                 string `json:"userId"`
	UserName               string `json:"userName,omitempty"`
	Date                   string `json:"date"`
	Title                  string `json:"title"`
	OriginalContentPreview string `json:"originalContentPreview"`
	FullResponse           string `json:"fullResponse"`
	SEOScore               int    `json:"seoScore"`
	AEOScore               int    `json:"aeoScore"`
	GEOScore               int    `json:"geoScore"`
}
