// Package kvstore は文字列キーでドキュメント全体を読み書きするストアを提供します。
// ユーザー・プロジェクトの各コレクションはJSON配列1本として丸ごと保存されます。
// 部分更新やストリーミングはなく、読み書きは常にコレクション単位です。
package kvstore

import (
	"context"
	"errors"
)

// Store はコレクション単位の永続化層を抽象化します。
// Goの慣例に従い、実装（redis / gorm）ではなく利用者側がこのパッケージに依存します。
type Store interface {
	// Get はキーに対応する値を返します。
	// キーが存在しない場合、ErrKeyNotFoundを返します。
	Get(ctx context.Context, key string) ([]byte, error)

	// Set はキーに値を保存します。既存の値は丸ごと上書きされます。
	Set(ctx context.Context, key string, value []byte) error
}

// ErrKeyNotFound はキーがストアに存在しない場合に返されます。
var ErrKeyNotFound = errors.New("key not found")
