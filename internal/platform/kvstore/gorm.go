package kvstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentModel is the GORM model for the kv_documents table.
// Each row holds one whole collection as a JSON blob.
type DocumentModel struct {
	Key   string `gorm:"primaryKey;size:255"`
	Value []byte `gorm:"type:blob"`
}

// TableName returns the table name for GORM.
func (DocumentModel) TableName() string {
	return "kv_documents"
}

// GormStore はStoreインターフェースのリレーショナルDB実装です。
// Redisが利用できない環境でのフォールバックとして使用されます。
type GormStore struct {
	db *gorm.DB
}

// GormStoreがStoreを実装していることをコンパイル時に検証します。
var _ Store = (*GormStore)(nil)

// NewGormStore は指定されたgorm.DB接続でGormStoreの新しいインスタンスを生成します。
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get はキーに対応する値を取得します。
// 行が存在しない場合、ErrKeyNotFoundを返します。
func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc DocumentModel
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("kv get %q: %w", key, err)
	}
	return doc.Value, nil
}

// Set はキーに値を保存します。既存行はUPSERTで丸ごと置き換えます。
func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	doc := DocumentModel{Key: key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&doc).Error
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}
