// Package storage はストレージ層の領域エラーとインターフェースを定義します。
//
// 各ドライバー（mongostore / memstore）は下位のエラーをここで定義した
// エラーに変換して返します。
package storage

import "errors"

var (
	// ErrNotFound は対象のレコードが存在しないことを表します。
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate は一意制約に違反したことを表します。
	ErrDuplicate = errors.New("duplicate: entity already exists")
)
