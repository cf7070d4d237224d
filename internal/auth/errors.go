package auth

import "errors"

var (
	// ErrValidation は必須項目が欠けている、または受け付けられない入力です。
	ErrValidation = errors.New("invalid credentials input")

	// ErrDuplicateUsername は username が既に登録済みであることを表します。
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidCredentials はユーザー名またはパスワードが一致しないことを表します。
	// どちらが誤っているかは区別しません。
	ErrInvalidCredentials = errors.New("invalid username or password")
)
