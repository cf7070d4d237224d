// Package validate は永続化前の入力を明示的に検証します。
//
// 各関数は検証済みの値と Result を返し、Result.Valid が false の場合は
// Field と Reason に最初に見つかった問題を設定します。
package validate

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/yourusername/rrmms-api/internal/model"
)

// Result は検証結果です。
type Result struct {
	Valid  bool
	Field  string
	Reason string
}

// OK は成功を表す Result です。
var OK = Result{Valid: true}

func invalid(field, reason string) Result {
	return Result{Field: field, Reason: reason}
}

// Error は Result をエラー文字列として表現します（ログ用）。
func (r Result) Error() string {
	if r.Valid {
		return ""
	}
	if r.Field == "" {
		return r.Reason
	}
	return fmt.Sprintf("%s: %s", r.Field, r.Reason)
}

// profileStringFields は文字列として扱うプロフィールの項目です。
var profileStringFields = []string{"userType", "firstName", "email", "phoneNumber", "address", "colony"}

// Profile は生の入力からプロフィールを組み立てます。
// すべての項目は任意で、未知の項目は無視します。欠落と null は nil、空文字は空文字のままです。
// 数値や真偽値は文字列に、
// "true" / "false" / 1 / 0 は terms の真偽値に変換します。
// オブジェクトや配列など変換できない値は不正とします。
func Profile(input map[string]any) (*model.Profile, Result) {
	if input == nil {
		return nil, invalid("", "body is required")
	}

	values := make(map[string]*string, len(profileStringFields))
	for _, field := range profileStringFields {
		raw, ok := input[field]
		if !ok || raw == nil {
			continue
		}
		s, err := toScalarString(raw)
		if err != nil {
			return nil, invalid(field, "must be a string")
		}
		values[field] = &s
	}

	profile := &model.Profile{
		UserType:    values["userType"],
		FirstName:   values["firstName"],
		Email:       values["email"],
		PhoneNumber: values["phoneNumber"],
		Address:     values["address"],
		Colony:      values["colony"],
	}

	if raw, ok := input["terms"]; ok && raw != nil {
		terms, err := toBool(raw)
		if err != nil {
			return nil, invalid("terms", "must be a boolean")
		}
		profile.Terms = &terms
	}

	return profile, OK
}

// Status は requests の状態更新値を検証します。
// 欠落・null・空文字・false・0 は未指定として扱います。
func Status(input map[string]any) (any, Result) {
	raw, ok := input["status"]
	if !ok || isFalsy(raw) {
		return nil, invalid("status", "required")
	}
	switch raw.(type) {
	case map[string]any, []any:
		return nil, invalid("status", "must be a scalar")
	}
	return raw, OK
}

// Credentials はユーザー名が空でないことを確認します。
// パスワードには長さや文字種の制約を設けず、空文字も受け付けます。
func Credentials(username, password string) Result {
	if username == "" {
		return invalid("username", "required")
	}
	return OK
}

func toScalarString(v any) (string, error) {
	switch v.(type) {
	case map[string]any, []any:
		return "", fmt.Errorf("unsupported type %T", v)
	}
	return cast.ToStringE(v)
}

func toBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		switch t {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
		return false, fmt.Errorf("cannot parse %q as boolean", t)
	case float64:
		if t == 1 || t == 0 {
			return t == 1, nil
		}
		return false, fmt.Errorf("cannot parse %v as boolean", t)
	}
	return cast.ToBoolE(v)
}

func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case float64:
		return t == 0
	case int:
		return t == 0
	}
	return false
}
