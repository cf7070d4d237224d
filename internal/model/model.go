// Package model はストレージとハンドラーで共有するデータ構造を定義します。
package model

import "go.mongodb.org/mongo-driver/v2/bson"

// requests コレクションのフィールド名
const (
	FieldRequestID = "Request_ID"
	FieldStatus    = "Status"
)

// Document はスキーマを持たないレコードです。requests のレコードは
// Request_ID と Status 以外のフィールドを解釈せず、そのまま返します。
type Document = map[string]any

// User は custom_users_collection に保存される認証用ユーザーです。
// Password には bcrypt ハッシュのみを保存します。
type User struct {
	ID       string `bson:"_id" json:"id"`
	Username string `bson:"username" json:"username"`
	Password string `bson:"password" json:"-"`
}

// Profile は usermanagements1 に保存する利用者プロフィールです。書き込みにだけ使います。
// nil の項目は保存せず、空文字は空文字のまま保存します。
type Profile struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserType    *string       `bson:"userType,omitempty" json:"userType,omitempty"`
	FirstName   *string       `bson:"firstName,omitempty" json:"firstName,omitempty"`
	Email       *string       `bson:"email,omitempty" json:"email,omitempty"`
	PhoneNumber *string       `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Address     *string       `bson:"address,omitempty" json:"address,omitempty"`
	Colony      *string       `bson:"colony,omitempty" json:"colony,omitempty"`
	Terms       *bool         `bson:"terms,omitempty" json:"terms,omitempty"`
}
