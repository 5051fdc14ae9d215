// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// ProfileImage は保存済みファイルへの参照（例: "/uploads/1700000000000-photo.png"）を保持し、
// カスタム画像が未設定の場合は空文字列となる。
type User struct {
	ID           string
	Username     string
	Email        string
	ProfileImage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
