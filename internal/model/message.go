package model

import "time"

// Message は投稿メッセージを表す。
// Image は保存済みファイルへの参照で、添付がない場合は空文字列。
// 作成時に一度だけ設定され、以後変更されることはない。
type Message struct {
	ID        string
	UserID    string
	Content   string
	Image     string
	CreatedAt time.Time
}

// MessageWithUser はメッセージと投稿ユーザーの表示情報を結合したモデル。
// usersテーブルとLEFT JOINして取得される。
// 投稿ユーザーが既に存在しない場合、UsernameとProfileImageは空文字列のまま返る。
type MessageWithUser struct {
	Message
	Username     string
	ProfileImage string
}
