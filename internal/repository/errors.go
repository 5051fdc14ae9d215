package repository

import "errors"

// ErrDuplicateUser はusername・emailの一意制約違反を表す。
var ErrDuplicateUser = errors.New("duplicate user")

// ErrUserGone は更新対象のユーザーが存在しないことを表す。
var ErrUserGone = errors.New("user does not exist")
