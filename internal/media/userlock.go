package media

import "sync"

// userLocks はユーザーIDをキーとする相互排他ロックの集合。
// プロフィール画像の差し替えはユーザー単位で直列化する必要があるため、
// 同一ユーザーの同時差し替えをここで排他する。
// 参照カウントで使い終わったエントリをマップから取り除き、無制限に成長しない。
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

// userLock は1ユーザー分のロックと利用中カウント。
type userLock struct {
	mu   sync.Mutex
	refs int
}

// newUserLocks はuserLocksを生成する。
func newUserLocks() *userLocks {
	return &userLocks{
		locks: make(map[string]*userLock),
	}
}

// acquire は指定ユーザーのロックを獲得する。
// 同一ユーザーで先行する獲得があれば、その解放までブロックする。
func (l *userLocks) acquire(userID string) {
	l.mu.Lock()
	ul, exists := l.locks[userID]
	if !exists {
		ul = &userLock{}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
}

// release は指定ユーザーのロックを解放する。
// 待機中の獲得者がいなければエントリをマップから取り除く。
func (l *userLocks) release(userID string) {
	l.mu.Lock()
	ul := l.locks[userID]
	ul.refs--
	if ul.refs == 0 {
		delete(l.locks, userID)
	}
	l.mu.Unlock()

	ul.mu.Unlock()
}
