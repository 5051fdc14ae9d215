package upload

import "io"

// File は受信したアップロード1件を表す。
// Filename・MediaType・Sizeはクライアント申告のメタデータで、Validatorの検証対象。
// Contentは検証通過後にDiskStoreへ書き込まれるバイト列。
type File struct {
	Filename  string
	MediaType string
	Size      int64
	Content   io.Reader
}
