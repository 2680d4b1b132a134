package repository

import "errors"

// レコードが見つからない
var ErrNotFound = errors.New("not found")

// 一意制約違反（同時に同じ値で書き込んだ）
var ErrDuplicate = errors.New("duplicate key")

// 楽観ロックの version が一致しない（他の更新が先にコミットされた）
var ErrVersionConflict = errors.New("version conflict")
