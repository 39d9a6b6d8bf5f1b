package store

import (
	"fmt"
	"time"
)

const (
	// SnapshotKeyPrefix 对局快照 Redis Key 前缀
	SnapshotKeyPrefix = "xz:game:"

	// DefaultSnapshotTTL 快照默认 TTL
	DefaultSnapshotTTL = 24 * time.Hour
)

// BuildSnapshotKey 构建对局快照 Key
// Key: xz:game:{gameId}
func BuildSnapshotKey(gameID string) string {
	return fmt.Sprintf("%s%s", SnapshotKeyPrefix, gameID)
}
