package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"sudooom.im.xuezhan/internal/game"
)

// RedisSnapshotStore 基于 Redis 的对局快照存储
type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ game.SnapshotStore = (*RedisSnapshotStore)(nil)

// NewRedisSnapshotStore 创建快照存储，ttl 不大于 0 时使用默认值
func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &RedisSnapshotStore{
		client: client,
		ttl:    ttl,
		logger: slog.Default().With("component", "SnapshotStore"),
	}
}

// Save 保存快照，每次保存刷新 TTL
func (s *RedisSnapshotStore) Save(ctx context.Context, snapshot *game.Snapshot) error {
	data, err := EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, BuildSnapshotKey(snapshot.GameID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot %s: %w", snapshot.GameID, err)
	}
	s.logger.Debug("Snapshot saved", "gameId", snapshot.GameID, "bytes", len(data))
	return nil
}

// Load 读取快照，不存在时返回 game.ErrSnapshotNotFound
func (s *RedisSnapshotStore) Load(ctx context.Context, gameID string) (*game.Snapshot, error) {
	data, err := s.client.Get(ctx, BuildSnapshotKey(gameID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, game.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("load snapshot %s: %w", gameID, err)
	}
	return DecodeSnapshot(data)
}

// Delete 删除快照
func (s *RedisSnapshotStore) Delete(ctx context.Context, gameID string) error {
	return s.client.Del(ctx, BuildSnapshotKey(gameID)).Err()
}

// EncodeSnapshot 序列化快照
func EncodeSnapshot(snapshot *game.Snapshot) ([]byte, error) {
	if snapshot == nil || snapshot.State == nil {
		return nil, errors.New("snapshot has no state")
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot %s: %w", snapshot.GameID, err)
	}
	return data, nil
}

// DecodeSnapshot 反序列化快照
func DecodeSnapshot(data []byte) (*game.Snapshot, error) {
	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snap.State == nil {
		return nil, errors.New("snapshot has no state")
	}
	return &snap, nil
}
