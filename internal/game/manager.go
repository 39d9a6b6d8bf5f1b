package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// GameManager 游戏管理器
// 内存中保存活跃对局，长时间不活跃的对局写入快照后淘汰
type GameManager struct {
	games sync.Map // gameId -> *Session
	count atomic.Int64

	store SnapshotStore

	// LRU 配置
	maxGames      int
	evictTimeout  time.Duration
	evictInterval time.Duration

	stopChan chan struct{} // 停止信号通道
	stopOnce sync.Once
	wg       sync.WaitGroup

	logger *slog.Logger
}

// ManagerOption 管理器选项
type ManagerOption func(*GameManager)

// WithEvictInterval 设置淘汰检查间隔
func WithEvictInterval(d time.Duration) ManagerOption {
	return func(m *GameManager) {
		if d > 0 {
			m.evictInterval = d
		}
	}
}

// WithManagerLogger 设置日志
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *GameManager) {
		m.logger = logger
	}
}

// NewGameManager 创建游戏管理器，store 为 nil 时不做持久化
func NewGameManager(store SnapshotStore, maxGames int, evictTimeout time.Duration, opts ...ManagerOption) *GameManager {
	m := &GameManager{
		store:         store,
		maxGames:      maxGames,
		evictTimeout:  evictTimeout,
		evictInterval: 60 * time.Second,
		stopChan:      make(chan struct{}),
		logger:        slog.Default().With("component", "GameManager"),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.wg.Add(1)
	go m.evictLoop()

	return m
}

// Add 注册新对局
func (m *GameManager) Add(session *Session) error {
	if m.maxGames > 0 && int(m.count.Load()) >= m.maxGames {
		return ErrTooManyGames
	}
	if _, loaded := m.games.LoadOrStore(session.ID(), session); !loaded {
		m.count.Add(1)
	}
	return nil
}

// Get 获取对局并刷新活跃时间，内存中没有时尝试从快照恢复
func (m *GameManager) Get(ctx context.Context, gameID string) (*Session, error) {
	if val, ok := m.games.Load(gameID); ok {
		session := val.(*Session)
		if session.touch() {
			return session, nil
		}
		// 刚被淘汰，快照已落盘，按恢复流程重新加载
	}
	if m.store == nil {
		return nil, ErrGameNotFound
	}

	snap, err := m.store.Load(ctx, gameID)
	if err != nil {
		if errors.Is(err, ErrSnapshotNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	restored := restoreSession(snap)
	for {
		actual, loaded := m.games.LoadOrStore(gameID, restored)
		if !loaded {
			m.count.Add(1)
			m.logger.Info("Restored game from snapshot", "gameId", gameID)
			return restored, nil
		}
		session := actual.(*Session)
		if session.touch() {
			return session, nil
		}
		// 映射中仍是已淘汰的会话，移除后再放入
		if m.games.CompareAndDelete(gameID, session) {
			m.count.Add(-1)
		}
	}
}

// Save 保存对局快照
func (m *GameManager) Save(ctx context.Context, session *Session) error {
	if m.store == nil {
		return nil
	}
	snap := session.Snapshot()
	if err := m.store.Save(ctx, snap); err != nil {
		return err
	}
	session.MarkClean(snap.State)
	return nil
}

// Remove 移除对局
func (m *GameManager) Remove(gameID string) {
	if _, loaded := m.games.LoadAndDelete(gameID); loaded {
		m.count.Add(-1)
		m.logger.Info("Removed game", "gameId", gameID)
	}
}

// retire 空闲会话仍在映射中时将其移除
func (m *GameManager) retire(session *Session, requireClean bool, now time.Time) bool {
	return session.retireIfIdle(m.evictTimeout, now, requireClean, func() {
		if m.games.CompareAndDelete(session.ID(), session) {
			m.count.Add(-1)
		}
	})
}

// Count 返回当前游戏数
func (m *GameManager) Count() int {
	return int(m.count.Load())
}

// evictLoop 淘汰循环
func (m *GameManager) evictLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.evictInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictInactive(context.Background())
		case <-m.stopChan:
			m.logger.Info("Evict loop stopped")
			return
		}
	}
}

// evictInactive 淘汰不活跃的游戏
func (m *GameManager) evictInactive(ctx context.Context) {
	now := time.Now()
	toEvict := []*Session{}

	m.games.Range(func(key, value any) bool {
		session := value.(*Session)
		if now.Sub(session.LastActiveTime()) > m.evictTimeout {
			toEvict = append(toEvict, session)
		}
		return true
	})

	for _, session := range toEvict {
		if m.store != nil && session.Finished() {
			// 已结束且已记录的对局不再需要快照，结果通过对局记录查询
			if !m.retire(session, false, now) {
				continue
			}
			if err := m.store.Delete(ctx, session.ID()); err != nil {
				m.logger.Error("Failed to delete finished game snapshot", "gameId", session.ID(), "error", err)
			}
			m.logger.Info("Evicted finished game", "gameId", session.ID())
			continue
		}

		if session.IsDirty() {
			m.logger.Info("Saving game before eviction", "gameId", session.ID())
			if err := m.Save(ctx, session); err != nil {
				// 保存失败时保留在内存中，下一轮重试
				m.logger.Error("Failed to save game before eviction", "gameId", session.ID(), "error", err)
				continue
			}
		}
		// 保存期间有新请求时保留
		if !m.retire(session, m.store != nil, now) {
			continue
		}
		m.logger.Info("Evicted inactive game", "gameId", session.ID())
	}
}

// Shutdown 关闭管理器，保存所有未持久化的对局
func (m *GameManager) Shutdown(ctx context.Context) error {
	m.logger.Info("Shutting down GameManager")

	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
	m.wg.Wait()

	var errs []error
	m.games.Range(func(key, value any) bool {
		session := value.(*Session)
		if session.IsDirty() {
			m.logger.Info("Saving game on shutdown", "gameId", session.ID())
			if err := m.Save(ctx, session); err != nil {
				m.logger.Error("Failed to save game on shutdown", "gameId", session.ID(), "error", err)
				errs = append(errs, err)
			}
		}
		return true
	})

	m.logger.Info("GameManager shutdown complete")
	return errors.Join(errs...)
}
