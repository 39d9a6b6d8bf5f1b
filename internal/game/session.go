package game

import (
	"sync"
	"time"

	"sudooom.im.xuezhan/internal/game/mahjong/core"
)

// Session 一局游戏
// 同一局的修改通过互斥锁串行化，读取返回不可变的状态快照
type Session struct {
	mu sync.RWMutex

	id         string
	humanID    string
	state      *core.GameState
	lastActive time.Time
	dirty      bool
	recorded   bool // 结束记录已写入
	retired    bool // 已被管理器淘汰，不再接受请求
}

// NewSession 创建会话
func NewSession(state *core.GameState, humanID string) *Session {
	return &Session{
		id:         state.ID,
		humanID:    humanID,
		state:      state,
		lastActive: time.Now(),
		dirty:      true,
	}
}

// restoreSession 从快照恢复
func restoreSession(snap *Snapshot) *Session {
	return &Session{
		id:         snap.GameID,
		humanID:    snap.HumanID,
		state:      snap.State,
		lastActive: time.Now(),
		recorded:   snap.Recorded,
	}
}

// ID 游戏ID
func (g *Session) ID() string {
	return g.id
}

// HumanID 人类玩家ID
func (g *Session) HumanID() string {
	return g.humanID
}

// State 获取当前状态（只读）
func (g *Session) State() *core.GameState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Apply 在锁内执行一次状态转换，成功时替换状态
func (g *Session) Apply(fn func(*core.GameState) (*core.GameState, error)) (*core.GameState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	next, err := fn(g.state)
	if err != nil {
		return g.state, err
	}
	if next != g.state {
		g.state = next
		g.dirty = true
	}
	g.lastActive = time.Now()
	return next, nil
}

// Snapshot 生成快照
func (g *Session) Snapshot() *Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return &Snapshot{
		GameID:    g.id,
		HumanID:   g.humanID,
		State:     g.state,
		Recorded:  g.recorded,
		UpdatedAt: time.Now(),
	}
}

// IsDirty 是否有未保存的修改
func (g *Session) IsDirty() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.dirty
}

// MarkClean 标记为已保存；保存期间状态又发生变化时保持脏标记
func (g *Session) MarkClean(saved *core.GameState) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == saved {
		g.dirty = false
	}
}

// MarkRecorded 标记结束记录已写入，返回之前是否已写入
func (g *Session) MarkRecorded() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	was := g.recorded
	g.recorded = true
	return was
}

// Finished 对局已结束且结束记录已写入
func (g *Session) Finished() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.recorded && g.state.Phase == core.PhaseEnded
}

// touch 刷新活跃时间，会话已淘汰时返回 false
func (g *Session) touch() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.retired {
		return false
	}
	g.lastActive = time.Now()
	return true
}

// retireIfIdle 在锁内确认会话仍然空闲后将其淘汰并执行 remove
// requireClean 为 true 时，有未保存修改的会话不淘汰
func (g *Session) retireIfIdle(timeout time.Duration, now time.Time, requireClean bool, remove func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.retired || now.Sub(g.lastActive) <= timeout {
		return false
	}
	if requireClean && g.dirty {
		return false
	}
	g.retired = true
	remove()
	return true
}

// LastActiveTime 获取最后活跃时间
func (g *Session) LastActiveTime() time.Time {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lastActive
}
