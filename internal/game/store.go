package game

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sudooom.im.xuezhan/internal/game/mahjong/core"
)

// Snapshot 游戏快照，用于重启或淘汰后恢复
type Snapshot struct {
	GameID    string          `json:"gameId"`
	HumanID   string          `json:"humanId"`
	State     *core.GameState `json:"state"`
	Recorded  bool            `json:"recorded"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Record 结束后的对局记录
type Record struct {
	GameID        string           `json:"gameId"`
	Players       []string         `json:"players"`
	Scores        []int            `json:"scores"`
	Wins          []core.WinRecord `json:"wins"`
	Transfers     []core.Transfer  `json:"transfers"`
	WallRemaining int              `json:"wallRemaining"`
	EndedAt       time.Time        `json:"endedAt"`
}

// 事件类型
const (
	EventGameCreated = "game.created"
	EventGameAction  = "game.action"
	EventGameEnded   = "game.ended"
)

// Event 对外发布的游戏事件，不含任何手牌信息
type Event struct {
	ID            string `json:"id"` // 事件ID，订阅方据此去重
	Type          string `json:"type"`
	GameID        string `json:"gameId"`
	PlayerID      string `json:"playerId,omitempty"`
	Action        string `json:"action,omitempty"`
	Phase         string `json:"phase"`
	CurrentPlayer int    `json:"currentPlayer"`
	WallRemaining int    `json:"wallRemaining"`
	Scores        []int  `json:"scores"`
	Timestamp     int64  `json:"timestamp"`
}

// SnapshotStore 快照存储
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *Snapshot) error
	Load(ctx context.Context, gameID string) (*Snapshot, error)
	Delete(ctx context.Context, gameID string) error
}

// RecordStore 对局记录存储
type RecordStore interface {
	SaveRecord(ctx context.Context, record *Record) error
	FindByID(ctx context.Context, gameID string) (*Record, error)
}

// EventPublisher 事件发布
type EventPublisher interface {
	PublishGameEvent(ctx context.Context, event *Event) error
}

// IDGenerator 游戏ID生成
type IDGenerator interface {
	NextID() string
}

func newRecord(s *core.GameState, endedAt time.Time) *Record {
	r := &Record{
		GameID:        s.ID,
		Players:       make([]string, len(s.Players)),
		Scores:        make([]int, len(s.Players)),
		Wins:          s.Wins,
		Transfers:     s.Transfers,
		WallRemaining: len(s.Wall),
		EndedAt:       endedAt,
	}
	for i, p := range s.Players {
		r.Players[i] = p.ID
		r.Scores[i] = p.Score
	}
	return r
}

func newEvent(eventType string, s *core.GameState, playerID, action string) *Event {
	e := &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		GameID:        s.ID,
		PlayerID:      playerID,
		Action:        action,
		Phase:         s.Phase.String(),
		CurrentPlayer: s.CurrentPlayer,
		WallRemaining: len(s.Wall),
		Scores:        make([]int, len(s.Players)),
		Timestamp:     time.Now().UnixMilli(),
	}
	for i, p := range s.Players {
		e.Scores[i] = p.Score
	}
	return e
}
