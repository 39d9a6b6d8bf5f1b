package core

import (
	"errors"
	"fmt"
)

// Suit 牌的花色
type Suit int8

const (
	SuitNone Suit = -1       // 未定缺
	SuitWan  Suit = iota - 1 // 万
	SuitTiao                 // 条
	SuitTong                 // 筒
)

// Suits 全部花色，按规范顺序
var Suits = [...]Suit{SuitWan, SuitTiao, SuitTong}

// String 返回花色的字符串表示
func (s Suit) String() string {
	switch s {
	case SuitWan:
		return "万"
	case SuitTiao:
		return "条"
	case SuitTong:
		return "筒"
	case SuitNone:
		return "无"
	default:
		return "未知"
	}
}

// Valid 是否是合法花色
func (s Suit) Valid() bool {
	return s >= SuitWan && s <= SuitTong
}

// ErrInvalidRank 点数越界
var ErrInvalidRank = errors.New("点数必须在 1 到 9 之间")

// ErrInvalidSuit 花色非法
var ErrInvalidSuit = errors.New("无效的花色")

// Tile 麻将牌 (值类型，按值比较)
type Tile struct {
	Suit Suit `json:"suit"` // 花色
	Rank int8 `json:"rank"` // 点数 1-9
}

// NewTile 创建一张牌，点数越界时返回错误
func NewTile(suit Suit, rank int) (Tile, error) {
	if !suit.Valid() {
		return Tile{}, fmt.Errorf("%w: %d", ErrInvalidSuit, suit)
	}
	if rank < 1 || rank > 9 {
		return Tile{}, fmt.Errorf("%w: %d", ErrInvalidRank, rank)
	}
	return Tile{Suit: suit, Rank: int8(rank)}, nil
}

// MustTile 创建一张牌，非法时 panic (用于常量表和测试)
func MustTile(suit Suit, rank int) Tile {
	t, err := NewTile(suit, rank)
	if err != nil {
		panic(err)
	}
	return t
}

// String 返回牌的字符串表示
func (t Tile) String() string {
	return string(rune('0'+t.Rank)) + t.Suit.String()
}

// Equal 判断两张牌是否相同
func (t Tile) Equal(other Tile) bool {
	return t.Suit == other.Suit && t.Rank == other.Rank
}

// Less 规范顺序: 先花色后点数
func (t Tile) Less(other Tile) bool {
	if t.Suit != other.Suit {
		return t.Suit < other.Suit
	}
	return t.Rank < other.Rank
}

// MeldKind 副露类型
type MeldKind int8

const (
	MeldPong          MeldKind = iota // 碰
	MeldKongExposed                   // 明杠
	MeldKongConcealed                 // 暗杠
	MeldKongUpgraded                  // 补杠
)

// String 返回副露类型的字符串表示
func (k MeldKind) String() string {
	switch k {
	case MeldPong:
		return "碰"
	case MeldKongExposed:
		return "明杠"
	case MeldKongConcealed:
		return "暗杠"
	case MeldKongUpgraded:
		return "补杠"
	default:
		return "未知"
	}
}

// Meld 副露 (创建后不再修改)
type Meld struct {
	Kind      MeldKind `json:"kind"`      // 类型
	Tiles     []Tile   `json:"tiles"`     // 3 或 4 张相同的牌
	Concealed bool     `json:"concealed"` // 仅暗杠为 true
}

// NewMeld 创建副露，牌数由类型决定
func NewMeld(kind MeldKind, tile Tile) Meld {
	n := 4
	if kind == MeldPong {
		n = 3
	}
	tiles := make([]Tile, n)
	for i := range tiles {
		tiles[i] = tile
	}
	return Meld{
		Kind:      kind,
		Tiles:     tiles,
		Concealed: kind == MeldKongConcealed,
	}
}

// IsKong 是否是杠
func (m Meld) IsKong() bool {
	return m.Kind != MeldPong
}

// Tile 副露的牌面
func (m Meld) Tile() Tile {
	return m.Tiles[0]
}

func (m Meld) clone() Meld {
	m.Tiles = CloneTiles(m.Tiles)
	return m
}

// Phase 游戏阶段
type Phase int8

const (
	PhaseSetup   Phase = iota // 准备
	PhaseBurying              // 埋牌定缺
	PhasePlaying              // 行牌
	PhaseEnded                // 结束
)

// String 返回阶段的字符串表示
func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "SETUP"
	case PhaseBurying:
		return "BURYING"
	case PhasePlaying:
		return "PLAYING"
	case PhaseEnded:
		return "ENDED"
	default:
		return "UNKNOWN"
	}
}

// ActionKind 动作类型
type ActionKind int8

const (
	ActionPass          ActionKind = iota // 过
	ActionPong                            // 碰
	ActionKongExposed                     // 明杠
	ActionKongConcealed                   // 暗杠
	ActionKongUpgrade                     // 补杠
	ActionHu                              // 胡
)

// String 返回动作类型的字符串表示
func (a ActionKind) String() string {
	switch a {
	case ActionPass:
		return "PASS"
	case ActionPong:
		return "PONG"
	case ActionKongExposed:
		return "KONG_EXPOSED"
	case ActionKongConcealed:
		return "KONG_CONCEALED"
	case ActionKongUpgrade:
		return "KONG_UPGRADE"
	case ActionHu:
		return "HU"
	default:
		return "UNKNOWN"
	}
}

// 响应优先级 (胡>杠>碰>过)
const (
	PriorityPass = 0
	PriorityPong = 1
	PriorityKong = 2
	PriorityHu   = 3
)

// Priority 动作在响应仲裁中的优先级
func (a ActionKind) Priority() int {
	switch a {
	case ActionHu:
		return PriorityHu
	case ActionKongExposed, ActionKongConcealed, ActionKongUpgrade:
		return PriorityKong
	case ActionPong:
		return PriorityPong
	default:
		return PriorityPass
	}
}

// Response 玩家对一张打出牌的响应
type Response struct {
	PlayerID   string     `json:"playerId"`
	Action     ActionKind `json:"action"`
	TargetTile Tile       `json:"targetTile"`
	Priority   int        `json:"priority"`
}

// NewResponse 创建响应，优先级由动作决定
func NewResponse(playerID string, action ActionKind, tile Tile) Response {
	return Response{
		PlayerID:   playerID,
		Action:     action,
		TargetTile: tile,
		Priority:   action.Priority(),
	}
}

// DiscardedTile 打出的牌及打牌者
type DiscardedTile struct {
	Tile      Tile   `json:"tile"`
	PlayerID  string `json:"playerId"`
	Seq       int    `json:"seq"`       // 第几张打出的牌，从 0 开始
	AfterKong bool   `json:"afterKong"` // 打牌者刚摸过杠后补牌
}

// Transfer 分数转移记录
type Transfer struct {
	FromID string `json:"fromId"` // 转出玩家ID
	ToID   string `json:"toId"`   // 转入玩家ID
	Amount int    `json:"amount"` // 分数
	Reason string `json:"reason"` // 原因
}

// WinRecord 胡牌记录
type WinRecord struct {
	PlayerID  string `json:"playerId"`
	Tile      Tile   `json:"tile"`
	FromID    string `json:"fromId"` // 点炮者，自摸为空
	SelfDrawn bool   `json:"selfDrawn"`
	Fan       int    `json:"fan"`
}
