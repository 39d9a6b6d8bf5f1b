package core

// Player 玩家
type Player struct {
	ID           string `json:"id"`           // 玩家ID
	Hand         []Tile `json:"hand"`         // 手牌
	Melds        []Meld `json:"melds"`        // 副露，只追加
	Buried       []Tile `json:"buried"`       // 埋的三张牌
	MissingSuit  Suit   `json:"missingSuit"`  // 定缺花色
	Score        int    `json:"score"`        // 分数，只由结算修改
	HasWon       bool   `json:"hasWon"`       // 是否已胡
	LastDrawn    *Tile  `json:"lastDrawn"`    // 刚摸的牌，出牌后清空
	WonTiles     []Tile `json:"wonTiles"`     // 胡的牌
	DrewFromKong bool   `json:"drewFromKong"` // 上一次摸牌是杠后补牌
	Discarded    int    `json:"discarded"`    // 已出牌张数
}

// NewPlayer 创建玩家
func NewPlayer(id string, score int) *Player {
	return &Player{
		ID:          id,
		Hand:        []Tile{},
		Melds:       []Meld{},
		MissingSuit: SuitNone,
		Score:       score,
	}
}

// HasMissingSuit 是否已定缺
func (p *Player) HasMissingSuit() bool {
	return p.MissingSuit != SuitNone
}

// HoldsSuit 手牌中是否还有某花色
func (p *Player) HoldsSuit(suit Suit) bool {
	for _, t := range p.Hand {
		if t.Suit == suit {
			return true
		}
	}
	return false
}

// AllTiles 手牌加上所有副露的牌
func (p *Player) AllTiles() []Tile {
	all := CloneTiles(p.Hand)
	for _, m := range p.Melds {
		all = append(all, m.Tiles...)
	}
	return all
}

// IsFullyConcealed 没有任何明副露 (暗杠不破门清)
func (p *Player) IsFullyConcealed() bool {
	for _, m := range p.Melds {
		if !m.Concealed {
			return false
		}
	}
	return true
}

// PongIndex 返回该牌的碰副露下标，没有时返回 -1
func (p *Player) PongIndex(tile Tile) int {
	for i, m := range p.Melds {
		if m.Kind == MeldPong && m.Tile().Equal(tile) {
			return i
		}
	}
	return -1
}

// Clone 深拷贝
func (p *Player) Clone() *Player {
	c := *p
	c.Hand = CloneTiles(p.Hand)
	c.Buried = CloneTiles(p.Buried)
	c.WonTiles = CloneTiles(p.WonTiles)
	if p.Melds != nil {
		c.Melds = make([]Meld, len(p.Melds))
		for i, m := range p.Melds {
			c.Melds[i] = m.clone()
		}
	}
	if p.LastDrawn != nil {
		t := *p.LastDrawn
		c.LastDrawn = &t
	}
	return &c
}

// Rules 对局规则
type Rules struct {
	StartingScore int  `json:"startingScore"` // 初始分
	BaseUnit      int  `json:"baseUnit"`      // 杠结算单位
	MaxWinners    int  `json:"maxWinners"`    // 胡牌人数达到后结束，0 表示直到牌墙摸完
	SettleWins    bool `json:"settleWins"`    // 胡牌是否即时结算
}

// DefaultRules 默认规则
func DefaultRules() Rules {
	return Rules{
		StartingScore: 100,
		BaseUnit:      1,
	}
}

// GameState 游戏状态
type GameState struct {
	ID                string          `json:"id"`
	Players           []*Player       `json:"players"`           // 固定 4 人，顺序即座位顺序
	CurrentPlayer     int             `json:"currentPlayer"`     // 当前玩家索引
	DealerIndex       int             `json:"dealerIndex"`       // 庄家索引
	Wall              []Tile          `json:"wall"`              // 牌墙，头部摸牌，尾部杠后补牌
	Discards          []DiscardedTile `json:"discards"`          // 弃牌记录，只追加
	PendingDiscard    *DiscardedTile  `json:"pendingDiscard"`    // 等待响应的弃牌
	Phase             Phase           `json:"phase"`             // 阶段
	BaseUnit          int             `json:"baseUnit"`          // 杠结算单位
	InitialTotalScore int             `json:"initialTotalScore"` // 总分，恒定
	Transfers         []Transfer      `json:"transfers"`         // 结算记录
	Wins              []WinRecord     `json:"wins"`              // 胡牌记录
	Rules             Rules           `json:"rules"`
}

// Clone 深拷贝，返回的状态与原状态不共享任何可变结构
func (s *GameState) Clone() *GameState {
	c := *s
	c.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		c.Players[i] = p.Clone()
	}
	c.Wall = CloneTiles(s.Wall)
	c.Discards = cloneSlice(s.Discards)
	c.Transfers = cloneSlice(s.Transfers)
	c.Wins = cloneSlice(s.Wins)
	if s.PendingDiscard != nil {
		d := *s.PendingDiscard
		c.PendingDiscard = &d
	}
	return &c
}

// GetPlayer 根据ID获取玩家
func (s *GameState) GetPlayer(playerID string) *Player {
	for _, p := range s.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// GetPlayerIndex 根据ID获取玩家索引
func (s *GameState) GetPlayerIndex(playerID string) int {
	for i, p := range s.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// GetCurrentPlayer 获取当前玩家
func (s *GameState) GetCurrentPlayer() *Player {
	if s.CurrentPlayer >= 0 && s.CurrentPlayer < len(s.Players) {
		return s.Players[s.CurrentPlayer]
	}
	return nil
}

// NextIndex 下一个座位
func (s *GameState) NextIndex(index int) int {
	return (index + 1) % len(s.Players)
}

// TotalScore 所有玩家分数之和
func (s *GameState) TotalScore() int {
	total := 0
	for _, p := range s.Players {
		total += p.Score
	}
	return total
}

// WinnerCount 已胡玩家数
func (s *GameState) WinnerCount() int {
	n := 0
	for _, p := range s.Players {
		if p.HasWon {
			n++
		}
	}
	return n
}

// HasAnyMeld 桌上是否已有任何副露
func (s *GameState) HasAnyMeld() bool {
	for _, p := range s.Players {
		if len(p.Melds) > 0 {
			return true
		}
	}
	return false
}

// cloneSlice 浅拷贝切片，保留 nil
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
