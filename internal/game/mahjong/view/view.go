package view

import (
	"errors"
	"fmt"

	"sudooom.im.xuezhan/internal/game/mahjong/core"
)

// ErrUnknownSuit 无法识别的花色
var ErrUnknownSuit = errors.New("未知花色")

// TileView 客户端可见的牌
type TileView struct {
	Suit string `json:"suit"` // WAN / TIAO / TONG
	Rank int    `json:"rank"`
}

var suitNames = map[core.Suit]string{
	core.SuitWan:  "WAN",
	core.SuitTiao: "TIAO",
	core.SuitTong: "TONG",
}

// FromTile 转换为客户端表示
func FromTile(t core.Tile) TileView {
	return TileView{Suit: suitNames[t.Suit], Rank: int(t.Rank)}
}

// FromTiles 批量转换
func FromTiles(tiles []core.Tile) []TileView {
	out := make([]TileView, len(tiles))
	for i, t := range tiles {
		out[i] = FromTile(t)
	}
	return out
}

// ToTile 解析客户端的牌
func (v TileView) ToTile() (core.Tile, error) {
	for suit, name := range suitNames {
		if name == v.Suit {
			return core.NewTile(suit, v.Rank)
		}
	}
	return core.Tile{}, fmt.Errorf("%w: %q", ErrUnknownSuit, v.Suit)
}

// ToTiles 批量解析
func ToTiles(views []TileView) ([]core.Tile, error) {
	out := make([]core.Tile, len(views))
	for i, v := range views {
		t, err := v.ToTile()
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// MeldView 副露
type MeldView struct {
	Kind      string     `json:"kind"`
	Tiles     []TileView `json:"tiles"`
	Concealed bool       `json:"concealed"`
}

// DiscardView 弃牌记录
type DiscardView struct {
	Tile     TileView `json:"tile"`
	PlayerID string   `json:"playerId"`
	Seq      int      `json:"seq"`
}

// PlayerView 某个玩家在观察者眼中的样子
// Hand 与 LastDrawn 只对本人可见，其他人只能看到手牌张数
type PlayerView struct {
	ID          string     `json:"id"`
	Hand        []TileView `json:"hand,omitempty"`
	HandCount   int        `json:"handCount"`
	LastDrawn   *TileView  `json:"lastDrawn,omitempty"`
	Melds       []MeldView `json:"melds"`
	Buried      []TileView `json:"buried"`
	MissingSuit string     `json:"missingSuit,omitempty"`
	Score       int        `json:"score"`
	HasWon      bool       `json:"hasWon"`
	WonTiles    []TileView `json:"wonTiles"`
	IsSelf      bool       `json:"isSelf"`
}

// WinView 胡牌记录
type WinView struct {
	PlayerID  string   `json:"playerId"`
	Tile      TileView `json:"tile"`
	FromID    string   `json:"fromId,omitempty"`
	SelfDrawn bool     `json:"selfDrawn"`
	Fan       int      `json:"fan"`
}

// GameView 按观察者过滤后的局面
type GameView struct {
	GameID         string        `json:"gameId"`
	Phase          string        `json:"phase"`
	CurrentPlayer  int           `json:"currentPlayer"`
	DealerIndex    int           `json:"dealerIndex"`
	WallRemaining  int           `json:"wallRemaining"`
	BaseUnit       int           `json:"baseUnit"`
	Players        []PlayerView  `json:"players"`
	Discards       []DiscardView `json:"discards"`
	PendingDiscard *DiscardView  `json:"pendingDiscard,omitempty"`
	Wins           []WinView     `json:"wins"`
	Actions        []string      `json:"actions,omitempty"` // 观察者当前可做的动作
}

// Project 为 viewerID 生成可见局面；viewerID 不在局中时所有手牌都隐藏
func Project(s *core.GameState, viewerID string) *GameView {
	v := &GameView{
		GameID:        s.ID,
		Phase:         s.Phase.String(),
		CurrentPlayer: s.CurrentPlayer,
		DealerIndex:   s.DealerIndex,
		WallRemaining: len(s.Wall),
		BaseUnit:      s.BaseUnit,
		Players:       make([]PlayerView, len(s.Players)),
		Discards:      make([]DiscardView, len(s.Discards)),
		Wins:          make([]WinView, len(s.Wins)),
	}

	for i, p := range s.Players {
		v.Players[i] = projectPlayer(p, p.ID == viewerID)
	}
	for i, d := range s.Discards {
		v.Discards[i] = projectDiscard(d)
	}
	if s.PendingDiscard != nil {
		d := projectDiscard(*s.PendingDiscard)
		v.PendingDiscard = &d
	}
	for i, w := range s.Wins {
		v.Wins[i] = WinView{
			PlayerID:  w.PlayerID,
			Tile:      FromTile(w.Tile),
			FromID:    w.FromID,
			SelfDrawn: w.SelfDrawn,
			Fan:       w.Fan,
		}
	}
	return v
}

func projectPlayer(p *core.Player, self bool) PlayerView {
	pv := PlayerView{
		ID:        p.ID,
		HandCount: len(p.Hand),
		Melds:     make([]MeldView, len(p.Melds)),
		Buried:    FromTiles(p.Buried),
		Score:     p.Score,
		HasWon:    p.HasWon,
		WonTiles:  FromTiles(p.WonTiles),
		IsSelf:    self,
	}
	if p.HasMissingSuit() {
		pv.MissingSuit = suitNames[p.MissingSuit]
	}
	for i, m := range p.Melds {
		pv.Melds[i] = MeldView{
			Kind:      meldKindName(m.Kind),
			Tiles:     FromTiles(m.Tiles),
			Concealed: m.Concealed,
		}
	}
	if self {
		pv.Hand = FromTiles(p.Hand)
		if p.LastDrawn != nil {
			ld := FromTile(*p.LastDrawn)
			pv.LastDrawn = &ld
		}
	}
	return pv
}

func projectDiscard(d core.DiscardedTile) DiscardView {
	return DiscardView{
		Tile:     FromTile(d.Tile),
		PlayerID: d.PlayerID,
		Seq:      d.Seq,
	}
}

func meldKindName(k core.MeldKind) string {
	switch k {
	case core.MeldPong:
		return "PONG"
	case core.MeldKongExposed:
		return "KONG_EXPOSED"
	case core.MeldKongConcealed:
		return "KONG_CONCEALED"
	case core.MeldKongUpgraded:
		return "KONG_UPGRADED"
	default:
		return "UNKNOWN"
	}
}
