package xzmahjong

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"sudooom.im.xuezhan/internal/game/mahjong/core"
)

// ts 解析 "1m 2s 9p" 形式的牌组: m=万 s=条 p=筒
func ts(text string) []core.Tile {
	fields := strings.Fields(text)
	tiles := make([]core.Tile, 0, len(fields))
	for _, f := range fields {
		tiles = append(tiles, t1(f))
	}
	return tiles
}

func t1(f string) core.Tile {
	if len(f) != 2 {
		panic(fmt.Sprintf("bad tile %q", f))
	}
	var suit core.Suit
	switch f[1] {
	case 'm':
		suit = core.SuitWan
	case 's':
		suit = core.SuitTiao
	case 'p':
		suit = core.SuitTong
	default:
		panic(fmt.Sprintf("bad suit %q", f))
	}
	return core.MustTile(suit, int(f[0]-'0'))
}

func quietEngine(rules core.Rules, opts ...Option) *Engine {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewEngine(rules, opts...)
}

// playingState 构造行牌中的局面: 四家缺筒，各出过一张牌，p0 为当前玩家
func playingState(wall string, hands ...string) *core.GameState {
	rules := core.DefaultRules()
	s := &core.GameState{
		ID:                "test",
		Players:           make([]*core.Player, 4),
		CurrentPlayer:     0,
		DealerIndex:       0,
		Wall:              ts(wall),
		Discards:          []core.DiscardedTile{},
		Phase:             core.PhasePlaying,
		BaseUnit:          rules.BaseUnit,
		InitialTotalScore: rules.StartingScore * 4,
		Transfers:         []core.Transfer{},
		Wins:              []core.WinRecord{},
		Rules:             rules,
	}
	for i := range s.Players {
		p := core.NewPlayer(fmt.Sprintf("p%d", i), rules.StartingScore)
		p.MissingSuit = core.SuitTong
		p.Discarded = 1
		if i < len(hands) {
			p.Hand = ts(hands[i])
		}
		s.Players[i] = p
	}
	return s
}

func scores(s *core.GameState) []int {
	out := make([]int, len(s.Players))
	for i, p := range s.Players {
		out[i] = p.Score
	}
	return out
}
