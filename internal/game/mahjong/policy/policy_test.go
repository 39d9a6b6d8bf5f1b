package policy

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.im.xuezhan/internal/game/mahjong/core"
)

func tile(suit core.Suit, rank int) core.Tile {
	return core.MustTile(suit, rank)
}

func wan(ranks ...int) []core.Tile  { return suited(core.SuitWan, ranks) }
func tiao(ranks ...int) []core.Tile { return suited(core.SuitTiao, ranks) }
func tong(ranks ...int) []core.Tile { return suited(core.SuitTong, ranks) }

func suited(suit core.Suit, ranks []int) []core.Tile {
	out := make([]core.Tile, len(ranks))
	for i, r := range ranks {
		out[i] = tile(suit, r)
	}
	return out
}

func hand(groups ...[]core.Tile) []core.Tile {
	var out []core.Tile
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func newPlayer(tiles []core.Tile) *core.Player {
	p := core.NewPlayer("ai", 100)
	p.Hand = tiles
	return p
}

func stateWithWall(n int) *core.GameState {
	return &core.GameState{Wall: make([]core.Tile, n), Discards: []core.DiscardedTile{{}}}
}

func TestChooseBuryPicksSmallestEligibleSuit(t *testing.T) {
	h := NewHeuristic(nil)

	// 筒只有两张，不够埋；条四张最少
	p := newPlayer(hand(wan(1, 2, 3, 4, 5, 6, 7), tiao(2, 4, 6, 8), tong(1, 9)))
	assert.Equal(t, tiao(2, 4, 6), h.ChooseBury(p))

	p = newPlayer(hand(wan(1, 2, 3), tiao(1, 2, 3, 4, 5), tong(1, 2, 3, 4, 5)))
	assert.Equal(t, wan(1, 2, 3), h.ChooseBury(p))
}

func TestChooseDiscard(t *testing.T) {
	h := NewHeuristic(rand.New(rand.NewPCG(1, 2)))
	s := stateWithWall(10)

	t.Run("missing suit first", func(t *testing.T) {
		p := newPlayer(hand(wan(1, 2, 3), tong(5), tiao(9)))
		p.MissingSuit = core.SuitTong
		assert.Equal(t, tile(core.SuitTong, 5), h.ChooseDiscard(p, s))
	})

	t.Run("lone tile", func(t *testing.T) {
		p := newPlayer(hand(wan(1, 2, 3), tiao(9), tiao(5, 6)))
		p.MissingSuit = core.SuitTong
		assert.Equal(t, tile(core.SuitTiao, 9), h.ChooseDiscard(p, s))
	})

	t.Run("won player discards drawn tile", func(t *testing.T) {
		p := newPlayer(hand(wan(1, 2, 3), tiao(9), tiao(5, 6)))
		p.MissingSuit = core.SuitTong
		p.HasWon = true
		drawn := tile(core.SuitTiao, 5)
		p.LastDrawn = &drawn
		assert.Equal(t, drawn, h.ChooseDiscard(p, s))
	})

	t.Run("random fallback stays in hand", func(t *testing.T) {
		p := newPlayer(hand(wan(1, 2, 3), tiao(4, 5)))
		p.MissingSuit = core.SuitTong
		got := h.ChooseDiscard(p, s)
		assert.True(t, core.ContainsTile(p.Hand, got))
	})
}

func TestChooseResponse(t *testing.T) {
	h := NewHeuristic(nil)
	s := stateWithWall(10)
	five := tile(core.SuitTiao, 5)

	tests := []struct {
		name   string
		player func() *core.Player
		state  *core.GameState
		want   core.ActionKind
	}{
		{
			name: "hu",
			player: func() *core.Player {
				return newPlayer(hand(wan(1, 1, 1, 2, 2, 2, 3, 3, 3, 4, 4, 4), tiao(5)))
			},
			state: s,
			want:  core.ActionHu,
		},
		{
			name:   "kong",
			player: func() *core.Player { return newPlayer(hand(tiao(5, 5, 5), wan(1, 4, 7))) },
			state:  s,
			want:   core.ActionKongExposed,
		},
		{
			name:   "pong when wall is empty",
			player: func() *core.Player { return newPlayer(hand(tiao(5, 5, 5), wan(1, 4, 7))) },
			state:  stateWithWall(0),
			want:   core.ActionPong,
		},
		{
			name:   "pong",
			player: func() *core.Player { return newPlayer(hand(tiao(5, 5), wan(1, 4, 7))) },
			state:  s,
			want:   core.ActionPong,
		},
		{
			name: "won player does not pong",
			player: func() *core.Player {
				p := newPlayer(hand(tiao(5, 5), wan(1, 4, 7)))
				p.HasWon = true
				return p
			},
			state: s,
			want:  core.ActionPass,
		},
		{
			name: "missing suit is never claimed",
			player: func() *core.Player {
				p := newPlayer(hand(tiao(5, 5), wan(1, 4, 7)))
				p.MissingSuit = core.SuitTiao
				return p
			},
			state: s,
			want:  core.ActionPass,
		},
		{
			name:   "pass",
			player: func() *core.Player { return newPlayer(wan(1, 4, 7)) },
			state:  s,
			want:   core.ActionPass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.player()
			got := h.ChooseResponse(p, five, tt.state)
			assert.Equal(t, tt.want, got.Action)
			assert.Equal(t, tt.want.Priority(), got.Priority)
			assert.Equal(t, five, got.TargetTile)
			assert.Equal(t, p.ID, got.PlayerID)
		})
	}
}

func TestChooseTurn(t *testing.T) {
	h := NewHeuristic(nil)
	s := stateWithWall(10)

	t.Run("self drawn win", func(t *testing.T) {
		p := newPlayer(hand(wan(1, 1, 1, 2, 2, 2, 3, 3, 3, 4, 4, 4), tiao(5, 5)))
		drawn := tile(core.SuitTiao, 5)
		p.LastDrawn = &drawn
		action, got := h.ChooseTurn(p, s)
		assert.Equal(t, core.ActionHu, action)
		assert.Equal(t, drawn, got)
	})

	t.Run("concealed kong", func(t *testing.T) {
		p := newPlayer(hand(wan(1, 4, 7), tiao(5, 5, 5, 5), tiao(9)))
		action, got := h.ChooseTurn(p, s)
		assert.Equal(t, core.ActionKongConcealed, action)
		assert.Equal(t, tile(core.SuitTiao, 5), got)
	})

	t.Run("upgrade kong", func(t *testing.T) {
		p := newPlayer(hand(wan(1, 4, 7), tiao(8)))
		p.Melds = []core.Meld{core.NewMeld(core.MeldPong, tile(core.SuitTiao, 8))}
		action, got := h.ChooseTurn(p, s)
		assert.Equal(t, core.ActionKongUpgrade, action)
		assert.Equal(t, tile(core.SuitTiao, 8), got)
	})

	t.Run("no kong when wall is empty", func(t *testing.T) {
		p := newPlayer(hand(wan(1, 4, 7), tiao(5, 5, 5, 5), tiao(9)))
		action, _ := h.ChooseTurn(p, stateWithWall(0))
		assert.Equal(t, core.ActionPass, action)
	})

	t.Run("discard otherwise", func(t *testing.T) {
		p := newPlayer(hand(wan(1, 4, 7), tiao(9)))
		action, _ := h.ChooseTurn(p, s)
		require.Equal(t, core.ActionPass, action)
	})
}
