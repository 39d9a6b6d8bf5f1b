package view

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.im.xuezhan/internal/game/mahjong/core"
)

func sampleState() *core.GameState {
	players := make([]*core.Player, 4)
	for i, id := range []string{"a", "b", "c", "d"} {
		p := core.NewPlayer(id, 100)
		p.MissingSuit = core.SuitTong
		p.Buried = []core.Tile{core.MustTile(core.SuitTong, 1), core.MustTile(core.SuitTong, 2), core.MustTile(core.SuitTong, 3)}
		p.Hand = []core.Tile{core.MustTile(core.SuitWan, 1), core.MustTile(core.SuitWan, 2)}
		players[i] = p
	}
	drawn := core.MustTile(core.SuitWan, 2)
	players[0].LastDrawn = &drawn
	players[1].LastDrawn = &drawn
	players[1].Melds = []core.Meld{core.NewMeld(core.MeldPong, core.MustTile(core.SuitTiao, 5))}
	players[2].HasWon = true
	players[2].WonTiles = []core.Tile{core.MustTile(core.SuitTiao, 9)}

	discard := core.DiscardedTile{Tile: core.MustTile(core.SuitTiao, 9), PlayerID: "d", Seq: 0}
	return &core.GameState{
		ID:             "g1",
		Players:        players,
		CurrentPlayer:  3,
		Wall:           make([]core.Tile, 42),
		Discards:       []core.DiscardedTile{discard},
		PendingDiscard: &discard,
		Phase:          core.PhasePlaying,
		BaseUnit:       2,
		Wins:           []core.WinRecord{{PlayerID: "c", Tile: discard.Tile, FromID: "d", Fan: 3}},
	}
}

func TestProjectHidesOtherHands(t *testing.T) {
	v := Project(sampleState(), "a")

	assert.Equal(t, "g1", v.GameID)
	assert.Equal(t, "PLAYING", v.Phase)
	assert.Equal(t, 3, v.CurrentPlayer)
	assert.Equal(t, 42, v.WallRemaining)
	assert.Equal(t, 2, v.BaseUnit)

	self := v.Players[0]
	assert.True(t, self.IsSelf)
	assert.Equal(t, []TileView{{Suit: "WAN", Rank: 1}, {Suit: "WAN", Rank: 2}}, self.Hand)
	require.NotNil(t, self.LastDrawn)
	assert.Equal(t, TileView{Suit: "WAN", Rank: 2}, *self.LastDrawn)

	other := v.Players[1]
	assert.False(t, other.IsSelf)
	assert.Nil(t, other.Hand)
	assert.Nil(t, other.LastDrawn)
	assert.Equal(t, 2, other.HandCount)

	// 公开信息对所有人可见
	require.Len(t, other.Melds, 1)
	assert.Equal(t, "PONG", other.Melds[0].Kind)
	assert.Len(t, other.Buried, 3)
	assert.Equal(t, "TONG", other.MissingSuit)
	assert.True(t, v.Players[2].HasWon)
	assert.Equal(t, []TileView{{Suit: "TIAO", Rank: 9}}, v.Players[2].WonTiles)

	require.Len(t, v.Discards, 1)
	assert.Equal(t, DiscardView{Tile: TileView{Suit: "TIAO", Rank: 9}, PlayerID: "d", Seq: 0}, v.Discards[0])
	require.NotNil(t, v.PendingDiscard)
	require.Len(t, v.Wins, 1)
	assert.Equal(t, 3, v.Wins[0].Fan)
}

func TestProjectForOutsiderHidesAllHands(t *testing.T) {
	v := Project(sampleState(), "spectator")
	for _, p := range v.Players {
		assert.Nil(t, p.Hand)
		assert.Nil(t, p.LastDrawn)
		assert.Equal(t, 2, p.HandCount)
	}
}

func TestProjectJSONOmitsHiddenHands(t *testing.T) {
	data, err := json.Marshal(Project(sampleState(), "a"))
	require.NoError(t, err)

	var decoded struct {
		Players []map[string]any `json:"players"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded.Players[0], "hand")
	assert.NotContains(t, decoded.Players[1], "hand")
	assert.NotContains(t, decoded.Players[1], "lastDrawn")
}

func TestToTile(t *testing.T) {
	tile, err := TileView{Suit: "TIAO", Rank: 7}.ToTile()
	require.NoError(t, err)
	assert.Equal(t, core.MustTile(core.SuitTiao, 7), tile)

	_, err = TileView{Suit: "ZI", Rank: 1}.ToTile()
	assert.True(t, errors.Is(err, ErrUnknownSuit))

	_, err = TileView{Suit: "WAN", Rank: 10}.ToTile()
	assert.True(t, errors.Is(err, core.ErrInvalidRank))

	tiles, err := ToTiles([]TileView{{Suit: "WAN", Rank: 1}, {Suit: "TONG", Rank: 9}})
	require.NoError(t, err)
	assert.Equal(t, []core.Tile{core.MustTile(core.SuitWan, 1), core.MustTile(core.SuitTong, 9)}, tiles)
}
