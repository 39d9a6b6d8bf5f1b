package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTile(t *testing.T) {
	tests := []struct {
		name    string
		suit    Suit
		rank    int
		wantErr error
	}{
		{name: "lowest rank", suit: SuitWan, rank: 1},
		{name: "highest rank", suit: SuitTong, rank: 9},
		{name: "rank zero", suit: SuitTiao, rank: 0, wantErr: ErrInvalidRank},
		{name: "rank ten", suit: SuitTiao, rank: 10, wantErr: ErrInvalidRank},
		{name: "unset suit", suit: SuitNone, rank: 5, wantErr: ErrInvalidSuit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile, err := NewTile(tt.suit, tt.rank)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.suit, tile.Suit)
			assert.Equal(t, int8(tt.rank), tile.Rank)
		})
	}
}

func TestTileErrorMessages(t *testing.T) {
	assert.Equal(t, "点数必须在 1 到 9 之间", ErrInvalidRank.Error())
	assert.Equal(t, "无效的花色", ErrInvalidSuit.Error())
}

func TestTileEqualityByValue(t *testing.T) {
	a := MustTile(SuitWan, 3)
	b := MustTile(SuitWan, 3)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a, b)
	assert.Equal(t, "3万", a.String())
}

func TestSortTilesCanonicalOrder(t *testing.T) {
	tiles := []Tile{
		MustTile(SuitTong, 1),
		MustTile(SuitWan, 9),
		MustTile(SuitTiao, 5),
		MustTile(SuitWan, 2),
	}
	SortTiles(tiles)
	assert.Equal(t, []Tile{
		MustTile(SuitWan, 2),
		MustTile(SuitWan, 9),
		MustTile(SuitTiao, 5),
		MustTile(SuitTong, 1),
	}, tiles)
}

func TestRemoveTileDoesNotAlias(t *testing.T) {
	hand := []Tile{MustTile(SuitWan, 1), MustTile(SuitWan, 2), MustTile(SuitWan, 1)}
	out := RemoveN(hand, MustTile(SuitWan, 1), 2)

	assert.Equal(t, []Tile{MustTile(SuitWan, 2)}, out)
	assert.Len(t, hand, 3, "原切片不应被修改")
	assert.Equal(t, MustTile(SuitWan, 1), hand[0])
}

func TestContainsTilesCountsMultiplicity(t *testing.T) {
	hand := []Tile{MustTile(SuitTiao, 4), MustTile(SuitTiao, 4), MustTile(SuitTong, 7)}
	assert.True(t, ContainsTiles(hand, []Tile{MustTile(SuitTiao, 4), MustTile(SuitTiao, 4)}))
	assert.False(t, ContainsTiles(hand, []Tile{MustTile(SuitTong, 7), MustTile(SuitTong, 7)}))
}

func TestGameStateCloneIsIndependent(t *testing.T) {
	drawn := MustTile(SuitWan, 5)
	p := NewPlayer("p1", 100)
	p.Hand = []Tile{drawn}
	p.LastDrawn = &drawn
	p.Melds = []Meld{NewMeld(MeldPong, MustTile(SuitTiao, 2))}
	s := &GameState{
		ID:       "g1",
		Players:  []*Player{p},
		Wall:     []Tile{MustTile(SuitTong, 9)},
		Discards: []DiscardedTile{{Tile: MustTile(SuitWan, 1), PlayerID: "p1"}},
	}

	c := s.Clone()
	c.Players[0].Hand[0] = MustTile(SuitTong, 1)
	c.Players[0].Melds[0].Tiles[0] = MustTile(SuitTong, 1)
	*c.Players[0].LastDrawn = MustTile(SuitTong, 1)
	c.Wall[0] = MustTile(SuitWan, 1)
	c.Players[0].Score = 0

	assert.Equal(t, drawn, s.Players[0].Hand[0])
	assert.Equal(t, MustTile(SuitTiao, 2), s.Players[0].Melds[0].Tiles[0])
	assert.Equal(t, drawn, *s.Players[0].LastDrawn)
	assert.Equal(t, MustTile(SuitTong, 9), s.Wall[0])
	assert.Equal(t, 100, s.Players[0].Score)
}

func TestNewMeldConcealedOnlyForConcealedKong(t *testing.T) {
	tile := MustTile(SuitWan, 8)
	assert.Len(t, NewMeld(MeldPong, tile).Tiles, 3)
	assert.False(t, NewMeld(MeldPong, tile).Concealed)
	assert.False(t, NewMeld(MeldKongExposed, tile).Concealed)
	assert.False(t, NewMeld(MeldKongUpgraded, tile).Concealed)
	assert.True(t, NewMeld(MeldKongConcealed, tile).Concealed)
	assert.Len(t, NewMeld(MeldKongConcealed, tile).Tiles, 4)
}

func TestActionPriority(t *testing.T) {
	assert.Equal(t, 3, ActionHu.Priority())
	assert.Equal(t, 2, ActionKongExposed.Priority())
	assert.Equal(t, 1, ActionPong.Priority())
	assert.Equal(t, 0, ActionPass.Priority())
}
