package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.im.xuezhan/internal/game"
	"sudooom.im.xuezhan/internal/game/mahjong/core"
)

func sampleState() *core.GameState {
	p := core.NewPlayer("alice", 98)
	p.Hand = []core.Tile{core.MustTile(core.SuitWan, 1), core.MustTile(core.SuitTiao, 9)}
	p.MissingSuit = core.SuitTong
	drawn := core.MustTile(core.SuitTiao, 9)
	p.LastDrawn = &drawn
	p.Melds = []core.Meld{core.NewMeld(core.MeldKongConcealed, core.MustTile(core.SuitWan, 5))}

	discard := core.DiscardedTile{Tile: core.MustTile(core.SuitWan, 3), PlayerID: "bob", Seq: 0}
	return &core.GameState{
		ID:                "g1",
		Players:           []*core.Player{p},
		Wall:              []core.Tile{core.MustTile(core.SuitTong, 2)},
		Discards:          []core.DiscardedTile{discard},
		PendingDiscard:    &discard,
		Phase:             core.PhasePlaying,
		BaseUnit:          1,
		InitialTotalScore: 100,
		Transfers:         []core.Transfer{{FromID: "bob", ToID: "alice", Amount: 2, Reason: "kong"}},
		Wins:              []core.WinRecord{},
		Rules:             core.DefaultRules(),
	}
}

func TestBuildSnapshotKey(t *testing.T) {
	assert.Equal(t, "xz:game:123", BuildSnapshotKey("123"))
}

func TestSnapshotEncoding(t *testing.T) {
	snap := &game.Snapshot{
		GameID:    "g1",
		HumanID:   "alice",
		State:     sampleState(),
		Recorded:  true,
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := EncodeSnapshot(snap)
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, snap.GameID, decoded.GameID)
	assert.Equal(t, snap.HumanID, decoded.HumanID)
	assert.True(t, decoded.Recorded)
	assert.True(t, snap.UpdatedAt.Equal(decoded.UpdatedAt))
	assert.Equal(t, snap.State, decoded.State)
}

func TestSnapshotWithoutState(t *testing.T) {
	_, err := EncodeSnapshot(&game.Snapshot{GameID: "g1"})
	assert.Error(t, err)

	_, err = DecodeSnapshot([]byte(`{"gameId":"g1"}`))
	assert.Error(t, err)

	_, err = DecodeSnapshot([]byte(`not json`))
	assert.Error(t, err)
}

func TestRecordRow(t *testing.T) {
	s := sampleState()
	rec := &game.Record{
		GameID:        "g1",
		Players:       []string{"alice", "bob"},
		Scores:        []int{102, 98},
		Wins:          []core.WinRecord{{PlayerID: "alice", Tile: core.MustTile(core.SuitWan, 3), FromID: "bob", Fan: 2}},
		Transfers:     s.Transfers,
		WallRemaining: 12,
	}

	row, err := toRow(rec)
	require.NoError(t, err)
	assert.Equal(t, "g1", row.GameID)
	assert.Equal(t, 1, row.WinnerCount)
	assert.Equal(t, 12, row.WallRemaining)
	assert.JSONEq(t, `["alice","bob"]`, string(row.Players))
	assert.JSONEq(t, `[102,98]`, string(row.Scores))

	var back game.Record
	require.NoError(t, fromRow(&back, row.Players, row.Scores, row.Wins, row.Transfers))
	assert.Equal(t, rec.Players, back.Players)
	assert.Equal(t, rec.Scores, back.Scores)
	assert.Equal(t, rec.Wins, back.Wins)
	assert.Equal(t, rec.Transfers, back.Transfers)
}

func TestWinnerCountCountsPlayersNotWins(t *testing.T) {
	wan3 := core.MustTile(core.SuitWan, 3)
	wins := []core.WinRecord{
		{PlayerID: "alice", Tile: wan3, FromID: "bob", Fan: 2},
		{PlayerID: "carol", Tile: wan3, SelfDrawn: true, Fan: 3},
		{PlayerID: "alice", Tile: wan3, SelfDrawn: true, Fan: 2},
	}
	assert.Equal(t, 2, winnerCount(wins))
	assert.Zero(t, winnerCount(nil))

	row, err := toRow(&game.Record{GameID: "g1", Wins: wins})
	require.NoError(t, err)
	assert.Equal(t, 2, row.WinnerCount)
}
