package xzmahjong

import (
	"sudooom.im.xuezhan/internal/game/mahjong/core"
)

// Create 创建一局游戏，处于准备阶段
func (e *Engine) Create(gameID string, playerIDs []string) (*core.GameState, error) {
	if len(playerIDs) != PlayerCount {
		return nil, ErrInvalidPlayers.WithContext("count", len(playerIDs))
	}
	seen := make(map[string]bool, PlayerCount)
	for _, id := range playerIDs {
		if id == "" || seen[id] {
			return nil, ErrInvalidPlayers.WithContext("playerId", id)
		}
		seen[id] = true
	}

	players := make([]*core.Player, len(playerIDs))
	for i, id := range playerIDs {
		players[i] = core.NewPlayer(id, e.rules.StartingScore)
	}

	state := &core.GameState{
		ID:                gameID,
		Players:           players,
		CurrentPlayer:     0,
		DealerIndex:       0,
		Wall:              []core.Tile{},
		Discards:          []core.DiscardedTile{},
		Phase:             core.PhaseSetup,
		BaseUnit:          e.rules.BaseUnit,
		InitialTotalScore: e.rules.StartingScore * PlayerCount,
		Transfers:         []core.Transfer{},
		Wins:              []core.WinRecord{},
		Rules:             e.rules,
	}

	e.logger.Info("创建血战麻将", "gameId", gameID, "players", playerIDs)
	return state, nil
}

// Start 洗牌发牌，进入埋牌阶段
func (e *Engine) Start(s *core.GameState) (*core.GameState, error) {
	if s.Phase != core.PhaseSetup {
		return s, ErrInvalidGamePhase.WithContext("phase", s.Phase.String())
	}

	next := s.Clone()

	deck := e.deck.GenerateDeck()
	e.deck.Shuffle(deck)
	hands, remaining := e.deck.Deal(deck, len(next.Players), next.DealerIndex)

	for i, p := range next.Players {
		p.Hand = hands[i]
		core.SortTiles(p.Hand)
	}
	next.Wall = remaining
	next.CurrentPlayer = next.DealerIndex
	next.Phase = core.PhaseBurying

	e.logger.Info("发牌完成",
		"gameId", next.ID,
		"wallRemaining", len(next.Wall),
		"dealer", next.Players[next.DealerIndex].ID)
	return next, nil
}

// End 结束游戏，不再做额外结算
func (e *Engine) End(s *core.GameState) (*core.GameState, error) {
	if s.Phase == core.PhaseEnded {
		return s, nil
	}
	next := s.Clone()
	next.Phase = core.PhaseEnded
	next.PendingDiscard = nil

	e.logger.Info("游戏结束",
		"gameId", next.ID,
		"winners", next.WinnerCount(),
		"wallRemaining", len(next.Wall))
	return next, nil
}
