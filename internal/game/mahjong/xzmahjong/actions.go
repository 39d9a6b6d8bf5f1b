package xzmahjong

import (
	"sudooom.im.xuezhan/internal/game/mahjong/core"
)

// Bury 埋牌定缺: 三张同花色的牌移出手牌，该花色成为缺门
func (e *Engine) Bury(s *core.GameState, playerID string, tiles []core.Tile) (*core.GameState, error) {
	if s.Phase != core.PhaseBurying {
		return s, ErrInvalidGamePhase.WithContext("phase", s.Phase.String())
	}
	player := s.GetPlayer(playerID)
	if player == nil {
		return s, playerNotFound(playerID)
	}
	if player.HasMissingSuit() {
		return s, ErrAlreadyBuried.WithContext("playerId", playerID)
	}
	if len(tiles) != BuryCount {
		return s, ErrInvalidBury.WithContext("count", len(tiles))
	}
	suit := tiles[0].Suit
	for _, t := range tiles {
		if t.Suit != suit {
			return s, ErrInvalidBury.WithContext("tiles", tiles)
		}
	}
	if !core.ContainsTiles(player.Hand, tiles) {
		return s, ErrTileNotInHand.WithContext("tiles", tiles)
	}

	next := s.Clone()
	p := next.GetPlayer(playerID)
	p.Hand = core.RemoveTiles(p.Hand, tiles)
	p.Buried = core.CloneTiles(tiles)
	p.MissingSuit = suit

	e.logger.Info("玩家埋牌", "gameId", next.ID, "playerId", playerID, "missingSuit", suit.String())

	for _, other := range next.Players {
		if !other.HasMissingSuit() {
			return next, nil
		}
	}
	next.Phase = core.PhasePlaying
	next.CurrentPlayer = next.DealerIndex
	e.logger.Info("埋牌完成，开始行牌", "gameId", next.ID)
	return next, nil
}

// checkTurn 行牌阶段且轮到该玩家
func checkTurn(s *core.GameState, playerID string) (int, error) {
	if s.Phase != core.PhasePlaying {
		return -1, ErrInvalidGamePhase.WithContext("phase", s.Phase.String())
	}
	idx := s.GetPlayerIndex(playerID)
	if idx < 0 {
		return -1, playerNotFound(playerID)
	}
	if idx != s.CurrentPlayer {
		return -1, ErrNotYourTurn.WithContext("playerId", playerID)
	}
	return idx, nil
}

// Discard 出牌
// deferResponses 为 false 时立即收集并仲裁其他玩家的响应；
// 为 true 时弃牌保持等待状态，由调用方稍后调用 CollectResponses / ResolveResponses
func (e *Engine) Discard(s *core.GameState, playerID string, tile core.Tile, deferResponses bool) (*core.GameState, error) {
	idx, err := checkTurn(s, playerID)
	if err != nil {
		return s, err
	}
	if s.PendingDiscard != nil {
		return s, ErrResponsePending
	}

	player := s.Players[idx]
	if !core.ContainsTile(player.Hand, tile) {
		return s, ErrTileNotInHand.WithContext("tile", tile.String())
	}
	if player.HasWon {
		if player.LastDrawn == nil || !player.LastDrawn.Equal(tile) {
			return s, ErrMustDiscardDrawn.WithContext("tile", tile.String())
		}
	} else if player.HasMissingSuit() && player.HoldsSuit(player.MissingSuit) && tile.Suit != player.MissingSuit {
		return s, ErrMissingSuitFirst.WithContext("missingSuit", player.MissingSuit.String())
	}

	next := s.Clone()
	p := next.Players[idx]
	p.Hand = core.RemoveTile(p.Hand, tile)

	discard := core.DiscardedTile{
		Tile:      tile,
		PlayerID:  playerID,
		Seq:       len(next.Discards),
		AfterKong: p.DrewFromKong,
	}
	next.Discards = append(next.Discards, discard)
	next.PendingDiscard = &discard

	p.LastDrawn = nil
	p.DrewFromKong = false
	p.Discarded++

	e.logger.Info("玩家出牌", "gameId", next.ID, "playerId", playerID, "tile", tile.String())

	if deferResponses {
		return next, nil
	}

	responses, err := e.CollectResponses(next, tile, playerID)
	if err != nil {
		return s, err
	}
	resolved, err := e.ResolveResponses(next, responses, playerID)
	if err != nil {
		return s, err
	}
	return resolved, nil
}

// drawFor 让 idx 座位从牌墙头部摸一张，直接修改 s (调用方已克隆)
func (e *Engine) drawFor(s *core.GameState, idx int) *core.GameState {
	s.PendingDiscard = nil
	if len(s.Wall) == 0 {
		s.Phase = core.PhaseEnded
		e.logger.Info("牌墙摸完，游戏结束", "gameId", s.ID, "winners", s.WinnerCount())
		return s
	}

	tile := s.Wall[0]
	s.Wall = s.Wall[1:]

	p := s.Players[idx]
	p.Hand = append(p.Hand, tile)
	p.LastDrawn = &tile
	p.DrewFromKong = false
	s.CurrentPlayer = idx
	return s
}

// drawReplacement 杠后从牌墙尾部补牌，调用方保证牌墙非空
func drawReplacement(s *core.GameState, idx int) {
	last := len(s.Wall) - 1
	tile := s.Wall[last]
	s.Wall = s.Wall[:last]

	p := s.Players[idx]
	p.Hand = append(p.Hand, tile)
	p.LastDrawn = &tile
	p.DrewFromKong = true
	s.CurrentPlayer = idx
}

// Declare 宣告动作: 胡、碰、明杠、暗杠、补杠或过
// discarderID 可为空，此时以等待响应的弃牌为准
func (e *Engine) Declare(s *core.GameState, playerID string, action core.ActionKind, tile core.Tile, discarderID string) (*core.GameState, error) {
	if s.Phase != core.PhasePlaying {
		return s, ErrInvalidGamePhase.WithContext("phase", s.Phase.String())
	}
	idx := s.GetPlayerIndex(playerID)
	if idx < 0 {
		return s, playerNotFound(playerID)
	}

	switch action {
	case core.ActionPass:
		return s, nil
	case core.ActionHu:
		return e.declareHu(s, idx, tile, discarderID)
	case core.ActionPong:
		return e.declarePong(s, idx, tile, discarderID)
	case core.ActionKongExposed:
		return e.declareExposedKong(s, idx, tile, discarderID)
	case core.ActionKongConcealed:
		return e.declareConcealedKong(s, idx, tile)
	case core.ActionKongUpgrade:
		return e.declareUpgradeKong(s, idx, tile)
	default:
		return s, ErrUnknownAction.WithContext("action", action.String())
	}
}

// claimedDiscard 校验对等待响应弃牌的认领
func claimedDiscard(s *core.GameState, playerID string, tile core.Tile, discarderID string) (*core.DiscardedTile, error) {
	d := s.PendingDiscard
	if d == nil {
		return nil, ErrNoPendingDiscard
	}
	if discarderID != "" && discarderID != d.PlayerID {
		return nil, ErrNoDiscarder.WithContext("discarderId", discarderID)
	}
	if !d.Tile.Equal(tile) {
		return nil, ErrTileMismatch.WithContext("tile", tile.String())
	}
	if d.PlayerID == playerID {
		return nil, ErrOwnDiscard
	}
	if s.GetPlayer(d.PlayerID) == nil {
		return nil, playerNotFound(d.PlayerID)
	}
	return d, nil
}

// isSelfDraw 刚摸的牌，或庄家起手 (尚无任何出牌)
func isSelfDraw(s *core.GameState, idx int, tile core.Tile) bool {
	if s.PendingDiscard != nil || idx != s.CurrentPlayer {
		return false
	}
	p := s.Players[idx]
	if p.LastDrawn != nil {
		return p.LastDrawn.Equal(tile)
	}
	return idx == s.DealerIndex && len(s.Discards) == 0 && core.ContainsTile(p.Hand, tile)
}

func (e *Engine) declareHu(s *core.GameState, idx int, tile core.Tile, discarderID string) (*core.GameState, error) {
	player := s.Players[idx]
	selfDrawn := isSelfDraw(s, idx, tile)

	var extra *core.Tile
	var discard *core.DiscardedTile
	if !selfDrawn {
		d, err := claimedDiscard(s, player.ID, tile, discarderID)
		if err != nil {
			return s, err
		}
		discard = d
		t := d.Tile
		extra = &t
	}

	if !e.winningAlgo.CanWin(player, extra) {
		return s, ErrCannotWin.WithContext("tile", tile.String())
	}

	flags := e.winFlags(s, idx, selfDrawn, discard)
	fan := e.scorer.Score(player, extra, flags)

	next := s.Clone()
	p := next.Players[idx]

	record := core.WinRecord{
		PlayerID:  p.ID,
		Tile:      tile,
		SelfDrawn: selfDrawn,
		Fan:       fan,
	}
	var discarder *core.Player
	if discard != nil {
		record.FromID = discard.PlayerID
		discarder = next.GetPlayer(discard.PlayerID)
	}

	if next.Rules.SettleWins {
		settleWin(next, p, discarder, fan)
		if err := checkZeroSum(next); err != nil {
			e.logger.Error("胡牌结算后总分不守恒", "gameId", s.ID, "playerId", p.ID, "error", err)
			return s, err
		}
	}

	p.HasWon = true
	p.WonTiles = append(p.WonTiles, tile)
	if selfDrawn {
		p.Hand = core.RemoveTile(p.Hand, tile)
	}
	p.LastDrawn = nil
	p.DrewFromKong = false
	next.Wins = append(next.Wins, record)
	next.PendingDiscard = nil

	e.logger.Info("玩家胡牌",
		"gameId", next.ID,
		"playerId", p.ID,
		"tile", tile.String(),
		"selfDrawn", selfDrawn,
		"fan", fan)

	if next.Rules.MaxWinners > 0 && next.WinnerCount() >= next.Rules.MaxWinners {
		next.Phase = core.PhaseEnded
		e.logger.Info("胡牌人数已满，游戏结束", "gameId", next.ID, "winners", next.WinnerCount())
		return next, nil
	}

	return e.drawFor(next, next.NextIndex(idx)), nil
}

// winFlags 根据局面推导胡牌时机
func (e *Engine) winFlags(s *core.GameState, idx int, selfDrawn bool, discard *core.DiscardedTile) WinFlags {
	p := s.Players[idx]
	flags := WinFlags{
		SelfDrawn:         selfDrawn,
		WonOnLastWallTile: len(s.Wall) == 0,
	}
	if selfDrawn {
		flags.WonAfterKongDraw = p.DrewFromKong
	} else if discard != nil {
		flags.WonAfterKongDraw = discard.AfterKong
	}

	if !p.HasWon && !s.HasAnyMeld() {
		if idx == s.DealerIndex {
			flags.WonImmediatelyAsDealer = selfDrawn && len(s.Discards) == 0 && p.Discarded == 0
		} else {
			flags.WonImmediatelyAsNonDealer = p.Discarded == 0
		}
	}
	return flags
}

func (e *Engine) declarePong(s *core.GameState, idx int, tile core.Tile, discarderID string) (*core.GameState, error) {
	player := s.Players[idx]
	if player.HasWon {
		return s, ErrHandLocked.WithContext("playerId", player.ID)
	}
	if _, err := claimedDiscard(s, player.ID, tile, discarderID); err != nil {
		return s, err
	}
	if core.CountTile(player.Hand, tile) < 2 {
		return s, ErrCannotPong.WithContext("tile", tile.String())
	}

	next := s.Clone()
	p := next.Players[idx]
	p.Hand = core.RemoveN(p.Hand, tile, 2)
	p.Melds = append(p.Melds, core.NewMeld(core.MeldPong, tile))
	p.LastDrawn = nil
	p.DrewFromKong = false
	next.PendingDiscard = nil
	next.CurrentPlayer = idx

	e.logger.Info("玩家碰牌", "gameId", next.ID, "playerId", p.ID, "tile", tile.String())
	return next, nil
}

func (e *Engine) declareExposedKong(s *core.GameState, idx int, tile core.Tile, discarderID string) (*core.GameState, error) {
	player := s.Players[idx]
	if player.HasWon {
		return s, ErrHandLocked.WithContext("playerId", player.ID)
	}
	d, err := claimedDiscard(s, player.ID, tile, discarderID)
	if err != nil {
		return s, err
	}
	if core.CountTile(player.Hand, tile) < 3 {
		return s, ErrCannotKong.WithContext("tile", tile.String())
	}
	if len(s.Wall) == 0 {
		return s, ErrDeckEmpty
	}

	next := s.Clone()
	p := next.Players[idx]
	p.Hand = core.RemoveN(p.Hand, tile, 3)
	p.Melds = append(p.Melds, core.NewMeld(core.MeldKongExposed, tile))
	next.PendingDiscard = nil

	if err := e.finishKong(next, idx, core.MeldKongExposed, next.GetPlayer(d.PlayerID)); err != nil {
		return s, err
	}
	return next, nil
}

func (e *Engine) declareConcealedKong(s *core.GameState, idx int, tile core.Tile) (*core.GameState, error) {
	player := s.Players[idx]
	if err := checkOwnTurnKong(s, idx, player); err != nil {
		return s, err
	}
	if core.CountTile(player.Hand, tile) < 4 {
		return s, ErrCannotKong.WithContext("tile", tile.String())
	}
	if len(s.Wall) == 0 {
		return s, ErrDeckEmpty
	}

	next := s.Clone()
	p := next.Players[idx]
	p.Hand = core.RemoveN(p.Hand, tile, 4)
	p.Melds = append(p.Melds, core.NewMeld(core.MeldKongConcealed, tile))

	if err := e.finishKong(next, idx, core.MeldKongConcealed, nil); err != nil {
		return s, err
	}
	return next, nil
}

func (e *Engine) declareUpgradeKong(s *core.GameState, idx int, tile core.Tile) (*core.GameState, error) {
	player := s.Players[idx]
	if err := checkOwnTurnKong(s, idx, player); err != nil {
		return s, err
	}
	meldIdx := player.PongIndex(tile)
	if meldIdx < 0 {
		return s, ErrNoPongToUpgrade.WithContext("tile", tile.String())
	}
	if !core.ContainsTile(player.Hand, tile) {
		return s, ErrCannotKong.WithContext("reason", "手牌中没有第四张")
	}
	if len(s.Wall) == 0 {
		return s, ErrDeckEmpty
	}

	next := s.Clone()
	p := next.Players[idx]
	p.Hand = core.RemoveTile(p.Hand, tile)
	p.Melds[meldIdx] = core.NewMeld(core.MeldKongUpgraded, tile)

	if err := e.finishKong(next, idx, core.MeldKongUpgraded, nil); err != nil {
		return s, err
	}
	return next, nil
}

// checkOwnTurnKong 暗杠和补杠只能在自己回合、没有等待响应的弃牌时进行
func checkOwnTurnKong(s *core.GameState, idx int, player *core.Player) error {
	if player.HasWon {
		return ErrHandLocked.WithContext("playerId", player.ID)
	}
	if idx != s.CurrentPlayer {
		return ErrNotYourTurn.WithContext("playerId", player.ID)
	}
	if s.PendingDiscard != nil {
		return ErrResponsePending
	}
	return nil
}

// finishKong 杠的结算、总分校验和补牌
func (e *Engine) finishKong(s *core.GameState, idx int, kind core.MeldKind, discarder *core.Player) error {
	claimant := s.Players[idx]
	settleKong(s, claimant, kind, discarder)
	if err := checkZeroSum(s); err != nil {
		e.logger.Error("杠结算后总分不守恒", "gameId", s.ID, "playerId", claimant.ID, "error", err)
		return err
	}
	drawReplacement(s, idx)

	e.logger.Info("玩家杠牌",
		"gameId", s.ID,
		"playerId", claimant.ID,
		"kind", kind.String(),
		"wallRemaining", len(s.Wall))
	return nil
}
