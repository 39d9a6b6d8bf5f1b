package xzmahjong

import (
	"sudooom.im.xuezhan/internal/game/mahjong/core"
)

// ResponseFor 玩家对一张弃牌能做出的最高优先级响应
// 已胡玩家手牌锁定，只能胡或过；牌墙为空时不提供杠
func (e *Engine) ResponseFor(s *core.GameState, player *core.Player, tile core.Tile) core.Response {
	t := tile
	if e.winningAlgo.CanWin(player, &t) {
		return core.NewResponse(player.ID, core.ActionHu, tile)
	}
	if !player.HasWon {
		n := core.CountTile(player.Hand, tile)
		if n >= 3 && len(s.Wall) > 0 {
			return core.NewResponse(player.ID, core.ActionKongExposed, tile)
		}
		if n >= 2 {
			return core.NewResponse(player.ID, core.ActionPong, tile)
		}
	}
	return core.NewResponse(player.ID, core.ActionPass, tile)
}

// CollectResponses 收集除打牌者以外每个玩家的候选响应
// 顺序从打牌者的下家开始
func (e *Engine) CollectResponses(s *core.GameState, tile core.Tile, discarderID string) ([]core.Response, error) {
	di := s.GetPlayerIndex(discarderID)
	if di < 0 {
		return nil, playerNotFound(discarderID)
	}

	n := len(s.Players)
	responses := make([]core.Response, 0, n-1)
	for off := 1; off < n; off++ {
		p := s.Players[(di+off)%n]
		responses = append(responses, e.ResponseFor(s, p, tile))
	}
	return responses, nil
}

// ResolveResponses 仲裁响应: 取优先级最高者，同优先级取离打牌者最近的下家
// 全部过时由打牌者的下家摸牌
func (e *Engine) ResolveResponses(s *core.GameState, responses []core.Response, discarderID string) (*core.GameState, error) {
	if s.Phase != core.PhasePlaying {
		return s, ErrInvalidGamePhase.WithContext("phase", s.Phase.String())
	}
	d := s.PendingDiscard
	if d == nil {
		return s, ErrNoPendingDiscard
	}
	if discarderID != d.PlayerID {
		return s, ErrNoDiscarder.WithContext("discarderId", discarderID)
	}
	di := s.GetPlayerIndex(discarderID)
	if di < 0 {
		return s, playerNotFound(discarderID)
	}

	n := len(s.Players)
	var best *core.Response
	bestDist := n
	for i := range responses {
		r := &responses[i]
		idx := s.GetPlayerIndex(r.PlayerID)
		if idx < 0 {
			return s, playerNotFound(r.PlayerID)
		}
		if idx == di {
			return s, ErrOwnDiscard
		}
		if !r.TargetTile.Equal(d.Tile) {
			return s, ErrTileMismatch.WithContext("tile", r.TargetTile.String())
		}

		dist := (idx - di + n) % n
		prio := r.Action.Priority()
		if best == nil || prio > best.Action.Priority() || (prio == best.Action.Priority() && dist < bestDist) {
			best = r
			bestDist = dist
		}
	}

	if best == nil || best.Action.Priority() == core.PriorityPass {
		next := s.Clone()
		return e.drawFor(next, next.NextIndex(di)), nil
	}

	e.logger.Info("响应仲裁",
		"gameId", s.ID,
		"playerId", best.PlayerID,
		"action", best.Action.String(),
		"tile", d.Tile.String())
	return e.Declare(s, best.PlayerID, best.Action, d.Tile, discarderID)
}
