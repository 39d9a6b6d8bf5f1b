package game

import (
	"fmt"

	"sudooom.im.xuezhan/internal/game/mahjong/core"
	"sudooom.im.xuezhan/internal/game/mahjong/xzmahjong"
)

// autoplay 推进自动玩家，直到轮到人类玩家行动、人类可以响应弃牌或游戏结束
func (svc *GameService) autoplay(humanID string) func(*core.GameState) (*core.GameState, error) {
	return func(s *core.GameState) (*core.GameState, error) {
		for step := 0; step < svc.maxAutoSteps; step++ {
			next, done, err := svc.autoStep(s, humanID)
			if err != nil {
				return s, err
			}
			if done {
				return next, nil
			}
			s = next
		}
		return s, fmt.Errorf("%w: %d", ErrAutoStepsExceeded, svc.maxAutoSteps)
	}
}

// autoStep 执行一步，done 表示需要等待人类玩家
func (svc *GameService) autoStep(s *core.GameState, humanID string) (next *core.GameState, done bool, err error) {
	switch s.Phase {
	case core.PhaseBurying:
		for _, p := range s.Players {
			if p.ID == humanID || p.HasMissingSuit() {
				continue
			}
			next, err := svc.engine.Bury(s, p.ID, svc.policy.ChooseBury(p))
			return next, false, err
		}
		return s, true, nil

	case core.PhasePlaying:
		if d := s.PendingDiscard; d != nil {
			if d.PlayerID != humanID {
				if human := s.GetPlayer(humanID); human != nil &&
					svc.engine.ResponseFor(s, human, d.Tile).Action != core.ActionPass {
					return s, true, nil
				}
			}
			next, err := svc.respond(s, core.NewResponse(humanID, core.ActionPass, d.Tile))
			return next, false, err
		}

		current := s.GetCurrentPlayer()
		if current == nil || current.ID == humanID {
			return s, true, nil
		}
		next, err := svc.automatedTurn(s, current)
		return next, false, err

	default:
		return s, true, nil
	}
}

// automatedTurn 自动玩家的回合: 先尝试宣告，否则出牌
func (svc *GameService) automatedTurn(s *core.GameState, player *core.Player) (*core.GameState, error) {
	if action, tile := svc.policy.ChooseTurn(player, s); action != core.ActionPass {
		next, err := svc.engine.Declare(s, player.ID, action, tile, "")
		if err == nil {
			return next, nil
		}
		if xzmahjong.IsFault(err) {
			return s, err
		}
		svc.logger.Warn("Automated declaration rejected, discarding instead",
			"gameId", s.ID,
			"playerId", player.ID,
			"action", action.String(),
			"error", err)
	}

	tile := svc.policy.ChooseDiscard(player, s)
	return svc.engine.Discard(s, player.ID, tile, true)
}
