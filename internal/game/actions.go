package game

import (
	"fmt"

	"sudooom.im.xuezhan/internal/game/mahjong/core"
	"sudooom.im.xuezhan/internal/game/mahjong/xzmahjong"
)

// 外部可提交的动作
const (
	ActionBury          = "bury"
	ActionDiscard       = "discard"
	ActionPong          = "pong"
	ActionKong          = "kong"
	ActionConcealedKong = "concealed_kong"
	ActionUpgradeKong   = "upgrade_kong"
	ActionHu            = "hu"
	ActionPass          = "pass"
)

// ActionRequest 玩家动作请求
// 响应弃牌时 Tiles 可以为空，默认取等待响应的弃牌
type ActionRequest struct {
	PlayerID string      `json:"playerId"`
	Action   string      `json:"action"`
	Tiles    []core.Tile `json:"tiles"`
}

func (r ActionRequest) singleTile() (core.Tile, error) {
	if len(r.Tiles) != 1 {
		return core.Tile{}, fmt.Errorf("%w: %s requires exactly one tile", ErrInvalidRequest, r.Action)
	}
	return r.Tiles[0], nil
}

// applyHuman 执行人类玩家的一个动作
func (svc *GameService) applyHuman(s *core.GameState, req ActionRequest) (*core.GameState, error) {
	switch req.Action {
	case ActionBury:
		return svc.engine.Bury(s, req.PlayerID, req.Tiles)

	case ActionDiscard:
		tile, err := req.singleTile()
		if err != nil {
			return s, err
		}
		// 响应由自动推进统一仲裁
		return svc.engine.Discard(s, req.PlayerID, tile, true)

	case ActionPass:
		if s.PendingDiscard == nil {
			return s, xzmahjong.ErrNoPendingDiscard
		}
		return svc.respond(s, core.NewResponse(req.PlayerID, core.ActionPass, s.PendingDiscard.Tile))

	case ActionPong, ActionKong, ActionHu:
		if s.PendingDiscard != nil && s.PendingDiscard.PlayerID != req.PlayerID {
			return svc.claim(s, req)
		}
		return svc.ownTurn(s, req)

	case ActionConcealedKong, ActionUpgradeKong:
		return svc.ownTurn(s, req)

	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
}

// claim 认领别人打出的牌，先单独校验，再与自动玩家的响应一起仲裁
func (svc *GameService) claim(s *core.GameState, req ActionRequest) (*core.GameState, error) {
	tile := s.PendingDiscard.Tile
	if len(req.Tiles) > 0 {
		tile = req.Tiles[0]
	}

	var action core.ActionKind
	switch req.Action {
	case ActionPong:
		action = core.ActionPong
	case ActionKong:
		action = core.ActionKongExposed
	default:
		action = core.ActionHu
	}

	if _, err := svc.engine.Declare(s, req.PlayerID, action, tile, s.PendingDiscard.PlayerID); err != nil {
		return s, err
	}
	return svc.respond(s, core.NewResponse(req.PlayerID, action, tile))
}

// ownTurn 自己回合的宣告: 自摸胡、暗杠、补杠
func (svc *GameService) ownTurn(s *core.GameState, req ActionRequest) (*core.GameState, error) {
	if req.Action == ActionPong {
		return s, xzmahjong.ErrNoPendingDiscard
	}

	player := s.GetPlayer(req.PlayerID)
	if player == nil {
		return s, fmt.Errorf("%w: %s", xzmahjong.ErrPlayerNotFound, req.PlayerID)
	}

	var tile core.Tile
	switch {
	case len(req.Tiles) > 0:
		tile = req.Tiles[0]
	case req.Action == ActionHu && player.LastDrawn != nil:
		tile = *player.LastDrawn
	case req.Action == ActionHu && len(s.Discards) == 0 && len(player.Hand) > 0:
		// 庄家起手
		tile = player.Hand[len(player.Hand)-1]
	default:
		return s, fmt.Errorf("%w: %s requires a tile", ErrInvalidRequest, req.Action)
	}

	var action core.ActionKind
	switch req.Action {
	case ActionHu:
		action = core.ActionHu
	case ActionConcealedKong:
		action = core.ActionKongConcealed
	case ActionUpgradeKong:
		action = core.ActionKongUpgrade
	default:
		// kong 未指明类型: 有碰过的同牌就补杠，否则暗杠
		action = core.ActionKongConcealed
		if player.PongIndex(tile) >= 0 {
			action = core.ActionKongUpgrade
		}
	}
	return svc.engine.Declare(s, req.PlayerID, action, tile, "")
}

// respond 以给定的人类响应加上自动玩家的响应仲裁等待中的弃牌
func (svc *GameService) respond(s *core.GameState, human core.Response) (*core.GameState, error) {
	d := s.PendingDiscard
	di := s.GetPlayerIndex(d.PlayerID)
	if di < 0 {
		return s, fmt.Errorf("%w: %s", xzmahjong.ErrPlayerNotFound, d.PlayerID)
	}

	n := len(s.Players)
	responses := make([]core.Response, 0, n-1)
	for off := 1; off < n; off++ {
		p := s.Players[(di+off)%n]
		if p.ID == human.PlayerID {
			responses = append(responses, human)
			continue
		}
		responses = append(responses, svc.policy.ChooseResponse(p, d.Tile, s))
	}
	return svc.engine.ResolveResponses(s, responses, d.PlayerID)
}

// AvailableActions 玩家当前可以提交的动作
func (svc *GameService) AvailableActions(s *core.GameState, playerID string) []string {
	idx := s.GetPlayerIndex(playerID)
	if idx < 0 {
		return nil
	}
	player := s.Players[idx]
	algo := svc.engine.WinningAlgorithm()

	switch s.Phase {
	case core.PhaseBurying:
		if !player.HasMissingSuit() {
			return []string{ActionBury}
		}
		return nil

	case core.PhasePlaying:
		if d := s.PendingDiscard; d != nil {
			if d.PlayerID == playerID {
				return nil
			}
			var actions []string
			t := d.Tile
			if algo.CanWin(player, &t) {
				actions = append(actions, ActionHu)
			}
			if !player.HasWon {
				n := core.CountTile(player.Hand, t)
				if n >= 3 && len(s.Wall) > 0 {
					actions = append(actions, ActionKong)
				}
				if n >= 2 {
					actions = append(actions, ActionPong)
				}
			}
			if len(actions) == 0 {
				return nil
			}
			return append(actions, ActionPass)
		}

		if idx != s.CurrentPlayer {
			return nil
		}
		var actions []string
		if algo.CanWin(player, nil) && (player.LastDrawn != nil || (idx == s.DealerIndex && len(s.Discards) == 0)) {
			actions = append(actions, ActionHu)
		}
		if !player.HasWon && len(s.Wall) > 0 {
			concealed, upgrade := false, false
			for _, t := range core.GetUniqueTiles(player.Hand) {
				if core.CountTile(player.Hand, t) == 4 {
					concealed = true
				}
				if player.PongIndex(t) >= 0 {
					upgrade = true
				}
			}
			if concealed {
				actions = append(actions, ActionConcealedKong)
			}
			if upgrade {
				actions = append(actions, ActionUpgradeKong)
			}
		}
		return append(actions, ActionDiscard)
	}
	return nil
}
