package policy

import (
	"math/rand/v2"

	"sudooom.im.xuezhan/internal/game/mahjong/core"
	"sudooom.im.xuezhan/internal/game/mahjong/xzmahjong"
)

// Policy 自动玩家的决策接口
// 人类玩家和自动玩家在响应仲裁中可以互换
type Policy interface {
	// ChooseBury 选择埋牌的三张牌
	ChooseBury(player *core.Player) []core.Tile
	// ChooseTurn 自己回合的宣告: 自摸胡、暗杠、补杠；返回 ActionPass 表示出牌
	ChooseTurn(player *core.Player, s *core.GameState) (core.ActionKind, core.Tile)
	// ChooseDiscard 选择要打出的牌
	ChooseDiscard(player *core.Player, s *core.GameState) core.Tile
	// ChooseResponse 对别人打出的牌做出响应
	ChooseResponse(player *core.Player, tile core.Tile, s *core.GameState) core.Response
}

// Heuristic 按优先级的简单策略
//   - 埋牌: 最少且不少于三张的花色
//   - 出牌: 已胡必打刚摸的牌 > 缺门牌 > 孤张 > 随机
//   - 响应: 胡 > 杠 > 碰 > 过
type Heuristic struct {
	winningAlgo *xzmahjong.WinningAlgorithm
	rng         *rand.Rand
}

var _ Policy = (*Heuristic)(nil)

// NewHeuristic 创建策略，rng 为空时使用全局随机源
func NewHeuristic(rng *rand.Rand) *Heuristic {
	return &Heuristic{
		winningAlgo: xzmahjong.NewWinningAlgorithm(),
		rng:         rng,
	}
}

// ChooseBury 选择张数最少 (但至少三张) 的花色，取手牌中的前三张
func (h *Heuristic) ChooseBury(player *core.Player) []core.Tile {
	groups := core.GroupBySuit(player.Hand)

	best := core.SuitNone
	for _, suit := range core.Suits {
		n := len(groups[suit])
		if n < xzmahjong.BuryCount {
			continue
		}
		if best == core.SuitNone || n < len(groups[best]) {
			best = suit
		}
	}
	if best == core.SuitNone {
		return nil
	}
	return core.CloneTiles(groups[best][:xzmahjong.BuryCount])
}

// ChooseTurn 能自摸就胡，否则有四张就暗杠，有碰过的牌就补杠
func (h *Heuristic) ChooseTurn(player *core.Player, s *core.GameState) (core.ActionKind, core.Tile) {
	if h.winningAlgo.CanWin(player, nil) {
		if player.LastDrawn != nil {
			return core.ActionHu, *player.LastDrawn
		}
		// 庄家起手
		if len(s.Discards) == 0 && len(player.Hand) > 0 {
			return core.ActionHu, player.Hand[len(player.Hand)-1]
		}
	}
	if player.HasWon || len(s.Wall) == 0 {
		return core.ActionPass, core.Tile{}
	}

	for _, t := range core.GetUniqueTiles(player.Hand) {
		if t.Suit == player.MissingSuit {
			continue
		}
		if core.CountTile(player.Hand, t) == 4 {
			return core.ActionKongConcealed, t
		}
		if player.PongIndex(t) >= 0 {
			return core.ActionKongUpgrade, t
		}
	}
	return core.ActionPass, core.Tile{}
}

// ChooseDiscard 选择要打出的牌
func (h *Heuristic) ChooseDiscard(player *core.Player, s *core.GameState) core.Tile {
	if player.HasWon && player.LastDrawn != nil {
		return *player.LastDrawn
	}

	if player.HasMissingSuit() {
		for _, t := range player.Hand {
			if t.Suit == player.MissingSuit {
				return t
			}
		}
	}

	// 孤张: 同花色没有相邻点数
	for _, t := range player.Hand {
		if !hasNeighbor(player.Hand, t) {
			return t
		}
	}

	return player.Hand[h.intN(len(player.Hand))]
}

func hasNeighbor(hand []core.Tile, tile core.Tile) bool {
	for _, t := range hand {
		if t.Suit == tile.Suit && (t.Rank == tile.Rank-1 || t.Rank == tile.Rank+1) {
			return true
		}
	}
	return false
}

func (h *Heuristic) intN(n int) int {
	if h.rng != nil {
		return h.rng.IntN(n)
	}
	return rand.IntN(n)
}

// ChooseResponse 胡 > 杠 > 碰 > 过，不碰杠缺门的牌
func (h *Heuristic) ChooseResponse(player *core.Player, tile core.Tile, s *core.GameState) core.Response {
	t := tile
	if h.winningAlgo.CanWin(player, &t) {
		return core.NewResponse(player.ID, core.ActionHu, tile)
	}
	if player.HasWon || tile.Suit == player.MissingSuit {
		return core.NewResponse(player.ID, core.ActionPass, tile)
	}

	switch n := core.CountTile(player.Hand, tile); {
	case n == 3 && len(s.Wall) > 0:
		return core.NewResponse(player.ID, core.ActionKongExposed, tile)
	case n >= 2:
		return core.NewResponse(player.ID, core.ActionPong, tile)
	}
	return core.NewResponse(player.ID, core.ActionPass, tile)
}
