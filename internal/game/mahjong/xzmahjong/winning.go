package xzmahjong

import (
	"sudooom.im.xuezhan/internal/game/mahjong/core"
)

// tileCounts 按 (花色, 点数) 计数，下标 0 不用
type tileCounts [3][10]int

func countTiles(tiles []core.Tile) tileCounts {
	var c tileCounts
	for _, t := range tiles {
		c[t.Suit][t.Rank]++
	}
	return c
}

// first 按规范顺序返回第一张剩余的牌
func (c *tileCounts) first() (suit, rank int, ok bool) {
	for s := 0; s < 3; s++ {
		for r := 1; r <= 9; r++ {
			if c[s][r] > 0 {
				return s, r, true
			}
		}
	}
	return 0, 0, false
}

// WinningAlgorithm 血战麻将胡牌算法
type WinningAlgorithm struct{}

// NewWinningAlgorithm 创建胡牌算法
func NewWinningAlgorithm() *WinningAlgorithm {
	return &WinningAlgorithm{}
}

// IsWinning 判断牌组是否胡牌: 不含缺门、最多两门、一对将加若干面子
func (w *WinningAlgorithm) IsWinning(tiles []core.Tile, missingSuit core.Suit) bool {
	if missingSuit != core.SuitNone {
		for _, t := range tiles {
			if t.Suit == missingSuit {
				return false
			}
		}
	}

	if len(core.SuitSet(tiles)) > 2 {
		return false
	}

	return pairThenGroups(countTiles(tiles), true)
}

// CanWin 玩家手牌加副露，再加上可选的外来牌，是否胡牌
func (w *WinningAlgorithm) CanWin(player *core.Player, extra *core.Tile) bool {
	return w.IsWinning(gatherTiles(player, extra), player.MissingSuit)
}

// gatherTiles 手牌 + 副露 + 外来牌
func gatherTiles(player *core.Player, extra *core.Tile) []core.Tile {
	all := player.AllTiles()
	if extra != nil {
		all = append(all, *extra)
	}
	return all
}

// pairThenGroups 依次尝试每种对子作将，剩余牌全部组成面子
func pairThenGroups(c tileCounts, allowSequences bool) bool {
	for s := 0; s < 3; s++ {
		for r := 1; r <= 9; r++ {
			if c[s][r] < 2 {
				continue
			}
			rest := c
			rest[s][r] -= 2
			if formGroups(rest, allowSequences) {
				return true
			}
		}
	}
	return false
}

// formGroups 回溯拆分面子: 取最小的牌，依次尝试杠、刻、顺
func formGroups(c tileCounts, allowSequences bool) bool {
	s, r, ok := c.first()
	if !ok {
		return true
	}

	if c[s][r] >= 4 {
		rest := c
		rest[s][r] -= 4
		if formGroups(rest, allowSequences) {
			return true
		}
	}

	if c[s][r] >= 3 {
		rest := c
		rest[s][r] -= 3
		if formGroups(rest, allowSequences) {
			return true
		}
	}

	if allowSequences && r <= 7 && c[s][r+1] > 0 && c[s][r+2] > 0 {
		rest := c
		rest[s][r]--
		rest[s][r+1]--
		rest[s][r+2]--
		if formGroups(rest, allowSequences) {
			return true
		}
	}

	return false
}
