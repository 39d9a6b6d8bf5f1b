package xzmahjong

import (
	"sudooom.im.xuezhan/internal/game/mahjong/core"
)

// 番型
const (
	FanBase         = 1 // 平胡
	FanImmediate    = 5 // 天胡 / 地胡
	FanPureSingle   = 4 // 清金钩钓
	FanSingleWait   = 1 // 金钩钓
	FanPureTriplets = 3 // 清对
	FanAllTriplets  = 1 // 对对胡
	FanPureSuit     = 2 // 清一色
)

// WinFlags 胡牌时机
type WinFlags struct {
	SelfDrawn                 bool // 自摸
	WonAfterKongDraw          bool // 杠上花 / 杠上炮
	WonOnLastWallTile         bool // 海底
	WonImmediatelyAsDealer    bool // 天胡
	WonImmediatelyAsNonDealer bool // 地胡
}

// Scorer 番数计算
type Scorer struct{}

// NewScorer 创建番数计算器
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score 计算胡牌番数，即每家应付的分数
// 牌型档位互斥取最高，根、门清、自摸、杠上、海底各自叠加
func (s *Scorer) Score(player *core.Player, extra *core.Tile, flags WinFlags) int {
	all := gatherTiles(player, extra)
	counts := countTiles(all)

	total := FanBase
	total += tierBonus(player, extra, counts, all, flags)

	// 根
	for suit := 0; suit < 3; suit++ {
		for rank := 1; rank <= 9; rank++ {
			if counts[suit][rank] == 4 {
				total++
			}
		}
	}

	// 门清
	if player.IsFullyConcealed() {
		total++
	}

	if flags.SelfDrawn {
		total++
	}
	if flags.WonAfterKongDraw {
		total++
	}
	if flags.WonOnLastWallTile {
		total++
	}

	return total
}

func tierBonus(player *core.Player, extra *core.Tile, counts tileCounts, all []core.Tile, flags WinFlags) int {
	if flags.WonImmediatelyAsDealer || flags.WonImmediatelyAsNonDealer {
		return FanImmediate
	}

	allSets := pairThenGroups(counts, false)
	pure := len(core.SuitSet(all)) == 1

	if allSets {
		if isSingleWait(player, extra) {
			if pure {
				return FanPureSingle
			}
			return FanSingleWait
		}
		if pure {
			return FanPureTriplets
		}
		return FanAllTriplets
	}
	if pure {
		return FanPureSuit
	}
	return 0
}

// isSingleWait 手中只剩一张牌单钓 (含胡的那张共两张)
func isSingleWait(player *core.Player, extra *core.Tile) bool {
	n := len(player.Hand)
	if extra != nil {
		n++
	}
	return n == 2
}
