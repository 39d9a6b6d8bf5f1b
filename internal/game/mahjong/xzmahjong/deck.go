package xzmahjong

import (
	"math/rand/v2"

	"sudooom.im.xuezhan/internal/game/mahjong/core"
)

const (
	// 每种牌的张数
	CopiesPerTile = 4
	// 总牌数 3 门 x 9 点 x 4 张
	WallSize = 108
	// 庄家起手张数
	DealerHandSize = 14
	// 闲家起手张数
	HandSize = 13
	// 埋牌张数
	BuryCount = 3
	// 座位数
	PlayerCount = 4
)

// DeckGenerator 牌墙生成器
type DeckGenerator struct {
	rng *rand.Rand
}

// NewDeckGenerator 创建牌墙生成器，rng 为空时使用全局随机源
func NewDeckGenerator(rng *rand.Rand) *DeckGenerator {
	return &DeckGenerator{rng: rng}
}

// GenerateDeck 生成 108 张牌
func (d *DeckGenerator) GenerateDeck() []core.Tile {
	deck := make([]core.Tile, 0, WallSize)
	for _, suit := range core.Suits {
		for rank := 1; rank <= 9; rank++ {
			for i := 0; i < CopiesPerTile; i++ {
				deck = append(deck, core.MustTile(suit, rank))
			}
		}
	}
	return deck
}

// Shuffle 洗牌
func (d *DeckGenerator) Shuffle(tiles []core.Tile) {
	swap := func(i, j int) { tiles[i], tiles[j] = tiles[j], tiles[i] }
	if d.rng != nil {
		d.rng.Shuffle(len(tiles), swap)
		return
	}
	rand.Shuffle(len(tiles), swap)
}

// Deal 发牌: 庄家 14 张，其余 13 张，从牌墙头部依次发
func (d *DeckGenerator) Deal(tiles []core.Tile, playerCount int, dealerIndex int) (hands map[int][]core.Tile, remaining []core.Tile) {
	hands = make(map[int][]core.Tile, playerCount)
	offset := 0
	for i := 0; i < playerCount; i++ {
		n := HandSize
		if i == dealerIndex {
			n = DealerHandSize
		}
		hands[i] = core.CloneTiles(tiles[offset : offset+n])
		offset += n
	}
	return hands, core.CloneTiles(tiles[offset:])
}
