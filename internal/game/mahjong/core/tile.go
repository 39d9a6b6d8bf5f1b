package core

import "sort"

// SortTiles 对牌进行排序
func SortTiles(tiles []Tile) {
	sort.Slice(tiles, func(i, j int) bool {
		return tiles[i].Less(tiles[j])
	})
}

// CountTile 统计某张牌的数量
func CountTile(tiles []Tile, target Tile) int {
	count := 0
	for _, t := range tiles {
		if t.Equal(target) {
			count++
		}
	}
	return count
}

// RemoveTile 移除一张牌，返回新切片，不修改原切片
func RemoveTile(tiles []Tile, target Tile) []Tile {
	for i, t := range tiles {
		if t.Equal(target) {
			result := make([]Tile, 0, len(tiles)-1)
			result = append(result, tiles[:i]...)
			return append(result, tiles[i+1:]...)
		}
	}
	return CloneTiles(tiles)
}

// RemoveN 移除 n 张相同的牌
func RemoveN(tiles []Tile, target Tile, n int) []Tile {
	result := CloneTiles(tiles)
	for i := 0; i < n; i++ {
		result = RemoveTile(result, target)
	}
	return result
}

// RemoveTiles 从牌组中移除多张牌
func RemoveTiles(tiles []Tile, targets []Tile) []Tile {
	result := CloneTiles(tiles)
	for _, target := range targets {
		result = RemoveTile(result, target)
	}
	return result
}

// ContainsTile 检查牌组是否包含某张牌
func ContainsTile(tiles []Tile, target Tile) bool {
	for _, t := range tiles {
		if t.Equal(target) {
			return true
		}
	}
	return false
}

// ContainsTiles 检查牌组是否包含多张牌 (按多重集合计数)
func ContainsTiles(tiles []Tile, targets []Tile) bool {
	counts := CountMap(tiles)
	for _, target := range targets {
		if counts[target] == 0 {
			return false
		}
		counts[target]--
	}
	return true
}

// CloneTiles 克隆牌组
func CloneTiles(tiles []Tile) []Tile {
	if tiles == nil {
		return nil
	}
	result := make([]Tile, len(tiles))
	copy(result, tiles)
	return result
}

// CountMap 按牌面计数
func CountMap(tiles []Tile) map[Tile]int {
	counts := make(map[Tile]int, len(tiles))
	for _, t := range tiles {
		counts[t]++
	}
	return counts
}

// SuitSet 出现过的花色
func SuitSet(tiles []Tile) map[Suit]bool {
	suits := make(map[Suit]bool, 3)
	for _, t := range tiles {
		suits[t.Suit] = true
	}
	return suits
}

// GroupBySuit 按花色分组
func GroupBySuit(tiles []Tile) map[Suit][]Tile {
	groups := make(map[Suit][]Tile)
	for _, t := range tiles {
		groups[t.Suit] = append(groups[t.Suit], t)
	}
	return groups
}

// GetUniqueTiles 获取去重后的牌，按规范顺序
func GetUniqueTiles(tiles []Tile) []Tile {
	seen := make(map[Tile]bool)
	result := []Tile{}

	for _, t := range tiles {
		if !seen[t] {
			seen[t] = true
			result = append(result, t)
		}
	}
	SortTiles(result)
	return result
}
