package snowflake

import (
	"fmt"
	"strconv"
	"sync"
	"time"
)

const (
	// 起始时间戳 (2024-01-01 00:00:00 UTC)
	epoch int64 = 1704067200000

	// 位数分配
	nodeBits     = 10
	sequenceBits = 12

	// 最大值
	maxNodeID   = -1 ^ (-1 << nodeBits)
	maxSequence = -1 ^ (-1 << sequenceBits)

	// 位移
	nodeShift      = sequenceBits
	timestampShift = nodeBits + sequenceBits
)

// ID 雪花ID
type ID int64

// String 转换为字符串
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Node 返回生成该ID的节点
func (id ID) Node() int64 {
	return (int64(id) >> nodeShift) & maxNodeID
}

// Time 返回ID中的毫秒时间
func (id ID) Time() time.Time {
	return time.UnixMilli((int64(id) >> timestampShift) + epoch)
}

// Node 雪花ID生成器节点，作为对局ID生成器
type Node struct {
	mu       sync.Mutex
	nodeID   int64
	sequence int64
	lastTime int64
	now      func() int64
}

// NewNode 创建雪花ID生成器
func NewNode(nodeID int64) (*Node, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("node id must be between 0 and %d, got %d", maxNodeID, nodeID)
	}
	return &Node{
		nodeID: nodeID,
		now:    func() int64 { return time.Now().UnixMilli() },
	}, nil
}

// Generate 生成雪花ID
func (n *Node) Generate() ID {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()

	// 时钟回拨时沿用上一次的时间
	if now < n.lastTime {
		now = n.lastTime
	}

	if now == n.lastTime {
		n.sequence = (n.sequence + 1) & maxSequence
		if n.sequence == 0 {
			// 序号用尽，等待下一毫秒
			for now <= n.lastTime {
				now = n.now()
			}
		}
	} else {
		n.sequence = 0
	}

	n.lastTime = now

	id := ((now - epoch) << timestampShift) |
		(n.nodeID << nodeShift) |
		n.sequence

	return ID(id)
}

// NextID 生成字符串形式的ID
func (n *Node) NextID() string {
	return n.Generate().String()
}
