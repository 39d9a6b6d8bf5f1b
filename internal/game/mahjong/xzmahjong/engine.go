package xzmahjong

import (
	"log/slog"
	"math/rand/v2"

	"sudooom.im.xuezhan/internal/game/mahjong/core"
)

// Engine 血战到底规则引擎
// 所有操作都是 (状态, 请求) -> 新状态 的纯转换: 先校验后克隆再修改，
// 拒绝时原状态保持不变。引擎本身不加锁，同一局的并发请求由调用方串行化。
type Engine struct {
	rules       core.Rules
	deck        *DeckGenerator
	winningAlgo *WinningAlgorithm
	scorer      *Scorer
	logger      *slog.Logger
}

// Option 引擎选项
type Option func(*Engine)

// WithRand 指定洗牌随机源
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.deck = NewDeckGenerator(r)
	}
}

// WithLogger 指定日志
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine 创建引擎
func NewEngine(rules core.Rules, opts ...Option) *Engine {
	defaults := core.DefaultRules()
	if rules.StartingScore <= 0 {
		rules.StartingScore = defaults.StartingScore
	}
	if rules.BaseUnit <= 0 {
		rules.BaseUnit = defaults.BaseUnit
	}

	e := &Engine{
		rules:       rules,
		deck:        NewDeckGenerator(nil),
		winningAlgo: NewWinningAlgorithm(),
		scorer:      NewScorer(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules 引擎规则
func (e *Engine) Rules() core.Rules {
	return e.rules
}

// WinningAlgorithm 胡牌算法
func (e *Engine) WinningAlgorithm() *WinningAlgorithm {
	return e.winningAlgo
}

// Scorer 番数计算器
func (e *Engine) Scorer() *Scorer {
	return e.scorer
}
