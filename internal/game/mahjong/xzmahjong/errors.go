package xzmahjong

import (
	"errors"
	"fmt"
)

// GameError 可恢复的拒绝错误，状态保持不变
type GameError struct {
	Code    string         // 错误代码
	Message string         // 错误消息
	Context map[string]any // 错误上下文
}

func (e *GameError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is 按错误代码匹配，使 errors.Is 能识别带上下文的副本
func (e *GameError) Is(target error) bool {
	var t *GameError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NewGameError 创建游戏错误
func NewGameError(code, message string) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
	}
}

// WithContext 返回带上下文的副本，不修改预定义错误
func (e *GameError) WithContext(key string, value any) *GameError {
	c := e.copy()
	c.Context[key] = value
	return c
}

func (e *GameError) copy() *GameError {
	c := &GameError{
		Code:    e.Code,
		Message: e.Message,
		Context: make(map[string]any, len(e.Context)+1),
	}
	for k, v := range e.Context {
		c.Context[k] = v
	}
	return c
}

// 阶段与回合
var (
	ErrInvalidGamePhase = NewGameError("INVALID_GAME_PHASE", "当前游戏阶段不允许此操作")
	ErrNotYourTurn      = NewGameError("NOT_YOUR_TURN", "还没有轮到该玩家")
	ErrResponsePending  = NewGameError("RESPONSE_PENDING", "有弃牌等待响应")
	ErrNoPendingDiscard = NewGameError("NO_PENDING_DISCARD", "没有等待响应的弃牌")
	ErrInvalidPlayers   = NewGameError("INVALID_PLAYERS", "一局必须恰好有 4 名不同的玩家")
)

// 埋牌
var (
	ErrInvalidBury   = NewGameError("INVALID_BURY", "必须埋同一花色的 3 张牌")
	ErrAlreadyBuried = NewGameError("ALREADY_BURIED", "玩家已经埋过牌")
)

// 出牌
var (
	ErrTileNotInHand    = NewGameError("TILE_NOT_IN_HAND", "手牌中没有指定的牌")
	ErrMissingSuitFirst = NewGameError("MISSING_SUIT_FIRST", "必须先打完缺门的牌")
	ErrMustDiscardDrawn = NewGameError("MUST_DISCARD_DRAWN", "已胡玩家必须打出刚摸的牌")
)

// 宣告
var (
	ErrCannotWin       = NewGameError("CANNOT_WIN", "不能胡: 手牌不成胡")
	ErrCannotPong      = NewGameError("CANNOT_PONG", "不能碰: 相同的牌不足")
	ErrCannotKong      = NewGameError("CANNOT_KONG", "不能杠: 相同的牌不足")
	ErrNoPongToUpgrade = NewGameError("NO_PONG_TO_UPGRADE", "不能补杠: 没有对应的碰")
	ErrHandLocked      = NewGameError("HAND_LOCKED", "已胡玩家手牌已锁定，不能碰杠")
	ErrDeckEmpty       = NewGameError("DECK_EMPTY", "不能杠: 牌墙已空")
	ErrOwnDiscard      = NewGameError("OWN_DISCARD", "不能响应自己打出的牌")
	ErrNoDiscarder     = NewGameError("NO_DISCARDER", "弃牌者与等待响应的弃牌不一致")
	ErrTileMismatch    = NewGameError("TILE_MISMATCH", "响应的牌与弃牌不一致")
	ErrUnknownAction   = NewGameError("UNKNOWN_ACTION", "不支持的动作类型")
)

// IsRejection 是否是可恢复的拒绝错误
func IsRejection(err error) bool {
	var ge *GameError
	return errors.As(err, &ge)
}

// InternalFault 引擎内部故障，不是玩家操作错误
type InternalFault struct {
	Code    string
	Message string
}

func (f *InternalFault) Error() string {
	return fmt.Sprintf("内部故障 [%s] %s", f.Code, f.Message)
}

// Is 按代码匹配
func (f *InternalFault) Is(target error) bool {
	var t *InternalFault
	if errors.As(target, &t) {
		return t.Code == f.Code
	}
	return false
}

// 内部故障
var (
	ErrPlayerNotFound  = &InternalFault{Code: "PLAYER_NOT_FOUND", Message: "玩家不存在"}
	ErrZeroSumViolated = &InternalFault{Code: "ZERO_SUM_VIOLATED", Message: "分数总和不守恒"}
)

// IsFault 是否是内部故障
func IsFault(err error) bool {
	var f *InternalFault
	return errors.As(err, &f)
}

func playerNotFound(playerID string) error {
	return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
}
