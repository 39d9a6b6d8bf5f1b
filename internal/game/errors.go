package game

import "errors"

// 游戏托管层错误定义

var (
	// ErrGameNotFound 游戏不存在
	ErrGameNotFound = errors.New("game not found")

	// ErrTooManyGames 游戏数达到上限
	ErrTooManyGames = errors.New("too many active games")

	// ErrUnknownAction 不支持的动作
	ErrUnknownAction = errors.New("unknown action")

	// ErrInvalidRequest 请求参数不合法
	ErrInvalidRequest = errors.New("invalid request")

	// ErrRecordNotFound 对局记录不存在
	ErrRecordNotFound = errors.New("game record not found")

	// ErrSnapshotNotFound 快照不存在
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrAutoStepsExceeded 自动玩家步数超过上限
	ErrAutoStepsExceeded = errors.New("automated turns exceeded step limit")
)
