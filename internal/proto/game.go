package proto

import (
	"sudooom.im.xuezhan/internal/game"
	"sudooom.im.xuezhan/internal/game/mahjong/view"
)

// 请求操作类型
const (
	OpCreate = "create"
	OpView   = "view"
	OpAction = "action"
	OpEnd    = "end"
	OpRecord = "record" // 查询已结束对局的记录
)

// GameRequest 游戏请求 (NATS request/reply)
type GameRequest struct {
	ReqID     string          `json:"reqId,omitempty"`
	Op        string          `json:"op"`
	GameID    string          `json:"gameId,omitempty"`
	PlayerID  string          `json:"playerId,omitempty"`
	PlayerIDs []string        `json:"playerIds,omitempty"` // create: 为空时人类加三个自动玩家
	HumanID   string          `json:"humanId,omitempty"`   // create
	Action    string          `json:"action,omitempty"`    // action
	Tiles     []view.TileView `json:"tiles,omitempty"`     // action
}

// 错误码
const (
	CodeBadRequest     = "BAD_REQUEST"
	CodeGameNotFound   = "GAME_NOT_FOUND"
	CodeRecordNotFound = "RECORD_NOT_FOUND"
	CodeTooManyGames   = "TOO_MANY_GAMES"
	CodeUnknownAction  = "UNKNOWN_ACTION"
	CodeInternal       = "INTERNAL"
)

// GameReply 游戏响应
// 被拒绝的动作 Code 为引擎错误码，例如 NOT_YOUR_TURN
type GameReply struct {
	ReqID  string         `json:"reqId,omitempty"`
	OK     bool           `json:"ok"`
	Code   string         `json:"code,omitempty"`
	Error  string         `json:"error,omitempty"`
	View   *view.GameView `json:"view,omitempty"`
	Record *game.Record   `json:"record,omitempty"`
}
