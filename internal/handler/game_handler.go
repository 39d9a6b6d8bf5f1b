package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sudooom.im.xuezhan/internal/game"
	"sudooom.im.xuezhan/internal/game/mahjong/view"
	"sudooom.im.xuezhan/internal/game/mahjong/xzmahjong"
	"sudooom.im.xuezhan/internal/proto"
)

// GameHandler 游戏请求处理器
type GameHandler struct {
	gameService *game.GameService
	logger      *slog.Logger
}

// NewGameHandler 创建游戏请求处理器
func NewGameHandler(gameService *game.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		logger:      slog.Default(),
	}
}

// HandleGameRequest 处理游戏请求
func (h *GameHandler) HandleGameRequest(ctx context.Context, req *proto.GameRequest) *proto.GameReply {
	h.logger.Info("Game request received",
		"reqId", req.ReqID,
		"op", req.Op,
		"gameId", req.GameID,
		"playerId", req.PlayerID,
		"action", req.Action)

	reply, err := h.dispatch(ctx, req)
	if err != nil {
		reply := errorReply(err)
		reply.ReqID = req.ReqID
		if reply.Code == proto.CodeInternal {
			h.logger.Error("Game request failed", "reqId", req.ReqID, "gameId", req.GameID, "error", err)
		}
		return reply
	}
	reply.ReqID = req.ReqID
	reply.OK = true
	return reply
}

func (h *GameHandler) dispatch(ctx context.Context, req *proto.GameRequest) (*proto.GameReply, error) {
	var (
		v   *view.GameView
		err error
	)
	switch req.Op {
	case proto.OpCreate:
		v, err = h.gameService.CreateGame(ctx, req.PlayerIDs, req.HumanID)
	case proto.OpView:
		v, err = h.gameService.GetView(ctx, req.GameID, req.PlayerID)
	case proto.OpAction:
		tiles, terr := view.ToTiles(req.Tiles)
		if terr != nil {
			return nil, fmt.Errorf("%w: %w", game.ErrInvalidRequest, terr)
		}
		v, err = h.gameService.SubmitAction(ctx, req.GameID, game.ActionRequest{
			PlayerID: req.PlayerID,
			Action:   req.Action,
			Tiles:    tiles,
		})
	case proto.OpEnd:
		v, err = h.gameService.EndGame(ctx, req.GameID)
	case proto.OpRecord:
		record, rerr := h.gameService.GetRecord(ctx, req.GameID)
		if rerr != nil {
			return nil, rerr
		}
		return &proto.GameReply{Record: record}, nil
	default:
		return nil, fmt.Errorf("%w: unknown op %q", game.ErrInvalidRequest, req.Op)
	}
	if err != nil {
		return nil, err
	}
	return &proto.GameReply{View: v}, nil
}

// errorReply 错误映射为响应码
// 引擎拒绝沿用引擎错误码，内部故障统一为 INTERNAL
func errorReply(err error) *proto.GameReply {
	reply := &proto.GameReply{Error: err.Error()}

	var ge *xzmahjong.GameError
	switch {
	case errors.As(err, &ge):
		reply.Code = ge.Code
	case errors.Is(err, game.ErrGameNotFound):
		reply.Code = proto.CodeGameNotFound
	case errors.Is(err, game.ErrRecordNotFound):
		reply.Code = proto.CodeRecordNotFound
	case errors.Is(err, game.ErrTooManyGames):
		reply.Code = proto.CodeTooManyGames
	case errors.Is(err, game.ErrUnknownAction):
		reply.Code = proto.CodeUnknownAction
	case errors.Is(err, game.ErrInvalidRequest):
		reply.Code = proto.CodeBadRequest
	default:
		reply.Code = proto.CodeInternal
		reply.Error = "internal error"
	}
	return reply
}
