package game

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"sudooom.im.xuezhan/internal/game/mahjong/core"
	"sudooom.im.xuezhan/internal/game/mahjong/policy"
	"sudooom.im.xuezhan/internal/game/mahjong/view"
	"sudooom.im.xuezhan/internal/game/mahjong/xzmahjong"
)

// DefaultMaxAutoSteps 一次请求中自动玩家最多执行的步数
const DefaultMaxAutoSteps = 200

// ServiceDeps 游戏服务依赖
type ServiceDeps struct {
	Manager      *GameManager
	Engine       *xzmahjong.Engine
	Policy       policy.Policy
	IDs          IDGenerator
	Records      RecordStore    // 可为空
	Publisher    EventPublisher // 可为空
	MaxAutoSteps int
}

// GameService 血战麻将托管服务
// 一局中只有一个外部控制的玩家，其余座位由策略自动行动
type GameService struct {
	manager      *GameManager
	engine       *xzmahjong.Engine
	policy       policy.Policy
	ids          IDGenerator
	records      RecordStore
	publisher    EventPublisher
	maxAutoSteps int
	logger       *slog.Logger
}

// NewGameService 创建游戏服务
func NewGameService(deps ServiceDeps) *GameService {
	maxSteps := deps.MaxAutoSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxAutoSteps
	}
	return &GameService{
		manager:      deps.Manager,
		engine:       deps.Engine,
		policy:       deps.Policy,
		ids:          deps.IDs,
		records:      deps.Records,
		publisher:    deps.Publisher,
		maxAutoSteps: maxSteps,
		logger:       slog.Default().With("component", "GameService"),
	}
}

// defaultPlayers 未指定玩家时: 人类坐庄，其余三家为自动玩家
func defaultPlayers(humanID string) []string {
	return []string{humanID, "ai_1", "ai_2", "ai_3"}
}

// CreateGame 创建并开始一局，自动玩家完成埋牌后返回人类玩家的视角
func (svc *GameService) CreateGame(ctx context.Context, playerIDs []string, humanID string) (*view.GameView, error) {
	if humanID == "" {
		return nil, fmt.Errorf("%w: humanId is required", ErrInvalidRequest)
	}
	if len(playerIDs) == 0 {
		playerIDs = defaultPlayers(humanID)
	}
	if !slices.Contains(playerIDs, humanID) {
		return nil, fmt.Errorf("%w: humanId %s is not seated", ErrInvalidRequest, humanID)
	}

	gameID := svc.ids.NextID()
	state, err := svc.engine.Create(gameID, playerIDs)
	if err != nil {
		return nil, err
	}
	state, err = svc.engine.Start(state)
	if err != nil {
		return nil, err
	}

	session := NewSession(state, humanID)
	if err := svc.manager.Add(session); err != nil {
		return nil, err
	}

	state, err = session.Apply(svc.autoplay(humanID))
	if err != nil {
		svc.manager.Remove(gameID)
		svc.logFailure("Automated turns failed after create", gameID, humanID, err)
		return nil, err
	}

	svc.logger.Info("Game created", "gameId", gameID, "humanId", humanID, "players", playerIDs)
	svc.afterAction(ctx, session, state, EventGameCreated, humanID, "create")
	return svc.project(state, humanID), nil
}

// GetView 获取某个玩家视角的局面
func (svc *GameService) GetView(ctx context.Context, gameID, playerID string) (*view.GameView, error) {
	session, err := svc.manager.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return svc.project(session.State(), playerID), nil
}

// SubmitAction 执行人类玩家的动作，然后推进自动玩家
func (svc *GameService) SubmitAction(ctx context.Context, gameID string, req ActionRequest) (*view.GameView, error) {
	session, err := svc.manager.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if req.PlayerID != session.HumanID() {
		return nil, fmt.Errorf("%w: player %s is not controllable", ErrInvalidRequest, req.PlayerID)
	}

	before := session.State()
	state, err := session.Apply(func(s *core.GameState) (*core.GameState, error) {
		next, err := svc.applyHuman(s, req)
		if err != nil {
			return s, err
		}
		return svc.autoplay(session.HumanID())(next)
	})
	if err != nil {
		svc.logFailure("Action failed", gameID, req.PlayerID, err, "action", req.Action)
		return nil, err
	}

	if state != before {
		svc.afterAction(ctx, session, state, EventGameAction, req.PlayerID, req.Action)
	}
	return svc.project(state, req.PlayerID), nil
}

// EndGame 强制结束对局
func (svc *GameService) EndGame(ctx context.Context, gameID string) (*view.GameView, error) {
	session, err := svc.manager.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}

	before := session.State()
	state, err := session.Apply(svc.engine.End)
	if err != nil {
		return nil, err
	}
	if state != before {
		svc.logger.Info("Game ended by request", "gameId", gameID)
		svc.afterAction(ctx, session, state, EventGameEnded, "", "end")
	}
	return svc.project(state, session.HumanID()), nil
}

// GetRecord 查询已结束对局的记录
func (svc *GameService) GetRecord(ctx context.Context, gameID string) (*Record, error) {
	if gameID == "" {
		return nil, fmt.Errorf("%w: gameId is required", ErrInvalidRequest)
	}
	if svc.records == nil {
		return nil, ErrRecordNotFound
	}
	return svc.records.FindByID(ctx, gameID)
}

// afterAction 保存结束记录和快照，发布事件
// 持久化失败只记录日志，不影响已经生效的动作
func (svc *GameService) afterAction(ctx context.Context, session *Session, state *core.GameState, eventType, playerID, action string) {
	if state.Phase == core.PhaseEnded {
		eventType = EventGameEnded
		if svc.records != nil && !session.MarkRecorded() {
			if err := svc.records.SaveRecord(ctx, newRecord(state, time.Now())); err != nil {
				svc.logger.Error("Failed to save game record", "gameId", state.ID, "error", err)
			}
		}
	}

	if err := svc.manager.Save(ctx, session); err != nil {
		svc.logger.Warn("Failed to save game snapshot", "gameId", state.ID, "error", err)
	}

	if svc.publisher != nil {
		if err := svc.publisher.PublishGameEvent(ctx, newEvent(eventType, state, playerID, action)); err != nil {
			svc.logger.Warn("Failed to publish game event", "gameId", state.ID, "type", eventType, "error", err)
		}
	}
}

func (svc *GameService) project(s *core.GameState, viewerID string) *view.GameView {
	v := view.Project(s, viewerID)
	v.Actions = svc.AvailableActions(s, viewerID)
	return v
}

// logFailure 拒绝的动作记 Warn，内部错误记 Error
func (svc *GameService) logFailure(msg, gameID, playerID string, err error, args ...any) {
	attrs := append([]any{"gameId", gameID, "playerId", playerID, "error", err}, args...)
	if xzmahjong.IsFault(err) {
		svc.logger.Error(msg, attrs...)
		return
	}
	svc.logger.Warn(msg, attrs...)
}
