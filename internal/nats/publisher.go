package nats

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"sudooom.im.xuezhan/internal/game"
)

// EventPublisher 对局事件发布器
type EventPublisher struct {
	nc     *nats.Conn
	logger *slog.Logger
}

var _ game.EventPublisher = (*EventPublisher)(nil)

// NewEventPublisher 创建事件发布器
func NewEventPublisher(nc *nats.Conn) *EventPublisher {
	return &EventPublisher{
		nc:     nc,
		logger: slog.Default(),
	}
}

// PublishGameEvent 发布对局事件到 xuezhan.game.event.{gameId}
func (p *EventPublisher) PublishGameEvent(_ context.Context, event *game.Event) error {
	subject := BuildGameEventSubject(event.GameID)
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal game event", "error", err)
		return err
	}

	msg := nats.NewMsg(subject)
	msg.Data = data
	// 接入 JetStream 时按事件ID去重
	msg.Header.Set(nats.MsgIdHdr, event.ID)

	if err := p.nc.PublishMsg(msg); err != nil {
		p.logger.Error("Failed to publish game event", "gameId", event.GameID, "error", err)
		return err
	}

	p.logger.Debug("Published game event", "gameId", event.GameID, "type", event.Type, "subject", subject)
	return nil
}
