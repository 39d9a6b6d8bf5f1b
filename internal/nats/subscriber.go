package nats

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"

	"sudooom.im.xuezhan/internal/proto"
)

// RequestHandler 游戏请求处理器接口
type RequestHandler interface {
	HandleGameRequest(ctx context.Context, req *proto.GameRequest) *proto.GameReply
}

// SubscriberConfig Worker Pool 配置
type SubscriberConfig struct {
	WorkerCount int // Worker 数量
	BufferSize  int // 消息缓冲区大小
}

// RequestSubscriber 游戏请求订阅器
type RequestSubscriber struct {
	nc           *nats.Conn
	handler      RequestHandler
	logger       *slog.Logger
	subscription *nats.Subscription
	config       SubscriberConfig
	msgChan      chan *nats.Msg
	wg           sync.WaitGroup
	cancelFunc   context.CancelFunc
}

// NewRequestSubscriber 创建请求订阅器
func NewRequestSubscriber(nc *nats.Conn, handler RequestHandler, config SubscriberConfig) *RequestSubscriber {
	// 设置默认值
	if config.WorkerCount <= 0 {
		config.WorkerCount = 16
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 1024
	}

	return &RequestSubscriber{
		nc:      nc,
		handler: handler,
		logger:  slog.Default(),
		config:  config,
	}
}

// Start 启动订阅
func (s *RequestSubscriber) Start(ctx context.Context) error {
	// 创建带缓冲的消息通道
	s.msgChan = make(chan *nats.Msg, s.config.BufferSize)

	workerCtx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel

	// 启动 Worker Pool
	for i := 0; i < s.config.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(workerCtx)
	}

	// 使用队列组实现负载均衡
	sub, err := s.nc.QueueSubscribe(SubjectGameRequest, QueueGroupGame, func(msg *nats.Msg) {
		select {
		case s.msgChan <- msg:
		default:
			s.logger.Warn("Request buffer full, dropping request", "bufferSize", s.config.BufferSize)
			s.respond(msg, &proto.GameReply{Code: proto.CodeInternal, Error: "server busy"})
		}
	})
	if err != nil {
		cancel()
		return err
	}

	s.subscription = sub
	s.logger.Info("NATS subscriber started",
		"subject", SubjectGameRequest,
		"workerCount", s.config.WorkerCount,
		"bufferSize", s.config.BufferSize,
	)
	return nil
}

// worker 工作协程
func (s *RequestSubscriber) worker(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.msgChan:
			if !ok {
				return
			}
			s.respond(msg, s.process(ctx, msg.Data))
		}
	}
}

// process 解码请求并交给处理器
func (s *RequestSubscriber) process(ctx context.Context, data []byte) *proto.GameReply {
	var req proto.GameRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.logger.Warn("Failed to unmarshal game request", "error", err)
		return &proto.GameReply{Code: proto.CodeBadRequest, Error: err.Error()}
	}
	return s.handler.HandleGameRequest(ctx, &req)
}

// respond 回复请求方，没有 reply subject 时丢弃
func (s *RequestSubscriber) respond(msg *nats.Msg, reply *proto.GameReply) {
	if msg.Reply == "" {
		return
	}
	data, err := json.Marshal(reply)
	if err != nil {
		s.logger.Error("Failed to marshal game reply", "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		s.logger.Warn("Failed to respond", "error", err)
	}
}

// Stop 停止订阅
func (s *RequestSubscriber) Stop() error {
	// 先取消订阅，不再接收新请求
	if s.subscription != nil {
		if err := s.subscription.Unsubscribe(); err != nil {
			s.logger.Error("Failed to unsubscribe", "error", err)
		}
	}

	if s.cancelFunc != nil {
		s.cancelFunc()
	}

	// 等待所有 worker 完成
	s.wg.Wait()

	s.logger.Info("NATS subscriber stopped")
	return nil
}

// GetBufferUsage 获取缓冲区使用情况（用于监控）
func (s *RequestSubscriber) GetBufferUsage() (current int, capacity int) {
	if s.msgChan == nil {
		return 0, 0
	}
	return len(s.msgChan), cap(s.msgChan)
}
