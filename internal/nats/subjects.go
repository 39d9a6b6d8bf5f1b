package nats

// NATS Subject 常量定义
const (
	// SubjectGameRequest 客户端网关 -> 血战服务 请求
	SubjectGameRequest = "xuezhan.game.request"

	// SubjectGameEventPrefix 对局事件前缀
	// 完整格式: xuezhan.game.event.{game_id}
	SubjectGameEventPrefix = "xuezhan.game.event."

	// QueueGroupGame 血战服务队列组名称
	QueueGroupGame = "xuezhan-group"
)

// BuildGameEventSubject 构建对局事件 Subject
func BuildGameEventSubject(gameID string) string {
	return SubjectGameEventPrefix + gameID
}
