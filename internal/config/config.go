package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 XUEZHAN_REDIS_HOST 覆盖 redis.host
const EnvPrefix = "XUEZHAN"

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Game       GameConfig       `mapstructure:"game"`
	Subscriber SubscriberConfig `mapstructure:"subscriber"`
	Health     HealthConfig     `mapstructure:"health"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	NodeID   int64  `mapstructure:"node_id"`
	LogLevel string `mapstructure:"log_level"`
}

type NATSConfig struct {
	URL           string        `mapstructure:"url"`
	Name          string        `mapstructure:"name"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// GameConfig 对局规则与托管参数
type GameConfig struct {
	StartingScore int           `mapstructure:"starting_score"`
	BaseUnit      int           `mapstructure:"base_unit"`
	MaxWinners    int           `mapstructure:"max_winners"`
	SettleWins    bool          `mapstructure:"settle_wins"`
	MaxAutoSteps  int           `mapstructure:"max_auto_steps"`
	MaxGames      int           `mapstructure:"max_games"`
	EvictTimeout  time.Duration `mapstructure:"evict_timeout"`
	SnapshotTTL   time.Duration `mapstructure:"snapshot_ttl"`
}

type SubscriberConfig struct {
	WorkerCount int `mapstructure:"worker_count"`
	BufferSize  int `mapstructure:"buffer_size"`
}

type HealthConfig struct {
	Addr string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "xuezhan")
	v.SetDefault("app.node_id", 1)
	v.SetDefault("app.log_level", "info")

	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("nats.name", "xuezhan")
	v.SetDefault("nats.max_reconnects", 60)
	v.SetDefault("nats.reconnect_wait", 2*time.Second)

	v.SetDefault("game.starting_score", 100)
	v.SetDefault("game.base_unit", 1)
	v.SetDefault("game.max_winners", 0)
	v.SetDefault("game.settle_wins", false)
	v.SetDefault("game.max_auto_steps", 200)
	v.SetDefault("game.max_games", 10000)
	v.SetDefault("game.evict_timeout", 30*time.Minute)
	v.SetDefault("game.snapshot_ttl", 24*time.Hour)

	v.SetDefault("subscriber.worker_count", 16)
	v.SetDefault("subscriber.buffer_size", 1024)

	v.SetDefault("health.addr", ":8081")
}

// Load 从指定路径加载配置，环境变量优先
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
