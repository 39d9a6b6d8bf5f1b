package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  name: xuezhan-test
  log_level: debug
redis:
  host: cache
  port: 6380
game:
  base_unit: 2
  max_winners: 3
  settle_wins: true
  evict_timeout: 5m
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "xuezhan-test", cfg.App.Name)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "cache", cfg.Redis.Host)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, 2, cfg.Game.BaseUnit)
	assert.Equal(t, 3, cfg.Game.MaxWinners)
	assert.True(t, cfg.Game.SettleWins)
	assert.Equal(t, 5*time.Minute, cfg.Game.EvictTimeout)

	// 未配置的项取默认值
	assert.Equal(t, 100, cfg.Game.StartingScore)
	assert.Equal(t, 200, cfg.Game.MaxAutoSteps)
	assert.Equal(t, 24*time.Hour, cfg.Game.SnapshotTTL)
	assert.Equal(t, 16, cfg.Subscriber.WorkerCount)
	assert.Equal(t, ":8081", cfg.Health.Addr)
	assert.Equal(t, 2*time.Second, cfg.NATS.ReconnectWait)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("XUEZHAN_REDIS_HOST", "redis.internal")
	t.Setenv("XUEZHAN_GAME_MAX_WINNERS", "1")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "redis.internal", cfg.Redis.Host)
	assert.Equal(t, 1, cfg.Game.MaxWinners)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
