package arena

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
agent "alice" {
  kind = "caller"
}

agent "bob" {
  kind = "raiser"
}
`

func TestParseConfigAppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig([]byte(minimalConfig), "test.hcl")
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Hands)
	assert.Equal(t, 5, cfg.SmallBlind)
	assert.Equal(t, 10, cfg.BigBlind)
	assert.Equal(t, 1000, cfg.StartingChips)
	assert.Equal(t, 3*time.Second, cfg.DecisionDeadline())
	assert.Equal(t, uint64(1)<<30, cfg.MemoryLimit())
	require.Len(t, cfg.Agents, 2)
	assert.Equal(t, "alice", cfg.Agents[0].Name)
	assert.Equal(t, "caller", cfg.Agents[0].Kind)
}

func TestParseConfigOverrides(t *testing.T) {
	t.Parallel()

	src := `
seed              = 7
hands             = 20
small_blind       = 25
big_blind         = 50
starting_chips    = 5000
decision_deadline = "250ms"
memory_limit_mb   = 256

agent "a" {
  kind = "caller"
}

agent "b" {
  kind = "caller"
}
`
	cfg, err := ParseConfig([]byte(src), "test.hcl")
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 20, cfg.Hands)
	assert.Equal(t, 25, cfg.SmallBlind)
	assert.Equal(t, 50, cfg.BigBlind)
	assert.Equal(t, 5000, cfg.StartingChips)
	assert.Equal(t, 250*time.Millisecond, cfg.DecisionDeadline())
	assert.Equal(t, uint64(256)<<20, cfg.MemoryLimit())
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "arena.hcl")
	require.NoError(t, os.WriteFile(path, []byte(minimalConfig), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Agents, 2)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no agents", func(c *Config) { c.Agents = nil }},
		{"one agent", func(c *Config) { c.Agents = c.Agents[:1] }},
		{"duplicate names", func(c *Config) { c.Agents[1].Name = c.Agents[0].Name }},
		{"empty name", func(c *Config) { c.Agents[0].Name = "" }},
		{"zero hands", func(c *Config) { c.Hands = 0 }},
		{"small blind above big", func(c *Config) { c.SmallBlind = 20 }},
		{"zero small blind", func(c *Config) { c.SmallBlind = 0 }},
		{"chips below big blind", func(c *Config) { c.StartingChips = 5 }},
		{"bad deadline", func(c *Config) { c.Deadline = "soon" }},
		{"negative deadline", func(c *Config) { c.Deadline = "-1s" }},
		{"zero memory", func(c *Config) { c.MemoryLimitMB = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Agents = []AgentConfig{
				{Name: "a", Kind: "caller"},
				{Name: "b", Kind: "caller"},
			}
			require.NoError(t, cfg.Validate())

			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
