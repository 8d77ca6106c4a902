package arena

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config describes a tournament: the table stakes, the sandbox limits
// and the agents seated. It is normally loaded from an HCL file:
//
//	seed           = 42
//	hands          = 100
//	small_blind    = 5
//	big_blind      = 10
//	starting_chips = 1000
//
//	agent "alice" {
//	  kind = "tight"
//	}
//
//	agent "bob" {
//	  kind = "raiser"
//	}
type Config struct {
	Seed          int64  `hcl:"seed,optional"`
	Hands         int    `hcl:"hands,optional"`
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	Deadline      string `hcl:"decision_deadline,optional"`
	MemoryLimitMB int    `hcl:"memory_limit_mb,optional"`

	Agents []AgentConfig `hcl:"agent,block"`

	deadline time.Duration
}

// AgentConfig seats one agent. The label is the agent's table name.
type AgentConfig struct {
	Name string `hcl:"name,label"`
	Kind string `hcl:"kind"`
}

// MaxPlayers is bounded by the deck: two hole cards each plus five
// community cards and a little headroom.
const MaxPlayers = 10

// DefaultConfig returns a config with every optional field filled.
func DefaultConfig() *Config {
	return &Config{
		Seed:          1,
		Hands:         100,
		SmallBlind:    5,
		BigBlind:      10,
		StartingChips: 1000,
		Deadline:      "3s",
		MemoryLimitMB: 1024,
	}
}

// LoadConfig reads and validates an HCL config file. Optional fields
// absent from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, diags
	}
	cfg := DefaultConfig()
	if diags := gohcl.DecodeBody(file.Body, nil, cfg); diags.HasErrors() {
		return nil, diags
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseConfig is LoadConfig for in-memory sources.
func ParseConfig(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	cfg := DefaultConfig()
	if diags := gohcl.DecodeBody(file.Body, nil, cfg); diags.HasErrors() {
		return nil, diags
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config and resolves derived fields.
func (c *Config) Validate() error {
	if c.Hands < 1 {
		return fmt.Errorf("arena: hands must be positive, got %d", c.Hands)
	}
	if c.SmallBlind < 1 || c.BigBlind < c.SmallBlind {
		return fmt.Errorf("arena: bad blinds %d/%d", c.SmallBlind, c.BigBlind)
	}
	if c.StartingChips < c.BigBlind {
		return fmt.Errorf("arena: starting chips %d below big blind %d", c.StartingChips, c.BigBlind)
	}
	if len(c.Agents) < 2 {
		return fmt.Errorf("arena: need at least 2 agents, got %d", len(c.Agents))
	}
	if len(c.Agents) > MaxPlayers {
		return fmt.Errorf("arena: at most %d agents, got %d", MaxPlayers, len(c.Agents))
	}
	names := make(map[string]bool)
	for _, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("arena: agent with empty name")
		}
		if names[a.Name] {
			return fmt.Errorf("arena: duplicate agent name %q", a.Name)
		}
		names[a.Name] = true
	}
	if c.MemoryLimitMB < 1 {
		return fmt.Errorf("arena: memory limit must be positive, got %dMB", c.MemoryLimitMB)
	}
	d, err := time.ParseDuration(c.Deadline)
	if err != nil {
		return fmt.Errorf("arena: bad decision_deadline: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("arena: decision_deadline must be positive, got %s", d)
	}
	c.deadline = d
	return nil
}

// DecisionDeadline returns the parsed per-decision deadline. Validate
// must have succeeded first.
func (c *Config) DecisionDeadline() time.Duration {
	return c.deadline
}

// MemoryLimit returns the sandbox ceiling in bytes.
func (c *Config) MemoryLimit() uint64 {
	return uint64(c.MemoryLimitMB) << 20
}
