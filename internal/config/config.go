package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the engine settings. Three layers feed it, outermost wins:
// built-in defaults, then a YAML file, then VOXWORLD_* environment
// variables.
type Config struct {
	Seed           string `yaml:"seed"`
	TickRate       int    `yaml:"tickRate"`
	LoadRadius     int    `yaml:"loadRadius"`
	DeleteRadius   int    `yaml:"deleteRadius"`
	Workers        int    `yaml:"workers"`
	RenderDistance int    `yaml:"renderDistance"`
	Caves          bool   `yaml:"caves"`
	AgentCount     int    `yaml:"agents"`
	SpeciesFile    string `yaml:"speciesFile"`
	TerrainParams  string `yaml:"terrainParams"`
}

// Default returns the built-in settings. Workers 0 means one generation
// worker per CPU; an empty Seed means pick one from the clock.
func Default() *Config {
	return &Config{
		Seed:           "",
		TickRate:       30,
		LoadRadius:     8,
		DeleteRadius:   10,
		Workers:        0,
		RenderDistance: 25,
		Caves:          true,
		AgentCount:     6,
		SpeciesFile:    "",
		TerrainParams:  "",
	}
}

// Load builds the config from defaults, the YAML file at path (skipped when
// path is empty), and finally the environment. The result is normalized so
// callers never see out-of-range values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.Normalize()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Seed = getEnv("VOXWORLD_SEED", c.Seed)
	c.TickRate = getEnvInt("VOXWORLD_TICK_RATE", c.TickRate)
	c.LoadRadius = getEnvInt("VOXWORLD_LOAD_RADIUS", c.LoadRadius)
	c.DeleteRadius = getEnvInt("VOXWORLD_DELETE_RADIUS", c.DeleteRadius)
	c.Workers = getEnvInt("VOXWORLD_WORKERS", c.Workers)
	c.RenderDistance = getEnvInt("VOXWORLD_RENDER_DISTANCE", c.RenderDistance)
	c.Caves = getEnvBool("VOXWORLD_CAVES", c.Caves)
	c.AgentCount = getEnvInt("VOXWORLD_AGENTS", c.AgentCount)
	c.SpeciesFile = getEnv("VOXWORLD_SPECIES_FILE", c.SpeciesFile)
	c.TerrainParams = getEnv("VOXWORLD_TERRAIN_PARAMS", c.TerrainParams)
}

// Normalize clamps every numeric setting into its working range. The delete
// radius is kept at least two chunks past the load radius so chunks do not
// thrash at the boundary.
func (c *Config) Normalize() {
	c.TickRate = clamp(c.TickRate, 1, 240)
	c.LoadRadius = clamp(c.LoadRadius, 2, 32)
	if c.DeleteRadius < c.LoadRadius+2 {
		c.DeleteRadius = c.LoadRadius + 2
	}
	if c.Workers < 0 {
		c.Workers = 0
	}
	c.RenderDistance = clamp(c.RenderDistance, minRenderDistance, maxRenderDistance)
	c.AgentCount = clamp(c.AgentCount, 0, 256)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Helper functions for environment variable access

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer for %s: %q, keeping %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid boolean for %s: %q, keeping %t", key, value, fallback)
		return fallback
	}
	return b
}
