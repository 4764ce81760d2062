// pkg/config/env.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables recognized by ApplyEnvironmentOverrides.
const (
	EnvMapHalfExtent    = "ARENA_MAP_HALF_EXTENT"
	EnvShapeDensity     = "ARENA_SHAPE_DENSITY"
	EnvMaxSpawnsPerTick = "ARENA_MAX_SPAWNS_PER_TICK"
	EnvMaxDeltaTime     = "ARENA_MAX_DELTA_TIME"
	EnvFriction         = "ARENA_FRICTION"
	EnvGrowthMode       = "ARENA_GROWTH_MODE"
	EnvSeed             = "ARENA_SEED"
	EnvBots             = "ARENA_BOTS"
	EnvBotClass         = "ARENA_BOT_CLASS"
	EnvTickRate         = "ARENA_TICK_RATE"
)

// ApplyEnvironmentOverrides overwrites config fields from ARENA_* variables
// and re-validates the result. Unparseable values are ignored.
func ApplyEnvironmentOverrides(config *ArenaConfig) error {
	config.MapHalfExtent = getEnvAsFloatOrDefault(EnvMapHalfExtent, config.MapHalfExtent)
	config.Spawning.ShapeDensity = getEnvAsFloatOrDefault(EnvShapeDensity, config.Spawning.ShapeDensity)
	config.Spawning.MaxSpawnsPerTick = getEnvAsIntOrDefault(EnvMaxSpawnsPerTick, config.Spawning.MaxSpawnsPerTick)
	config.Spawning.GrowthMode = getEnvAsBoolOrDefault(EnvGrowthMode, config.Spawning.GrowthMode)
	config.Physics.MaxDeltaTime = getEnvAsFloatOrDefault(EnvMaxDeltaTime, config.Physics.MaxDeltaTime)
	config.Physics.Friction = getEnvAsFloatOrDefault(EnvFriction, config.Physics.Friction)
	config.Session.Seed = getEnvAsUint64OrDefault(EnvSeed, config.Session.Seed)
	config.Session.Bots = getEnvAsIntOrDefault(EnvBots, config.Session.Bots)
	config.Session.BotClass = getEnvOrDefault(EnvBotClass, config.Session.BotClass)
	config.Session.TickRate = getEnvAsIntOrDefault(EnvTickRate, config.Session.TickRate)

	return config.Validate()
}

// TickInterval is the wall-clock period of one tick at the configured rate.
func (c *ArenaConfig) TickInterval() time.Duration {
	if c.Session.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Session.TickRate)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnvOrDefault(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsUint64OrDefault(key string, defaultValue uint64) uint64 {
	if value, err := strconv.ParseUint(getEnvOrDefault(key, ""), 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnvOrDefault(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnvOrDefault(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}
