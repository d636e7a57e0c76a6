package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// ClientBuffer is the outbound event queue size per connection. A
	// connection whose queue is full misses events rather than stalling
	// the room.
	ClientBuffer int `mapstructure:"client_buffer" yaml:"client_buffer"`

	// ReactionRateLimit caps reactions per connection per minute.
	// Zero disables the limit.
	ReactionRateLimit int `mapstructure:"reaction_rate_limit" yaml:"reaction_rate_limit"`

	// EvictEmptyRooms removes a room once its last connection is gone.
	// Off by default so reaction tallies stick around while nobody is
	// practicing the song.
	EvictEmptyRooms bool `mapstructure:"evict_empty_rooms" yaml:"evict_empty_rooms"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		LogFormat:         "console",
		ClientBuffer:      32,
		ReactionRateLimit: 0,
		EvictEmptyRooms:   false,
	}
}
