// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// State backends accepted by StateConfig.Backend.
const (
	StateBackendFile  = "file"
	StateBackendRedis = "redis"
)

// Config is the service configuration for the boardsync bridge.
type Config struct {
	Matrix    MatrixConfig    `yaml:"matrix"`
	Board     BoardConfig     `yaml:"board"`
	Sync      SyncConfig      `yaml:"sync"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
	Commands  CommandsConfig  `yaml:"commands"`
	Messages  MessagesConfig  `yaml:"messages"`
	State     StateConfig     `yaml:"state"`
	Socket    SocketConfig    `yaml:"socket"`
	Log       LogConfig       `yaml:"log"`
}

// MatrixConfig configures the homeserver connection.
type MatrixConfig struct {
	// Homeserver is the base URL of the Matrix homeserver.
	Homeserver string `yaml:"homeserver"`

	// Timeout bounds every non-sync HTTP request.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// SyncTimeout is the long-poll duration passed to /sync.
	// Default: 30s
	SyncTimeout time.Duration `yaml:"sync_timeout"`
}

// BoardConfig configures the YouGile task board client.
type BoardConfig struct {
	// BaseURL is the API root; task lists are read from
	// {BaseURL}/task-list.
	// Default: https://ru.yougile.com/api-v2
	BaseURL string `yaml:"base_url"`

	// Timeout bounds a single column fetch.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// FreeColumn names the column whose last fetch is cached for
	// other commands.
	FreeColumn string `yaml:"free_column"`

	// AnnotatedColumns lists the columns whose task lines carry the
	// first sticker value.
	AnnotatedColumns []string `yaml:"annotated_columns"`
}

// SyncConfig configures the board message.
type SyncConfig struct {
	// Interval is the period of the automatic update loop.
	// Default: 1h
	Interval time.Duration `yaml:"interval"`

	// TimestampLayout is a Go time layout for the trailing stamp.
	TimestampLayout string `yaml:"timestamp_layout"`

	// TimestampPrefix precedes the time on the trailing stamp line.
	TimestampPrefix string `yaml:"timestamp_prefix"`

	// Location is an IANA zone name for the stamp. Empty means local.
	Location string `yaml:"location"`
}

// BroadcastConfig configures the training text broadcast.
type BroadcastConfig struct {
	// Delay separates consecutive fragments.
	// Default: 1s
	Delay time.Duration `yaml:"delay"`
}

// CommandsConfig configures the chat command surface.
type CommandsConfig struct {
	// Prefix starts every command message.
	// Default: !
	Prefix string `yaml:"prefix"`

	// Operators restricts commands to these Matrix user IDs. Empty
	// allows every member of the target room.
	Operators []string `yaml:"operators"`
}

// MessagesConfig holds every user-facing string the bridge sends.
type MessagesConfig struct {
	NoTasks        string `yaml:"no_tasks"`
	Unrecognized   string `yaml:"unrecognized"`
	CommandFailed  string `yaml:"command_failed"`
	NotAuthorized  string `yaml:"not_authorized"`
	Synced         string `yaml:"synced"`
	LoopStarted    string `yaml:"loop_started"`
	LoopStopped    string `yaml:"loop_stopped"`
	AlreadyRunning string `yaml:"already_running"`
	PinEnabled     string `yaml:"pin_enabled"`
	PinDisabled    string `yaml:"pin_disabled"`
	TaskNotFound   string `yaml:"task_not_found"`
	TaskUsage      string `yaml:"task_usage"`
	NoDescription  string `yaml:"no_description"`
	BroadcastDone  string `yaml:"broadcast_done"`
	NoChannel      string `yaml:"no_channel"`
	NoTrainingText string `yaml:"no_training_text"`
}

// StateConfig selects where the durable bot record lives.
type StateConfig struct {
	// Backend is "file" or "redis".
	// Default: file
	Backend string `yaml:"backend"`

	// Path is the JSON record file for the file backend.
	// Default: bot_config.json
	Path string `yaml:"path"`

	// RedisAddress is host:port for the redis backend.
	RedisAddress string `yaml:"redis_address"`

	// RedisKey holds the JSON record for the redis backend.
	// Default: boardsync:state
	RedisKey string `yaml:"redis_key"`
}

// SocketConfig configures the local control socket.
type SocketConfig struct {
	// Path is the Unix socket path. Empty disables the socket.
	Path string `yaml:"path"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	// Default: info
	Level string `yaml:"level"`

	// File additionally receives every log line. Empty disables it.
	// Default: bot_log.txt
	File string `yaml:"file"`
}

// Default returns the default configuration. The config file is
// decoded on top of it, so omitted fields keep these values.
func Default() *Config {
	return &Config{
		Matrix: MatrixConfig{
			Timeout:     30 * time.Second,
			SyncTimeout: 30 * time.Second,
		},
		Board: BoardConfig{
			BaseURL:    "https://ru.yougile.com/api-v2",
			Timeout:    30 * time.Second,
			FreeColumn: "Свободные",
			AnnotatedColumns: []string{
				"В процессе выполнения",
				"Проверяются и дорабатываются",
			},
		},
		Sync: SyncConfig{
			Interval:        time.Hour,
			TimestampLayout: "2006-01-02 15:04",
			TimestampPrefix: "Updated",
		},
		Broadcast: BroadcastConfig{
			Delay: time.Second,
		},
		Commands: CommandsConfig{
			Prefix: "!",
		},
		Messages: MessagesConfig{
			NoTasks:        "No tasks.",
			Unrecognized:   "I don't understand you.",
			CommandFailed:  "An error occurred while running the command.",
			NotAuthorized:  "You are not allowed to run this command.",
			Synced:         "Board message updated.",
			LoopStarted:    "Automatic updates started.",
			LoopStopped:    "Automatic updates stopped.",
			AlreadyRunning: "Automatic updates are already running.",
			PinEnabled:     "Auto-pin enabled.",
			PinDisabled:    "Auto-pin disabled.",
			TaskNotFound:   "Task not found.",
			TaskUsage:      "Usage: task-desc <task name>",
			NoDescription:  "No description.",
			BroadcastDone:  "Training text sent.",
			NoChannel:      "No target room is configured.",
			NoTrainingText: "No training text is configured.",
		},
		State: StateConfig{
			Backend:      StateBackendFile,
			Path:         "bot_config.json",
			RedisAddress: "localhost:6379",
			RedisKey:     "boardsync:state",
		},
		Log: LogConfig{
			Level: "info",
			File:  "bot_log.txt",
		},
	}
}

// Load loads configuration from the file named by BOARDSYNC_CONFIG.
func Load() (*Config, error) {
	configPath := os.Getenv("BOARDSYNC_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("BOARDSYNC_CONFIG environment variable not set; " +
			"set it to the path of your boardsync.yaml config file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path on top of
// [Default] and expands path variables. It does not validate.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.State.Path = expandVars(c.State.Path, vars)
	c.Socket.Path = expandVars(c.Socket.Path, vars)
	c.Log.File = expandVars(c.Log.File, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns. Values in
// vars take precedence over the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name, defaultValue := parts[1], parts[2]
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Matrix.Homeserver == "" {
		errs = append(errs, errors.New("matrix.homeserver is required"))
	} else if _, err := url.ParseRequestURI(c.Matrix.Homeserver); err != nil {
		errs = append(errs, fmt.Errorf("matrix.homeserver: %w", err))
	}
	if c.Matrix.Timeout <= 0 {
		errs = append(errs, errors.New("matrix.timeout must be positive"))
	}
	if c.Matrix.SyncTimeout <= 0 {
		errs = append(errs, errors.New("matrix.sync_timeout must be positive"))
	}

	if c.Board.BaseURL == "" {
		errs = append(errs, errors.New("board.base_url is required"))
	}
	if c.Board.Timeout <= 0 {
		errs = append(errs, errors.New("board.timeout must be positive"))
	}

	if c.Sync.Interval <= 0 {
		errs = append(errs, errors.New("sync.interval must be positive"))
	}
	if c.Sync.TimestampLayout == "" {
		errs = append(errs, errors.New("sync.timestamp_layout is required"))
	}
	if c.Sync.Location != "" {
		if _, err := time.LoadLocation(c.Sync.Location); err != nil {
			errs = append(errs, fmt.Errorf("sync.location: %w", err))
		}
	}

	if c.Broadcast.Delay < 0 {
		errs = append(errs, errors.New("broadcast.delay must not be negative"))
	}
	if c.Commands.Prefix == "" {
		errs = append(errs, errors.New("commands.prefix is required"))
	}

	switch c.State.Backend {
	case StateBackendFile:
		if c.State.Path == "" {
			errs = append(errs, errors.New("state.path is required for the file backend"))
		}
	case StateBackendRedis:
		if c.State.RedisAddress == "" || c.State.RedisKey == "" {
			errs = append(errs, errors.New("state.redis_address and state.redis_key are required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("state.backend must be %q or %q, got %q",
			StateBackendFile, StateBackendRedis, c.State.Backend))
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", logLevels))
	}

	return errors.Join(errs...)
}

// TimeLocation returns the configured stamp location, or time.Local.
// Call after Validate.
func (c *Config) TimeLocation() *time.Location {
	if c.Sync.Location == "" {
		return time.Local
	}
	location, err := time.LoadLocation(c.Sync.Location)
	if err != nil {
		return time.Local
	}
	return location
}
