// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/boardsync/lib/board"
	"github.com/bureau-foundation/boardsync/lib/boardsync"
	"github.com/bureau-foundation/boardsync/lib/clock"
	"github.com/bureau-foundation/boardsync/lib/config"
	"github.com/bureau-foundation/boardsync/lib/process"
	"github.com/bureau-foundation/boardsync/lib/responder"
	"github.com/bureau-foundation/boardsync/lib/secret"
	"github.com/bureau-foundation/boardsync/lib/service"
	"github.com/bureau-foundation/boardsync/lib/version"
	"github.com/bureau-foundation/boardsync/messaging"
)

const (
	matrixTokenVariable = "BOARDSYNC_MATRIX_TOKEN"
	boardTokenVariable  = "YOUGILE_API_TOKEN"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		configPath  string
		envFile     string
		showVersion bool
	)

	flagSet := pflag.NewFlagSet("boardsync", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to boardsync.yaml (default: $BOARDSYNC_CONFIG)")
	flagSet.StringVar(&envFile, "env-file", ".env", "dotenv file with the access tokens; ignored when missing")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if showVersion {
		fmt.Printf("boardsync %s\n", version.Info())
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	if err := loadEnvFile(envFile); err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLog, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	matrixToken, err := secret.FromEnv(matrixTokenVariable)
	if err != nil {
		return err
	}
	boardToken, err := secret.FromEnv(boardTokenVariable)
	if err != nil {
		matrixToken.Close()
		return err
	}
	defer boardToken.Close()

	client, err := messaging.NewClient(messaging.ClientConfig{
		HomeserverURL: cfg.Matrix.Homeserver,
		// Long-polling /sync holds a request open for SyncTimeout.
		HTTPClient: &http.Client{Timeout: cfg.Matrix.SyncTimeout + cfg.Matrix.Timeout},
		Logger:     logger,
	})
	if err != nil {
		matrixToken.Close()
		return fmt.Errorf("creating matrix client: %w", err)
	}
	session, err := client.Authenticate(ctx, matrixToken)
	if err != nil {
		return fmt.Errorf("authenticating to %s: %w", cfg.Matrix.Homeserver, err)
	}
	defer session.Close()
	logger.Info("matrix session valid", "user_id", session.UserID())

	boardClient, err := board.NewClient(board.Config{
		BaseURL:    cfg.Board.BaseURL,
		Token:      boardToken,
		HTTPClient: &http.Client{Timeout: cfg.Board.Timeout},
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg.State)
	if err != nil {
		return err
	}
	defer closeStore()
	record, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading bot record: %w", err)
	}

	clk := clock.Real()
	engine, err := boardsync.NewEngine(boardsync.EngineConfig{
		Chat:             session,
		Board:            boardClient,
		Store:            store,
		Record:           record,
		Clock:            clk,
		Logger:           logger,
		FreeColumn:       cfg.Board.FreeColumn,
		AnnotatedColumns: cfg.Board.AnnotatedColumns,
		NoTasks:          cfg.Messages.NoTasks,
		TimestampPrefix:  cfg.Sync.TimestampPrefix,
		TimestampLayout:  cfg.Sync.TimestampLayout,
		Location:         cfg.TimeLocation(),
		BroadcastDelay:   cfg.Broadcast.Delay,
	})
	if err != nil {
		return err
	}
	scheduler := boardsync.NewScheduler(engine, cfg.Sync.Interval, clk, logger)
	defer scheduler.Close()

	b, err := newBot(botConfig{
		Chat:      session,
		Engine:    engine,
		Scheduler: scheduler,
		Responder: responder.New(record.Flags, record.Responses, cfg.Messages.Unrecognized),
		Commands:  cfg.Commands,
		Messages:  cfg.Messages,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	if err := b.prepare(ctx); err != nil {
		return err
	}
	if b.guildReady && scheduler.Resume(ctx) {
		logger.Info("automatic board updates resumed")
	}

	socketDone := make(chan struct{})
	if cfg.Socket.Path != "" {
		socketServer := service.NewSocketServer(cfg.Socket.Path, logger)
		b.registerActions(socketServer)
		go func() {
			defer close(socketDone)
			if err := socketServer.Serve(ctx); err != nil {
				logger.Error("control socket failed", "error", err)
			}
		}()
	} else {
		close(socketDone)
	}

	filter := b.syncFilter()
	sinceToken, _, err := service.InitialSync(ctx, session, filter)
	if err != nil {
		return err
	}
	go service.RunSyncLoop(ctx, session, service.SyncConfig{
		Filter:  filter,
		Timeout: cfg.Matrix.SyncTimeout,
	}, sinceToken, b.handleSync, clk, logger)

	logger.Info("boardsync running",
		"target_room", b.targetRoom,
		"commands_enabled", b.guildReady,
		"socket", cfg.Socket.Path,
	)

	<-ctx.Done()
	logger.Info("shutting down")

	b.wait()
	<-socketDone
	return nil
}

// loadEnvFile loads path into the environment without overriding
// variables that are already set.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
