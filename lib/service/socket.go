// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/bureau-foundation/boardsync/lib/codec"
)

// ActionFunc handles one control action. raw is the whole CBOR request
// map, "action" key included, so handlers decode their own fields from
// it. A nil result yields a bare {ok: true}.
type ActionFunc func(ctx context.Context, raw []byte) (any, error)

// Response is the envelope every request gets back.
type Response struct {
	OK    bool             `cbor:"ok"`
	Error string           `cbor:"error,omitempty"`
	Data  codec.RawMessage `cbor:"data,omitempty"`
}

// failure builds an error envelope.
func failure(format string, args ...any) Response {
	return Response{Error: fmt.Sprintf(format, args...)}
}

const (
	// Bounds on a single request-response exchange.
	readTimeout    = 30 * time.Second
	writeTimeout   = 10 * time.Second
	maxRequestSize = 1 << 20
)

// SocketServer answers one CBOR request per connection on a Unix
// socket. Register every action with Handle before Serve.
type SocketServer struct {
	socketPath string
	handlers   map[string]ActionFunc
	logger     *slog.Logger

	connections sync.WaitGroup
}

func NewSocketServer(socketPath string, logger *slog.Logger) *SocketServer {
	return &SocketServer{
		socketPath: socketPath,
		handlers:   make(map[string]ActionFunc),
		logger:     logger,
	}
}

// Handle registers handler for action. Registering an action twice
// panics.
func (s *SocketServer) Handle(action string, handler ActionFunc) {
	if _, exists := s.handlers[action]; exists {
		panic(fmt.Sprintf("service.SocketServer: duplicate handler for action %q", action))
	}
	s.handlers[action] = handler
}

// Actions returns the registered action names in sorted order.
func (s *SocketServer) Actions() []string {
	return slices.Sorted(maps.Keys(s.handlers))
}

// Serve listens until ctx is cancelled and returns once every open
// connection has been answered. Any file already at the socket path is
// replaced. The socket is owner-only and removed on return.
func (s *SocketServer) Serve(ctx context.Context) error {
	listener, err := s.listen()
	if err != nil {
		return err
	}
	defer os.Remove(s.socketPath)

	stop := context.AfterFunc(ctx, func() { listener.Close() })
	defer stop()

	s.logger.Info("control socket listening", "path", s.socketPath, "actions", s.Actions())
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}
		s.connections.Go(func() { s.serveConn(ctx, conn) })
	}
	listener.Close()
	s.connections.Wait()
	return nil
}

func (s *SocketServer) listen() (net.Listener, error) {
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("removing stale socket %s: %w", s.socketPath, err)
	}
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", s.socketPath, err)
	}
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		os.Remove(s.socketPath)
		return nil, fmt.Errorf("restricting socket %s: %w", s.socketPath, err)
	}
	return listener, nil
}

func (s *SocketServer) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	var raw codec.RawMessage
	if err := codec.NewDecoder(io.LimitReader(conn, maxRequestSize)).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			// Connected and hung up without a request.
			return
		}
		s.write(conn, failure("invalid request: %v", err))
		return
	}
	s.write(conn, s.dispatch(ctx, raw))
}

// dispatch routes raw to its handler and encodes the outcome.
func (s *SocketServer) dispatch(ctx context.Context, raw codec.RawMessage) Response {
	var header struct {
		Action string `cbor:"action"`
	}
	if err := codec.Unmarshal(raw, &header); err != nil {
		return failure("invalid request: %v", err)
	}
	if header.Action == "" {
		return failure("missing required field: action")
	}
	handler, ok := s.handlers[header.Action]
	if !ok {
		return failure("unknown action %q", header.Action)
	}

	result, err := s.invoke(ctx, header.Action, handler, raw)
	if err != nil {
		s.logger.Warn("action failed", "action", header.Action, "error", err)
		return Response{Error: err.Error()}
	}
	if result == nil {
		return Response{OK: true}
	}
	data, err := codec.Marshal(result)
	if err != nil {
		return failure("internal: marshaling response: %v", err)
	}
	return Response{OK: true, Data: data}
}

// invoke calls handler and converts a panic into an error.
func (s *SocketServer) invoke(ctx context.Context, action string, handler ActionFunc, raw []byte) (result any, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			s.logger.Error("action panicked", "action", action, "panic", recovered)
			result, err = nil, fmt.Errorf("internal error in %q", action)
		}
	}()
	return handler(ctx, raw)
}

func (s *SocketServer) write(conn net.Conn, response Response) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := codec.NewEncoder(conn).Encode(response); err != nil {
		s.logger.Debug("writing response failed", "error", err)
	}
}
