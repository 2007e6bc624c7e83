package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"

	"go.uber.org/zap"
)

// Server hosts battle sessions for TCP clients, one session per connection.
type Server struct {
	Addr        string
	PartiesFile string
	Logger      *zap.Logger
}

// Run listens on s.Addr and serves connections until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled. ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := s.logger()
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	logger.Info("waiting for players", zap.String("addr", ln.Addr().String()))
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		connLog := logger.With(zap.String("remote", conn.RemoteAddr().String()))
		connLog.Info("player connected")
		go func() {
			defer conn.Close()
			sess := NewSession(SessionConfig{PartiesFile: s.PartiesFile})
			if err := ServeConn(ctx, conn, sess, connLog); err != nil {
				connLog.Warn("connection closed", zap.Error(err))
				return
			}
			connLog.Info("player left")
		}()
	}
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// ServeConn reads ClientMessages from rw and answers each with a
// ServerMessage until the peer closes the stream. Rejected messages are
// answered with an "error" reply and do not end the conversation.
func ServeConn(ctx context.Context, rw io.ReadWriter, sess *Session, logger *zap.Logger) error {
	dec := json.NewDecoder(rw)
	enc := json.NewEncoder(rw)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var msg ClientMessage
		if err := dec.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}

		reply, err := sess.Handle(msg)
		if err != nil {
			logger.Debug("message rejected", zap.String("type", msg.Type), zap.Error(err))
		}
		if err := enc.Encode(reply); err != nil {
			return fmt.Errorf("send %s: %w", reply.Type, err)
		}
	}
}
