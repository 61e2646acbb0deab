package httpserver

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
)

type Config struct {
	Host string `json:"host"`
}

// Server wraps an http.Server behind the component lifecycle, so the app
// can start and stop it like the other infrastructure pieces.
type Server struct {
	cfg     Config
	srv     *http.Server
	handler http.Handler
}

func NewServer(cfg Config, handler http.Handler) *Server {
	return &Server{
		cfg:     cfg,
		handler: handler,
	}
}

func (s *Server) Start(ctx context.Context) error {
	if s.srv != nil {
		return errors.New("server is already running")
	}

	s.srv = &http.Server{
		Addr:    s.cfg.Host,
		Handler: s.handler,
	}

	lis, err := net.Listen("tcp", s.cfg.Host)
	if err != nil {
		return err
	}

	go func() {
		if err := s.srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("failed to serve: %v", err)
		}
	}()

	log.Printf("HTTP server is running on %s", s.cfg.Host)

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return errors.New("server is not running")
	}
	return s.srv.Shutdown(ctx)
}
