package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/michaelscutari/filetally/internal/logging"
	"github.com/michaelscutari/filetally/internal/metrics"
	"github.com/michaelscutari/filetally/internal/record"
)

// Server represents the HTTP API server.
type Server struct {
	srv *http.Server
}

// NewServer creates a server for records listening on addr.
func NewServer(addr string, records []record.FileRecord) *Server {
	metrics.SetLoadedRecords(len(records))
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(records),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logging.L().Info("listening", zap.String("addr", s.srv.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
