package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/fastboat/api"
	"github.com/Domenick1991/fastboat/config"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const shutdownTimeout = 5 * time.Second

type Servers struct {
	grpcServer *grpc.Server
	health     *health.Server
	grpcConn   *grpc.ClientConn
	httpServer *http.Server
}

// Run starts the gRPC health server and the HTTP API and blocks until ctx
// is canceled or a server fails. Without a gRPC address only HTTP runs.
func Run(ctx context.Context, cfg *config.Config, handlers api.Handlers, opts api.RouterOptions, log logrus.FieldLogger) error {
	s, err := newServers(cfg, handlers, opts, log)
	if err != nil {
		return err
	}
	defer s.close()

	errCh := make(chan error, 2)

	if s.grpcServer != nil {
		lis, err := net.Listen("tcp", cfg.GRPC.Address)
		if err != nil {
			return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
		}
		log.WithField("address", cfg.GRPC.Address).Info("gRPC server listening")
		go func() { errCh <- s.grpcServer.Serve(lis) }()
	}

	log.WithField("address", cfg.HTTP.Address).Info("HTTP server listening")
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if s.grpcServer != nil {
			s.health.Shutdown()
			s.grpcServer.GracefulStop()
		}
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newServers(cfg *config.Config, handlers api.Handlers, opts api.RouterOptions, log logrus.FieldLogger) (*Servers, error) {
	s := &Servers{}

	if cfg.GRPC.Address != "" {
		s.grpcServer = grpc.NewServer()
		s.health = health.NewServer()
		healthpb.RegisterHealthServer(s.grpcServer, s.health)
		reflection.Register(s.grpcServer)

		conn, err := grpc.NewClient(cfg.GRPC.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, fmt.Errorf("dial gRPC %s: %w", cfg.GRPC.Address, err)
		}
		s.grpcConn = conn

		// The gateway mux only serves /healthz, backed by the health service.
		opts.Healthz = runtime.NewServeMux(runtime.WithHealthzEndpoint(healthpb.NewHealthClient(conn)))
	}

	if opts.SwaggerDir == "" {
		opts.SwaggerDir = cfg.HTTP.SwaggerDir
	}

	s.httpServer = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           api.NewRouter(handlers, opts, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Servers) close() {
	if s.grpcConn != nil {
		_ = s.grpcConn.Close()
	}
}
