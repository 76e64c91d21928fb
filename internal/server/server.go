package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server hosts the gRPC and HTTP front doors of one Service.
type Server struct {
	log          *logrus.Entry
	grpcListener net.Listener
	httpListener net.Listener
	grpcServer   *grpc.Server
	httpServer   *http.Server
	health       *health.Server
}

// New listens on both addresses. Either address may be ":0".
func New(grpcAddr, httpAddr string, svc *Service) (*Server, error) {
	gl, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", grpcAddr, err)
	}
	hl, err := net.Listen("tcp", httpAddr)
	if err != nil {
		_ = gl.Close()
		return nil, fmt.Errorf("listen on %s: %w", httpAddr, err)
	}

	grpcServer := grpc.NewServer()
	RegisterSimulatorServer(grpcServer, NewGRPCSimulator(svc))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return &Server{
		log:          svc.log,
		grpcListener: gl,
		httpListener: hl,
		grpcServer:   grpcServer,
		httpServer: &http.Server{
			Handler:           svc.Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		health: healthServer,
	}, nil
}

func (s *Server) GRPCAddr() string { return s.grpcListener.Addr().String() }
func (s *Server) HTTPAddr() string { return s.httpListener.Addr().String() }

// Serve runs both servers until ctx is done or one of them fails.
func (s *Server) Serve(ctx context.Context) error {
	defer s.Close()

	s.log.WithFields(logrus.Fields{
		"grpc": s.GRPCAddr(),
		"http": s.HTTPAddr(),
	}).Info("simulator listening")

	serveErr := make(chan error, 2)
	go func() {
		if err := s.grpcServer.Serve(s.grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErr <- fmt.Errorf("serve gRPC: %w", err)
			return
		}
		serveErr <- nil
	}()
	go func() {
		if err := s.httpServer.Serve(s.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("serve HTTP: %w", err)
			return
		}
		serveErr <- nil
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpErr := s.httpServer.Shutdown(shutdownCtx)
		s.grpcServer.GracefulStop()
		return errors.Join(httpErr, <-serveErr, <-serveErr)
	case err := <-serveErr:
		return err
	}
}

// Close stops both servers immediately.
func (s *Server) Close() {
	s.health.Shutdown()
	s.grpcServer.Stop()
	_ = s.httpServer.Close()
	_ = s.grpcListener.Close()
	_ = s.httpListener.Close()
}
