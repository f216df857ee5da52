package rpc

import (
	"errors"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/wfunc/drawguess/logger"
)

// ServiceName is the health-check service reported alongside the overall
// server status.
const ServiceName = "drawguess.GameServer"

// Server is the gRPC listener carrying the standard health service.
type Server struct {
	listener net.Listener
	address  string
	grpc     *grpc.Server
	health   *health.Server
}

// NewServer listens on addr.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewServerWithListener(listener), nil
}

// NewServerWithListener serves on an existing listener.
func NewServerWithListener(listener net.Listener) *Server {
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)

	return &Server{
		listener: listener,
		address:  listener.Addr().String(),
		grpc:     gs,
		health:   hs,
	}
}

// Start marks the server SERVING and blocks until Stop.
func (s *Server) Start() error {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	logger.Log.Infof("RPC server listening on %s", s.address)

	if err := s.grpc.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		logger.Log.Errorf("RPC server stopped: %v", err)
		return err
	}
	logger.Log.Info("RPC server listener closed.")
	return nil
}

// SetDraining reports NOT_SERVING while the process shuts down.
func (s *Server) SetDraining() {
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
}

// Stop drains in-flight calls and closes the listener.
func (s *Server) Stop() {
	logger.Log.Info("Stopping RPC server.")
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

func (s *Server) Addr() string {
	return s.address
}
