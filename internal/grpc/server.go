package grpc

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName 健康检查中关联存储对应的服务名
const ServiceName = "atlas-forum.association"

// Pinger 健康检查依赖的存储
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wraps the gRPC server
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	health     *health.Server
	store      Pinger
	interval   time.Duration
	done       chan struct{}
}

// NewServer creates a gRPC server exposing the standard health service
func NewServer(port int, store Pinger, interval time.Duration) (*Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", port, err)
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(logUnary))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		grpcServer: grpcServer,
		listener:   listener,
		health:     healthServer,
		store:      store,
		interval:   interval,
		done:       make(chan struct{}),
	}, nil
}

// Start starts the gRPC server (blocking)
func (s *Server) Start() error {
	s.check()
	go s.watch()
	return s.grpcServer.Serve(s.listener)
}

// Stop gracefully stops the gRPC server
func (s *Server) Stop() {
	close(s.done)
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// GetAddr returns the server address
func (s *Server) GetAddr() string {
	return s.listener.Addr().String()
}

// watch 定期检查存储，刷新健康状态
func (s *Server) watch() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.check()
		}
	}
}

func (s *Server) check() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.store.Ping(ctx); err != nil {
		log.Printf("[grpc] 关联存储不可用: %v", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		log.Printf("[grpc] %s error=%v duration=%dms", info.FullMethod, err, time.Since(start).Milliseconds())
	}
	return resp, err
}
