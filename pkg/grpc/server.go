// Package grpc runs the optional gRPC side server. It exposes the standard
// grpc.health.v1.Health service, whose status follows the database ping, so
// orchestrators can probe the API without speaking HTTP.
//
// Features:
//   - Panic-recovery interceptor (returns INTERNAL status instead of killing goroutine)
//   - Request logging interceptor (method, duration, status code)
//   - Prometheus metrics interceptor, registered on /metrics
//   - Health status refreshed from a readiness probe
//   - Graceful shutdown via Stop()
//
// Usage in server bootstrap:
//
//	srv, err := grpc.Start(config.GRPCPort(), func(ctx context.Context) error {
//	    return database.Ping(ctx, db)
//	})
//	// ...run until signal...
//	srv.Stop()
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/shashiranjanraj/nutritrack/pkg/logger"
	"github.com/shashiranjanraj/nutritrack/pkg/metrics"
)

// ServiceName is the health-check service name besides the empty (overall) one.
const ServiceName = "nutritrack"

// ProbeInterval is how often the readiness probe is re-run.
var ProbeInterval = 10 * time.Second

// ─── Prometheus metrics ───────────────────────────────────────────────────────

var (
	grpcRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nutritrack",
		Subsystem: "grpc",
		Name:      "server_handled_total",
		Help:      "Total number of gRPC calls completed by method and code.",
	}, []string{"grpc_method", "grpc_code"})

	grpcRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nutritrack",
		Subsystem: "grpc",
		Name:      "server_handling_seconds",
		Help:      "Histogram of gRPC response latency in seconds.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"grpc_method"})
)

func init() {
	metrics.MustRegister(grpcRequestsTotal, grpcRequestDuration)
}

// ─── Interceptors ─────────────────────────────────────────────────────────────

// recoveryInterceptor catches panics in gRPC handlers and returns a gRPC
// INTERNAL error instead of crashing the process.
func recoveryInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("grpc: panic recovered",
				"method", info.FullMethod,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}

// observeInterceptor logs each unary RPC and records its metrics.
func observeInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	dur := time.Since(start)

	code := status.Code(err)
	grpcRequestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
	grpcRequestDuration.WithLabelValues(info.FullMethod).Observe(dur.Seconds())

	logger.Debug("grpc: request",
		"method", info.FullMethod,
		"duration_ms", dur.Milliseconds(),
		"code", code.String(),
	)
	return resp, err
}

// ─── Server ───────────────────────────────────────────────────────────────────

// Server is a running gRPC server plus its readiness prober.
type Server struct {
	srv    *grpc.Server
	lis    net.Listener
	health *health.Server
	check  func(context.Context) error

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Start listens on port and serves in the background. check decides whether
// the health service reports SERVING; nil means always serving.
func Start(port string, check func(context.Context) error) (*Server, error) {
	addr := ":" + port

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("grpc: listen on %s: %w", addr, err)
	}

	s := &Server{
		srv: grpc.NewServer(
			grpc.ChainUnaryInterceptor(recoveryInterceptor, observeInterceptor),
			grpc.MaxRecvMsgSize(4*1024*1024),
			grpc.MaxSendMsgSize(4*1024*1024),
		),
		lis:    lis,
		health: health.NewServer(),
		check:  check,
		stop:   make(chan struct{}),
	}

	grpc_health_v1.RegisterHealthServer(s.srv, s.health)
	// grpcurl works without proto files.
	reflection.Register(s.srv)

	s.probe()

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		if err := s.srv.Serve(lis); err != nil {
			logger.Error("grpc: serve error", "error", err)
		}
	}()
	go func() {
		defer s.wg.Done()
		s.probeLoop()
	}()

	logger.Info("gRPC server started", "addr", lis.Addr().String())
	return s, nil
}

// Addr is the bound listen address.
func (s *Server) Addr() net.Addr { return s.lis.Addr() }

func (s *Server) probeLoop() {
	t := time.NewTicker(ProbeInterval)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			s.probe()
		}
	}
}

func (s *Server) probe() {
	st := grpc_health_v1.HealthCheckResponse_SERVING
	if s.check != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := s.check(ctx)
		cancel()
		if err != nil {
			logger.Warn("grpc: readiness probe failed", "error", err)
			st = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// Stop marks the server NOT_SERVING and waits for in-flight RPCs to complete.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	s.stopOnce.Do(func() {
		logger.Info("gRPC server shutting down")
		close(s.stop)
		s.health.Shutdown()
		s.srv.GracefulStop()
		s.wg.Wait()
	})
}
