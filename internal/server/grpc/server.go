package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophreveal/internal/api"
	"github.com/dmitrijs2005/gophreveal/internal/logging"
	"github.com/dmitrijs2005/gophreveal/internal/server/metrics"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	api.UnimplementedRevealServiceServer
	address   string
	reveal    Service
	metrics   *metrics.Metrics
	logger    logging.Logger
	jwtSecret []byte
}

// NewGRPCServer builds the server; m may be nil.
func NewGRPCServer(a string, l logging.Logger, rs Service, m *metrics.Metrics, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		reveal:    rs,
		metrics:   m,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor))
	api.RegisterRevealServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
