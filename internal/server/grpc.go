package server

import (
	"context"
	"net"

	"github.com/MKhiriev/mint-sync/internal/config"
	myGRPC "github.com/MKhiriev/mint-sync/internal/handler/grpc"

	"google.golang.org/grpc"
)

type grpcServer struct {
	address string
	server  *grpc.Server
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server) *grpcServer {
	server := grpc.NewServer(handler.ServerOptions()...)
	handler.Register(server)

	return &grpcServer{
		address: cfg.GRPCAddress,
		server:  server,
	}
}

func (g *grpcServer) RunServer() error {
	listener, err := net.Listen("tcp", g.address)
	if err != nil {
		return err
	}
	return g.server.Serve(listener)
}

// Shutdown waits for in-flight calls and forces a stop when ctx is done.
func (g *grpcServer) Shutdown(ctx context.Context) error {
	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		g.server.Stop()
		return ctx.Err()
	}
}

func (g *grpcServer) Name() string {
	return "grpc"
}
