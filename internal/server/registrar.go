package server

import "google.golang.org/grpc"

// Registrar attaches one API (accounts, social, images) to the gRPC server.
// Each service package exposes NewRegistrar(appCtx).
type Registrar interface {
	Register(s *grpc.Server)
}
