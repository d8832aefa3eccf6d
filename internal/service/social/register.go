package social

import (
	"google.golang.org/grpc"

	"github.com/oggyb/pinmark/internal/api"
	"github.com/oggyb/pinmark/internal/app"
)

// Registrar ties the Social service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Social service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Social service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	api.RegisterSocialServiceServer(s, NewSocialService(r.appCtx))
}
