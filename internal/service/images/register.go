package images

import (
	"google.golang.org/grpc"

	"github.com/oggyb/pinmark/internal/api"
	"github.com/oggyb/pinmark/internal/app"
)

// Registrar ties the Image service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Image service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Image service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	api.RegisterImageServiceServer(s, NewImageService(r.appCtx))
}
