package tools

import (
	"github.com/saaslens/saaslens/pkg/server"
)

type Tool interface {
	Register(srv *server.Server) error
}
