package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/saaslens/saaslens/pkg/analyzer"
	"github.com/saaslens/saaslens/pkg/storage"
	"github.com/saaslens/saaslens/pkg/translate"
)

type Server struct {
	mcp.Server
	storage    storage.Storage
	analyzer   *analyzer.Analyzer
	translator *translate.Translator
}

func NewServer(impl *mcp.Implementation, store storage.Storage, an *analyzer.Analyzer, tr *translate.Translator) *Server {
	return &Server{
		Server:     *mcp.NewServer(impl, nil),
		storage:    store,
		analyzer:   an,
		translator: tr,
	}
}

func (s *Server) Storage() storage.Storage {
	return s.storage
}

func (s *Server) Analyzer() *analyzer.Analyzer {
	return s.analyzer
}

func (s *Server) Translator() *translate.Translator {
	return s.translator
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
