package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"talecraft/internal/store"
	"talecraft/internal/tracks"
)

type Server struct {
	set *tracks.Set
	db  store.Store
	mcp *sdk.Server
}

func NewServer(set *tracks.Set, db store.Store, version string) *Server {
	s := &Server{
		set: set,
		db:  db,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "talecraft",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
