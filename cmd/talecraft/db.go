package main

import (
	"context"
	"fmt"
	"strings"

	"talecraft/internal/config"
	"talecraft/internal/store"
	"talecraft/internal/store/postgres"
	"talecraft/internal/store/sqlite"
)

const configFile = "talecraft.yaml"

func openDB(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	dsn := cfg.Database.DSN
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.New(ctx, dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.New(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported database dsn %q: expected sqlite:// or postgres://", dsn)
	}
}
