package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jzsun22/orvia-scheduler/internal/config"
	"github.com/jzsun22/orvia-scheduler/pkg/db"
	"github.com/jzsun22/orvia-scheduler/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database db.Database
	Postgres *postgres.DB
	Logger   *zap.Logger
	Ctx      context.Context
}
