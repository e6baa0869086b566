package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/fairshift/internal/config"
	"github.com/jakechorley/fairshift/pkg/core/solver"
	"github.com/jakechorley/fairshift/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Solver solver.Solver
	RunDB  *postgres.DB
	Logger *zap.Logger
	Ctx    context.Context
}
