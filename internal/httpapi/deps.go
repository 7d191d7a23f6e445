package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"go.uber.org/zap"

	"leadhunt-engine/internal/config"
	"leadhunt-engine/internal/events"
)

type Deps struct {
	// DB is nil when storage is disabled; /leads then answers 503.
	DB *sql.DB

	Hub *events.Hub
	Log *zap.Logger

	CfgVal  *atomic.Value // stores config.Config
	Tracker *Tracker

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// BaseCtx outlives single requests; runs started over HTTP use it.
	BaseCtx context.Context
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}
