package engine

import (
	"fmt"

	"tickethub/internal/domain/ticket"
	sharedConfig "tickethub/internal/shared/config"
	"tickethub/internal/shared/logger"
)

// New builds the engine named by kind from storage configuration. The engine
// is returned uninitialized; the caller owns its lifecycle.
func New(kind ticket.Kind, cfg *sharedConfig.StorageConfig, log logger.Interface) (ticket.Engine, error) {
	switch kind {
	case ticket.KindCachedSQLite:
		return NewCached(&cfg.SQLite, log), nil
	case ticket.KindMySQL:
		return NewRemote(&cfg.MySQL, log), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}
