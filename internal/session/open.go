package session

import (
	"context"
	"fmt"
	"strings"
)

const hybridPrefix = "hybrid+"

// Open picks a Store from a session setting:
//
//	""/"badger"        badger database in dataDir
//	"memory"           process memory only
//	"redis://host:port" redis, shared between terminals
//	"hybrid+redis://host:port" redis with a badger copy in dataDir
func Open(ctx context.Context, setting, dataDir string) (Store, error) {
	switch {
	case setting == "" || setting == "badger":
		if dataDir == "" {
			return nil, fmt.Errorf("badger session needs a data directory")
		}
		return NewBadgerStore(dataDir)
	case setting == "memory":
		return NewMemoryStore(), nil
	case strings.HasPrefix(setting, hybridPrefix):
		return NewHybridStore(ctx, strings.TrimPrefix(setting, hybridPrefix), dataDir)
	case strings.HasPrefix(setting, "redis://"), strings.HasPrefix(setting, "rediss://"):
		return NewRedisStore(ctx, setting, "")
	default:
		return nil, fmt.Errorf("unknown session store %q", setting)
	}
}
