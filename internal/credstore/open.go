package credstore

import (
	"context"
	"fmt"

	"github.com/pribylovaa/jobfeed/internal/config"
)

// Open выбирает реализацию по cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	const op = "credstore.Open"

	switch cfg.Driver {
	case "memory":
		return NewMemory(), nil
	case "file", "":
		s, err := OpenFile(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return s, nil
	case "redis":
		s, err := NewRedis(ctx, cfg.RedisURL, cfg.Prefix)
		if err != nil {
			return nil, fmt.Errorf("%s: redis: %w", op, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownDriver, cfg.Driver)
	}
}
