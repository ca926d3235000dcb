package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pantryshop/storefront/constants"
	"github.com/pantryshop/storefront/model"
)

// DefaultListLimit caps ListStatusChecks when no limit is given.
const DefaultListLimit = 1000

type Storage interface {
	SaveStatusCheck(ctx context.Context, check *model.StatusCheck) error
	ListStatusChecks(ctx context.Context, limit int) ([]*model.StatusCheck, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// NewStorageFromURL picks the backend from the URL scheme: mongodb and
// mongodb+srv open MongoDB, memory keeps everything in process.
func NewStorageFromURL(ctx context.Context, rawURL, dbName string) (Storage, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", constants.EnvMongoURL, err)
	}
	switch strings.ToLower(u.Scheme) {
	case constants.SchemeMongo, constants.SchemeMongoSRV:
		return NewMongoStorage(ctx, rawURL, dbName)
	case constants.SchemeMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported %s scheme %q", constants.EnvMongoURL, u.Scheme)
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > DefaultListLimit {
		return DefaultListLimit
	}
	return limit
}
