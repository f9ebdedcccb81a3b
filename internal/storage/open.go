package storage

import (
	"strings"

	"github.com/julianstephens/lunite/internal/storage/postgres"
	"github.com/julianstephens/lunite/internal/storage/sqlite"
)

type Kind string

const (
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindJSON     Kind = "json"
)

// KindOf picks a backend for a storage target: Postgres connection strings,
// *.json files, and SQLite for any other path.
func KindOf(target string) Kind {
	switch {
	case postgres.IsConnString(target):
		return KindPostgres
	case strings.HasSuffix(strings.ToLower(target), ".json"):
		return KindJSON
	default:
		return KindSQLite
	}
}

// Open returns the provider for target without touching the backing store.
// File paths must already be expanded.
func Open(target string) Provider {
	switch KindOf(target) {
	case KindPostgres:
		return postgres.New(target)
	case KindJSON:
		return NewJSONStore(target)
	default:
		return sqlite.NewStore(target)
	}
}

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
	_ Provider = (*JSONStore)(nil)
)
