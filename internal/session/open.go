package session

import (
	"fmt"
	"io"

	"github.com/atinyakov/JapaKeeper/internal/client/storage"
	"github.com/atinyakov/JapaKeeper/internal/db"
	"github.com/atinyakov/JapaKeeper/internal/repository"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenKV builds the backing store named by kind ("sqlite", "postgres" or
// "file") at dsn. The returned Closer releases the database connection.
func OpenKV(kind, dsn string) (KV, io.Closer, error) {
	switch kind {
	case "file":
		return storage.NewFileStore(dsn), nopCloser{}, nil
	case "sqlite", "postgres":
		conn, err := db.Open(kind, dsn)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLKVRepository(conn), conn, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", kind)
	}
}
