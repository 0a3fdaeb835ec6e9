package root

import (
	"context"
	"database/sql"

	"ritualist/internal/catalog"
	"ritualist/internal/engine"
	"ritualist/internal/storage"
)

func openDB(ctx context.Context) (*sql.DB, func(), error) {
	path, err := storage.ResolveDBPath()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

func buildService(db *sql.DB) (*engine.Service, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	return engine.NewService(db, cat, engine.NewStoreProfiles(db), engine.NewStoreRewards(db)), nil
}

func openService(ctx context.Context) (*engine.Service, func(), error) {
	db, cleanup, err := openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	svc, err := buildService(db)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}
