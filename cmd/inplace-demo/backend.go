package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-inplace/internal/config"
	"github.com/goliatone/go-inplace/pkg/model"
	"github.com/goliatone/go-inplace/pkg/store/memory"
	"github.com/goliatone/go-inplace/pkg/store/redisstore"
	"github.com/goliatone/go-inplace/pkg/store/sqlstore"
	"github.com/goliatone/go-inplace/pkg/update"
)

// backend bundles a store with the hooks the demo needs to seed it.
type backend struct {
	store   update.Store
	declare func(entityType, attribute string, assoc model.Association)
	insert  func(ctx context.Context, record *model.Record) error
	close   func() error
}

func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	switch strings.ToLower(cfg.Store) {
	case config.StoreSQL:
		db, err := sql.Open(cfg.SQLDriver, cfg.SQLDSN)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.SQLDriver, err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping %s: %w", cfg.SQLDriver, err)
		}
		store, err := sqlstore.New(db, cfg.SQLDriver, sqlstore.WithTablePrefix(cfg.TablePrefix))
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if err := createTables(ctx, db, store); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &backend{store: store, declare: store.Declare, insert: store.Insert, close: db.Close}, nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		store := redisstore.New(client, cfg.RedisPrefix)
		return &backend{store: store, declare: store.Declare, insert: store.Put, close: client.Close}, nil

	default:
		store := memory.New()
		return &backend{
			store:   store,
			declare: store.Declare,
			insert: func(_ context.Context, record *model.Record) error {
				store.Put(record)
				return nil
			},
			close: func() error { return nil },
		}, nil
	}
}

// createTables creates the demo schema when missing. The statement is
// portable across sqlite, postgres and mysql.
func createTables(ctx context.Context, db *sql.DB, store *sqlstore.Store) error {
	schema := map[string][]string{
		"author": {"name VARCHAR(255)"},
		"post":   {"title VARCHAR(255)", "status VARCHAR(32)", "author_id VARCHAR(64)"},
	}
	for entityType, columns := range schema {
		table, err := store.TableName(entityType)
		if err != nil {
			return err
		}
		stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (id VARCHAR(64) PRIMARY KEY, %s)", table, strings.Join(columns, ", "))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create %s: %w", table, err)
		}
	}
	return nil
}

var (
	demoAuthors = []*model.Record{
		model.NewRecord("author", "1", map[string]any{"name": "Ada Lovelace"}),
		model.NewRecord("author", "2", map[string]any{"name": "Grace Hopper"}),
	}
	demoPosts = []*model.Record{
		model.NewRecord("post", "1", map[string]any{"title": "Hello <inline> editing", "status": "draft", "author": demoAuthors[0]}),
		model.NewRecord("post", "2", map[string]any{"title": "Second post", "status": "published", "author": demoAuthors[1]}),
	}
)

// seed declares the demo associations and inserts the demo records that are
// not present yet.
func (b *backend) seed(ctx context.Context) error {
	b.declare("post", "author", model.SingleAssociation("author"))
	for _, record := range append(append([]*model.Record(nil), demoAuthors...), demoPosts...) {
		_, err := b.store.Find(ctx, record.Type, record.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, model.ErrNotFound) {
			return err
		}
		if err := b.insert(ctx, record); err != nil {
			return fmt.Errorf("seed %s: %w", record.Ref(), err)
		}
	}
	return nil
}
