// Package sqlstore persists editable entities in relational tables through
// database/sql. Entity types map to pluralised snake_case tables
// ("BlogPost" -> "blog_posts"), attributes to snake_case columns, and
// one-to-one associations to "<attribute>_id" foreign key columns.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"

	"github.com/goliatone/go-inplace/pkg/model"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Options configures a Store.
type Options struct {
	TablePrefix string
	IDColumn    string
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// WithTablePrefix prepends prefix to every table name.
func WithTablePrefix(prefix string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.TablePrefix = prefix
	}
}

// WithIDColumn overrides the primary key column, "id" by default.
func WithIDColumn(column string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.IDColumn = column
	}
}

// Store implements update.Store on top of a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
	opts    Options

	mu     sync.RWMutex
	assocs map[string]model.Association
}

// New wraps db using the dialect for driver.
func New(db *sql.DB, driver string, fns ...OptionFn) (*Store, error) {
	if db == nil {
		return nil, errors.New("sqlstore: nil db")
	}
	dialect, err := DialectFromDriver(driver)
	if err != nil {
		return nil, err
	}
	opts := Options{IDColumn: "id"}
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	if strings.TrimSpace(opts.IDColumn) == "" {
		opts.IDColumn = "id"
	}
	if !identPattern.MatchString(opts.IDColumn) {
		return nil, fmt.Errorf("sqlstore: invalid id column %q", opts.IDColumn)
	}
	if opts.TablePrefix != "" && !identPattern.MatchString(opts.TablePrefix) {
		return nil, fmt.Errorf("sqlstore: invalid table prefix %q", opts.TablePrefix)
	}
	return &Store{
		db:      db,
		dialect: dialect,
		opts:    opts,
		assocs:  make(map[string]model.Association),
	}, nil
}

// TableName returns the table backing entityType.
func (s *Store) TableName(entityType string) (string, error) {
	table := s.opts.TablePrefix + inflection.Plural(strcase.ToSnake(strings.TrimSpace(entityType)))
	if !identPattern.MatchString(table) {
		return "", fmt.Errorf("sqlstore: invalid entity type %q", entityType)
	}
	return table, nil
}

// ColumnName returns the column backing attribute.
func ColumnName(attribute string) (string, error) {
	column := strcase.ToSnake(strings.TrimSpace(attribute))
	if !identPattern.MatchString(column) {
		return "", fmt.Errorf("sqlstore: invalid attribute %q", attribute)
	}
	return column, nil
}

// Declare records that entityType.attribute is an association. Single
// associations are stored in the "<attribute>_id" column.
func (s *Store) Declare(entityType, attribute string, assoc model.Association) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assocs[entityType+"."+attribute] = assoc
}

// Association implements update.Store.
func (s *Store) Association(entityType, attribute string) model.Association {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assocs[entityType+"."+attribute]
}

// Find implements update.Store. Every column of the row becomes an attribute,
// and declared single associations are exposed as a reference entity built
// from their "<attribute>_id" column.
func (s *Store) Find(ctx context.Context, entityType, id string) (model.Entity, error) {
	table, err := s.TableName(entityType)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = %s",
		s.dialect.QuoteIdent(table),
		s.dialect.QuoteIdent(s.opts.IDColumn),
		s.dialect.Placeholder(1),
	)
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: query %s: %w", table, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("sqlstore: query %s: %w", table, err)
		}
		return nil, model.NotFound(entityType, id)
	}
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlstore: columns %s: %w", table, err)
	}
	values := make([]any, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}
	if err := rows.Scan(targets...); err != nil {
		return nil, fmt.Errorf("sqlstore: scan %s: %w", table, err)
	}

	attrs := make(map[string]any, len(columns))
	for i, column := range columns {
		attrs[column] = normalize(values[i])
	}
	recordID := id
	if raw, ok := attrs[s.opts.IDColumn]; ok && raw != nil {
		recordID = model.DisplayText(raw)
	}
	for attribute, target := range s.singleAssociations(entityType) {
		column, err := ColumnName(attribute)
		if err != nil {
			continue
		}
		if fk, ok := attrs[column+"_id"]; ok && fk != nil {
			attrs[attribute] = model.NewRecord(target, model.DisplayText(fk), nil)
		}
	}
	return &Row{Record: model.NewRecord(entityType, recordID, attrs)}, rows.Err()
}

// singleAssociations returns attribute -> target for the one-to-one
// associations declared on entityType.
func (s *Store) singleAssociations(entityType string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string)
	prefix := entityType + "."
	for key, assoc := range s.assocs {
		if strings.HasPrefix(key, prefix) && assoc.IsSingle() {
			out[strings.TrimPrefix(key, prefix)] = assoc.Target
		}
	}
	return out
}

// UpdateAttribute implements update.Store. Entities assigned to a single
// association are written as their id into "<attribute>_id".
func (s *Store) UpdateAttribute(ctx context.Context, entity model.Entity, attribute string, value any) (model.Entity, error) {
	if entity == nil {
		return nil, errors.New("sqlstore: nil entity")
	}
	ref := entity.Ref()
	table, err := s.TableName(ref.Type)
	if err != nil {
		return nil, err
	}
	column, err := ColumnName(attribute)
	if err != nil {
		return nil, err
	}

	stored := value
	related, isEntity := value.(model.Entity)
	if isEntity {
		column += "_id"
		stored = related.Ref().ID
	}

	stmt := fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s = %s",
		s.dialect.QuoteIdent(table),
		s.dialect.QuoteIdent(column),
		s.dialect.Placeholder(1),
		s.dialect.QuoteIdent(s.opts.IDColumn),
		s.dialect.Placeholder(2),
	)
	if _, err := s.db.ExecContext(ctx, stmt, stored, ref.ID); err != nil {
		return nil, fmt.Errorf("sqlstore: update %s.%s: %w", table, column, err)
	}

	// Affected row counts are not portable: mysql reports changed rows, so
	// an unchanged value reads as 0. The reload reports missing rows.
	saved, err := s.Find(ctx, ref.Type, ref.ID)
	if err != nil {
		return nil, err
	}
	if isEntity {
		saved.(*Row).Set(attribute, related)
	}
	return saved, nil
}

// Insert writes a new row for record. Attribute names are converted to
// columns and the id column is always included.
func (s *Store) Insert(ctx context.Context, record *model.Record) error {
	if record == nil {
		return errors.New("sqlstore: nil record")
	}
	table, err := s.TableName(record.Type)
	if err != nil {
		return err
	}

	names := record.AttributeNames()
	columns := []string{s.dialect.QuoteIdent(s.opts.IDColumn)}
	args := []any{record.ID}
	for _, name := range names {
		column, err := ColumnName(name)
		if err != nil {
			return err
		}
		if column == s.opts.IDColumn {
			continue
		}
		value := record.Attributes[name]
		if related, ok := value.(model.Entity); ok {
			column += "_id"
			value = related.Ref().ID
		}
		columns = append(columns, s.dialect.QuoteIdent(column))
		args = append(args, value)
	}
	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = s.dialect.Placeholder(i + 1)
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.dialect.QuoteIdent(table),
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("sqlstore: insert %s: %w", table, err)
	}
	return nil
}

// Row is a record loaded from a table. Attribute lookups fall back to the
// snake_case column name, so "createdAt" reads "created_at".
type Row struct {
	*model.Record
}

// Get implements model.Entity.
func (r *Row) Get(attribute string) (any, bool) {
	if r == nil || r.Record == nil {
		return nil, false
	}
	if value, ok := r.Record.Get(attribute); ok {
		return value, true
	}
	return r.Record.Get(strcase.ToSnake(attribute))
}

func normalize(value any) any {
	if b, ok := value.([]byte); ok {
		return string(b)
	}
	return value
}
