package sqlstore

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-inplace/pkg/editor"
	"github.com/goliatone/go-inplace/pkg/field"
	"github.com/goliatone/go-inplace/pkg/model"
)

func newMock(t *testing.T, driver string, fns ...OptionFn) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store, err := New(db, driver, fns...)
	require.NoError(t, err)
	return store, mock
}

func TestStore_TableName(t *testing.T) {
	store, _ := newMock(t, "postgres")
	cases := map[string]string{
		"post":     "posts",
		"BlogPost": "blog_posts",
		"person":   "people",
	}
	for entityType, want := range cases {
		got, err := store.TableName(entityType)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	prefixed, _ := newMock(t, "mysql", WithTablePrefix("app_"))
	got, err := prefixed.TableName("post")
	require.NoError(t, err)
	assert.Equal(t, "app_posts", got)

	_, err = store.TableName("posts; drop")
	assert.Error(t, err)
}

func TestStore_FindPostgres(t *testing.T) {
	store, mock := newMock(t, "postgres")
	mock.ExpectQuery(`SELECT * FROM "posts" WHERE "id" = $1`).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "created_at"}).
			AddRow(int64(1), []byte("Hello"), "2024-01-02"))

	entity, err := store.Find(context.Background(), "post", "1")
	require.NoError(t, err)
	assert.Equal(t, model.Ref{Type: "post", ID: "1"}, entity.Ref())

	title, ok := entity.Get("title")
	require.True(t, ok)
	assert.Equal(t, "Hello", title)

	created, ok := entity.Get("createdAt")
	require.True(t, ok)
	assert.Equal(t, "2024-01-02", created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindMissing(t *testing.T) {
	store, mock := newMock(t, "sqlite3")
	mock.ExpectQuery(`SELECT * FROM "posts" WHERE "id" = ?`).
		WithArgs("404").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

	_, err := store.Find(context.Background(), "post", "404")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindQueryError(t *testing.T) {
	store, mock := newMock(t, "mysql")
	mock.ExpectQuery("SELECT * FROM `posts` WHERE `id` = ?").
		WithArgs("1").
		WillReturnError(sql.ErrConnDone)

	_, err := store.Find(context.Background(), "post", "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NotErrorIs(t, err, model.ErrNotFound)
}

func TestStore_UpdateAttribute(t *testing.T) {
	store, mock := newMock(t, "mysql")
	mock.ExpectExec("UPDATE `posts` SET `title` = ? WHERE `id` = ?").
		WithArgs("Updated", "1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT * FROM `posts` WHERE `id` = ?").
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(int64(1), []byte("Updated")))

	post := model.NewRecord("post", "1", nil)
	saved, err := store.UpdateAttribute(context.Background(), post, "title", "Updated")
	require.NoError(t, err)
	title, _ := saved.Get("title")
	assert.Equal(t, "Updated", title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateAssociation(t *testing.T) {
	store, mock := newMock(t, "postgres")
	store.Declare("post", "author", model.SingleAssociation("author"))
	assert.True(t, store.Association("post", "author").IsSingle())
	assert.False(t, store.Association("post", "title").IsSingle())

	mock.ExpectExec(`UPDATE "posts" SET "author_id" = $1 WHERE "id" = $2`).
		WithArgs("7", "1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT * FROM "posts" WHERE "id" = $1`).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "author_id"}).AddRow(int64(1), int64(7)))

	author := model.NewRecord("author", "7", map[string]any{"name": "Ada"})
	saved, err := store.UpdateAttribute(context.Background(), model.NewRecord("post", "1", nil), "author", author)
	require.NoError(t, err)

	value, ok := saved.Get("author")
	require.True(t, ok)
	assert.Equal(t, "7", model.DisplayText(value))
	fk, _ := saved.Get("author_id")
	assert.Equal(t, int64(7), fk)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateMissingRow(t *testing.T) {
	store, mock := newMock(t, "sqlite")
	mock.ExpectExec(`UPDATE "posts" SET "title" = ? WHERE "id" = ?`).
		WithArgs("x", "9").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT * FROM "posts" WHERE "id" = ?`).
		WithArgs("9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

	_, err := store.UpdateAttribute(context.Background(), model.NewRecord("post", "9", nil), "title", "x")
	assert.ErrorIs(t, err, model.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateUnchangedValueMySQL(t *testing.T) {
	store, mock := newMock(t, "mysql")
	// mysql reports changed rows, so resubmitting the same value affects none.
	mock.ExpectExec("UPDATE `posts` SET `title` = ? WHERE `id` = ?").
		WithArgs("Same", "1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT * FROM `posts` WHERE `id` = ?").
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(int64(1), []byte("Same")))

	saved, err := store.UpdateAttribute(context.Background(), model.NewRecord("post", "1", nil), "title", "Same")
	require.NoError(t, err)
	title, _ := saved.Get("title")
	assert.Equal(t, "Same", title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindExposesSingleAssociation(t *testing.T) {
	store, mock := newMock(t, "postgres")
	store.Declare("post", "author", model.SingleAssociation("author"))
	mock.ExpectQuery(`SELECT * FROM "posts" WHERE "id" = $1`).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author_id"}).AddRow(int64(1), "Hello", int64(7)))

	post, err := store.Find(context.Background(), "post", "1")
	require.NoError(t, err)

	value, ok := post.Get("author")
	require.True(t, ok)
	related, isEntity := value.(model.Entity)
	require.True(t, isEntity)
	assert.Equal(t, model.Ref{Type: "author", ID: "7"}, related.Ref())

	markup, err := field.New(editor.Env{}).Render(post, "author", field.TagOptions{}, editor.Options{URL: editor.URL("/set_post_author")})
	require.NoError(t, err)
	assert.Contains(t, markup, `<span class="in_place_editor_field" id="post_author_1_in_place_editor">7</span>`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Insert(t *testing.T) {
	store, mock := newMock(t, "postgres")
	mock.ExpectExec(`INSERT INTO "posts" ("id", "author_id", "created_at", "title") VALUES ($1, $2, $3, $4)`).
		WithArgs("1", "7", "2024-01-02", "Hello").
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := model.NewRecord("post", "1", map[string]any{
		"title":     "Hello",
		"createdAt": "2024-01-02",
		"author":    model.NewRecord("author", "7", nil),
	})
	require.NoError(t, store.Insert(context.Background(), record))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNew_Validation(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = New(nil, "postgres")
	assert.Error(t, err)
	_, err = New(db, "oracle")
	assert.Error(t, err)
	_, err = New(db, "mysql", WithIDColumn("id; --"))
	assert.Error(t, err)
}
