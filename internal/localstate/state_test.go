package localstate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/redis/go-redis/v9"
)

func TestKeyIsStableAndOpaque(t *testing.T) {
	k := Key("guest:abc")
	if k != Key("guest:abc") {
		t.Fatalf("expected stable key")
	}
	if !strings.HasPrefix(k, "dn-cv-data:") || strings.Contains(k, "guest") {
		t.Fatalf("unexpected key %q", k)
	}
	if k == Key("guest:abd") {
		t.Fatalf("expected distinct keys per identity")
	}
}

func exerciseState(t *testing.T, s State) {
	t.Helper()
	ctx := context.Background()
	key := Key("user-1")

	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before put, got %v", err)
	}
	if err := s.Put(ctx, key, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, key, []byte(`{"a":2}`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"a":2}` {
		t.Fatalf("Get = %s", got)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete twice: %v", err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryState(t *testing.T) {
	exerciseState(t, NewMemoryState())
}

func TestMemoryStateCopiesValues(t *testing.T) {
	s := NewMemoryState()
	ctx := context.Background()
	v := []byte("abc")
	_ = s.Put(ctx, "k", v)
	v[0] = 'x'
	got, _ := s.Get(ctx, "k")
	got[1] = 'y'
	again, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("stored value was aliased: %s", again)
	}
}

func TestFileState(t *testing.T) {
	exerciseState(t, &FileState{Dir: t.TempDir()})
}

func TestFileStateRejectsTraversal(t *testing.T) {
	s := &FileState{Dir: t.TempDir()}
	if err := s.Put(context.Background(), "../escape", []byte("x")); err == nil {
		t.Fatalf("expected invalid key error")
	}
}

func TestPGStatePutUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s := &PGState{DB: db}
	mock.ExpectExec("INSERT INTO document_state").
		WithArgs("k", []byte("v")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := s.Put(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStateGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s := &PGState{DB: db}
	mock.ExpectQuery("SELECT value").
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"x":1}`)))
	mock.ExpectQuery("SELECT value").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	got, err := s.Get(context.Background(), "k")
	if err != nil || string(got) != `{"x":1}` {
		t.Fatalf("Get = %s, %v", got, err)
	}
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStateDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("DELETE FROM document_state").
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := (&PGState{DB: db}).Delete(context.Background(), "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

type fakeRedis struct {
	values map[string]string
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if expiration != 0 {
		return redis.NewStatusResult("", errors.New("unexpected expiration"))
	}
	f.values[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisState(t *testing.T) {
	exerciseState(t, &RedisState{client: &fakeRedis{values: map[string]string{}}})
}
