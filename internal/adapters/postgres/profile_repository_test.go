package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/viralforge/profiles-service/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// scriptedPool is a gorm.ConnPool that answers every write with err.
type scriptedPool struct {
	err   error
	execs []string
}

func (p *scriptedPool) PrepareContext(context.Context, string) (*sql.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (p *scriptedPool) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	p.execs = append(p.execs, query)
	if p.err != nil {
		return nil, p.err
	}
	return driverResult(1), nil
}

func (p *scriptedPool) QueryContext(_ context.Context, query string, _ ...any) (*sql.Rows, error) {
	p.execs = append(p.execs, query)
	if p.err != nil {
		return nil, p.err
	}
	return nil, errors.New("query not supported")
}

func (p *scriptedPool) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

type driverResult int64

func (r driverResult) LastInsertId() (int64, error) { return 0, nil }

func (r driverResult) RowsAffected() (int64, error) { return int64(r), nil }

func newScriptedRepo(t *testing.T, pool *scriptedPool) *profileRepository {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: pool}), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	return &profileRepository{db: db}
}

func adaDraft() domain.ProfileDraft {
	return domain.ProfileDraft{
		FullName:        "Ada Lovelace",
		Email:           "Ada@Example.com",
		Mobile:          "0123456789",
		Address:         "London",
		AcademicDetails: domain.Document{"degree": "Mathematics"},
		Skills:          []string{"analysis"},
		Resume:          "https://example.com/ada.pdf",
	}
}

var repoNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestInsertWritesNormalizedProfile(t *testing.T) {
	t.Parallel()

	pool := &scriptedPool{}
	repo := newScriptedRepo(t, pool)
	created, err := repo.Insert(context.Background(), adaDraft(), repoNow)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if created.Email != "ada@example.com" || created.ID == "" || !created.CreatedAt.Equal(repoNow) {
		t.Fatalf("unexpected profile: %+v", created)
	}
	if len(pool.execs) != 1 || !strings.HasPrefix(pool.execs[0], `INSERT INTO "profiles"`) {
		t.Fatalf("expected a single insert, got %q", pool.execs)
	}
}

func TestInsertMapsUniqueViolationToProfileExists(t *testing.T) {
	t.Parallel()

	pool := &scriptedPool{err: &pgconn.PgError{
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "profiles_email_unique"`,
		ConstraintName: "profiles_email_unique",
	}}
	repo := newScriptedRepo(t, pool)
	_, err := repo.Insert(context.Background(), adaDraft(), repoNow)
	if !errors.Is(err, domain.ErrProfileExists) {
		t.Fatalf("expected ErrProfileExists, got %v", err)
	}
}

func TestInsertMapsOtherFailuresToStorageUnavailable(t *testing.T) {
	t.Parallel()

	pool := &scriptedPool{err: &pgconn.PgError{Code: "57P01", Message: "terminating connection due to administrator command"}}
	repo := newScriptedRepo(t, pool)
	_, err := repo.Insert(context.Background(), adaDraft(), repoNow)
	if !errors.Is(err, domain.ErrStorageUnavailable) || errors.Is(err, domain.ErrProfileExists) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestInsertRejectsInvalidDraftBeforeWriting(t *testing.T) {
	t.Parallel()

	pool := &scriptedPool{}
	repo := newScriptedRepo(t, pool)
	draft := adaDraft()
	draft.Email = "ada.example.com"
	_, err := repo.Insert(context.Background(), draft, repoNow)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(pool.execs) != 0 {
		t.Fatalf("expected no statements, got %q", pool.execs)
	}
}
