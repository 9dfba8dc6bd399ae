package sqlite

import (
	"context"

	"github.com/aussiebroadwan/authlab/internal/authlab/domain"
	"github.com/aussiebroadwan/authlab/internal/authlab/schema"
	"github.com/aussiebroadwan/authlab/internal/authlab/store"
)

var (
	selectSessions = selectFrom(schema.TableSessions, schema.Sessions.Columns)
	insertSession  = insertInto(schema.TableSessions, schema.Sessions.Columns)
)

type sessionsRepo struct {
	db DBTX
}

func (r *sessionsRepo) Insert(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, insertSession,
		s.ID,
		s.UserID,
		s.Token,
		s.IPAddress,
		s.UserAgent,
		domain.FormatTime(s.CreatedAt),
		domain.FormatTime(s.ExpiresAt),
		domain.FormatFlag(s.Active),
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) Get(ctx context.Context, id string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx, selectSessions+" WHERE session_id = ?", id)
	s, err := scanSession(row)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sessionsRepo) List(ctx context.Context, page store.Page) ([]domain.Session, error) {
	limit, offset := limitOffset(page)
	return r.query(ctx, selectSessions+" ORDER BY session_id LIMIT ? OFFSET ?", limit, offset)
}

func (r *sessionsRepo) ListByUser(ctx context.Context, userID string) ([]domain.Session, error) {
	return r.query(ctx, selectSessions+" WHERE user_id = ? ORDER BY session_id", userID)
}

func (r *sessionsRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, schema.TableSessions)
}

func (r *sessionsRepo) query(ctx context.Context, q string, args ...any) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSession(sc scanner) (domain.Session, error) {
	var (
		s                              domain.Session
		createdAt, expiresAt, isActive string
	)
	if err := sc.Scan(
		&s.ID, &s.UserID, &s.Token, &s.IPAddress, &s.UserAgent,
		&createdAt, &expiresAt, &isActive,
	); err != nil {
		return domain.Session{}, err
	}

	var err error
	if s.CreatedAt, err = domain.ParseTime(createdAt); err != nil {
		return domain.Session{}, rowError(schema.TableSessions, s.ID, err)
	}
	if s.ExpiresAt, err = domain.ParseTime(expiresAt); err != nil {
		return domain.Session{}, rowError(schema.TableSessions, s.ID, err)
	}
	if s.Active, err = domain.ParseFlag(isActive); err != nil {
		return domain.Session{}, rowError(schema.TableSessions, s.ID, err)
	}
	return s, nil
}
