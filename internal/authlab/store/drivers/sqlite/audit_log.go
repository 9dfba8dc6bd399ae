package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/authlab/internal/authlab/domain"
	"github.com/aussiebroadwan/authlab/internal/authlab/schema"
	"github.com/aussiebroadwan/authlab/internal/authlab/store"
)

var (
	selectAuditLog = selectFrom(schema.TableAuditLog, schema.AuditLog.Columns)
	insertAudit    = insertInto(schema.TableAuditLog, schema.AuditLog.Columns)
)

type auditLogRepo struct {
	db DBTX
}

func (r *auditLogRepo) Insert(ctx context.Context, e domain.AuditEvent) error {
	_, err := r.db.ExecContext(ctx, insertAudit,
		e.ID,
		mapOptionalString(e.UserID),
		string(e.Type),
		e.IPAddress,
		e.Details,
		domain.FormatTime(e.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *auditLogRepo) Get(ctx context.Context, id string) (domain.AuditEvent, error) {
	row := r.db.QueryRowContext(ctx, selectAuditLog+" WHERE event_id = ?", id)
	e, err := scanAuditEvent(row)
	if err != nil {
		return domain.AuditEvent{}, mapNotFound(err)
	}
	return e, nil
}

func (r *auditLogRepo) List(ctx context.Context, page store.Page) ([]domain.AuditEvent, error) {
	limit, offset := limitOffset(page)
	rows, err := r.db.QueryContext(ctx, selectAuditLog+" ORDER BY event_id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEvent
	for rows.Next() {
		e, err := scanAuditEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *auditLogRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, schema.TableAuditLog)
}

func scanAuditEvent(sc scanner) (domain.AuditEvent, error) {
	var (
		e                    domain.AuditEvent
		userID               sql.NullString
		eventType, createdAt string
	)
	if err := sc.Scan(
		&e.ID, &userID, &eventType, &e.IPAddress, &e.Details, &createdAt,
	); err != nil {
		return domain.AuditEvent{}, err
	}

	e.UserID = mapNullStringPtr(userID)

	var err error
	if e.Type, err = domain.ParseEventType(eventType); err != nil {
		return domain.AuditEvent{}, rowError(schema.TableAuditLog, e.ID, err)
	}
	if e.CreatedAt, err = domain.ParseTime(createdAt); err != nil {
		return domain.AuditEvent{}, rowError(schema.TableAuditLog, e.ID, err)
	}
	return e, nil
}
