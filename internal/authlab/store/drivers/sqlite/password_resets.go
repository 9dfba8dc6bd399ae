package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/authlab/internal/authlab/domain"
	"github.com/aussiebroadwan/authlab/internal/authlab/schema"
	"github.com/aussiebroadwan/authlab/internal/authlab/store"
)

var (
	selectPasswordResets = selectFrom(schema.TablePasswordResets, schema.PasswordResets.Columns)
	insertPasswordReset  = insertInto(schema.TablePasswordResets, schema.PasswordResets.Columns)
)

type passwordResetsRepo struct {
	db DBTX
}

func (r *passwordResetsRepo) Insert(ctx context.Context, pr domain.PasswordReset) error {
	_, err := r.db.ExecContext(ctx, insertPasswordReset,
		pr.ID,
		pr.UserID,
		pr.ResetToken,
		domain.FormatTime(pr.RequestedAt),
		mapOptionalTime(pr.UsedAt),
		pr.IPAddress,
	)
	return mapConstraint(err)
}

func (r *passwordResetsRepo) Get(ctx context.Context, id string) (domain.PasswordReset, error) {
	row := r.db.QueryRowContext(ctx, selectPasswordResets+" WHERE reset_id = ?", id)
	pr, err := scanPasswordReset(row)
	if err != nil {
		return domain.PasswordReset{}, mapNotFound(err)
	}
	return pr, nil
}

func (r *passwordResetsRepo) List(ctx context.Context, page store.Page) ([]domain.PasswordReset, error) {
	limit, offset := limitOffset(page)
	rows, err := r.db.QueryContext(ctx, selectPasswordResets+" ORDER BY reset_id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PasswordReset
	for rows.Next() {
		pr, err := scanPasswordReset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

func (r *passwordResetsRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, schema.TablePasswordResets)
}

func scanPasswordReset(sc scanner) (domain.PasswordReset, error) {
	var (
		pr          domain.PasswordReset
		requestedAt string
		usedAt      sql.NullString
	)
	if err := sc.Scan(
		&pr.ID, &pr.UserID, &pr.ResetToken, &requestedAt, &usedAt, &pr.IPAddress,
	); err != nil {
		return domain.PasswordReset{}, err
	}

	var err error
	if pr.RequestedAt, err = domain.ParseTime(requestedAt); err != nil {
		return domain.PasswordReset{}, rowError(schema.TablePasswordResets, pr.ID, err)
	}
	if pr.UsedAt, err = mapNullTimePtr(usedAt); err != nil {
		return domain.PasswordReset{}, rowError(schema.TablePasswordResets, pr.ID, err)
	}
	return pr, nil
}
