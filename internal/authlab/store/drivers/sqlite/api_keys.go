package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/authlab/internal/authlab/domain"
	"github.com/aussiebroadwan/authlab/internal/authlab/schema"
	"github.com/aussiebroadwan/authlab/internal/authlab/store"
)

var (
	selectAPIKeys = selectFrom(schema.TableAPIKeys, schema.APIKeys.Columns)
	insertAPIKey  = insertInto(schema.TableAPIKeys, schema.APIKeys.Columns)
)

type apiKeysRepo struct {
	db DBTX
}

func (r *apiKeysRepo) Insert(ctx context.Context, k domain.APIKey) error {
	_, err := r.db.ExecContext(ctx, insertAPIKey,
		k.ID,
		k.UserID,
		k.KeyHash,
		domain.FormatScopes(k.Scopes),
		domain.FormatTime(k.CreatedAt),
		mapOptionalTime(k.ExpiresAt),
		domain.FormatFlag(k.Revoked),
	)
	return mapConstraint(err)
}

func (r *apiKeysRepo) Get(ctx context.Context, id string) (domain.APIKey, error) {
	row := r.db.QueryRowContext(ctx, selectAPIKeys+" WHERE key_id = ?", id)
	k, err := scanAPIKey(row)
	if err != nil {
		return domain.APIKey{}, mapNotFound(err)
	}
	return k, nil
}

func (r *apiKeysRepo) List(ctx context.Context, page store.Page) ([]domain.APIKey, error) {
	limit, offset := limitOffset(page)
	rows, err := r.db.QueryContext(ctx, selectAPIKeys+" ORDER BY key_id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.APIKey
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (r *apiKeysRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, schema.TableAPIKeys)
}

func scanAPIKey(sc scanner) (domain.APIKey, error) {
	var (
		k                           domain.APIKey
		scope, createdAt, isRevoked string
		expiresAt                   sql.NullString
	)
	if err := sc.Scan(
		&k.ID, &k.UserID, &k.KeyHash, &scope,
		&createdAt, &expiresAt, &isRevoked,
	); err != nil {
		return domain.APIKey{}, err
	}

	var err error
	if k.Scopes, err = domain.ParseScopes(scope); err != nil {
		return domain.APIKey{}, rowError(schema.TableAPIKeys, k.ID, err)
	}
	if k.CreatedAt, err = domain.ParseTime(createdAt); err != nil {
		return domain.APIKey{}, rowError(schema.TableAPIKeys, k.ID, err)
	}
	if k.ExpiresAt, err = mapNullTimePtr(expiresAt); err != nil {
		return domain.APIKey{}, rowError(schema.TableAPIKeys, k.ID, err)
	}
	if k.Revoked, err = domain.ParseFlag(isRevoked); err != nil {
		return domain.APIKey{}, rowError(schema.TableAPIKeys, k.ID, err)
	}
	return k, nil
}
