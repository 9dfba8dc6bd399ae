package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/authlab/internal/authlab/domain"
	"github.com/aussiebroadwan/authlab/internal/authlab/schema"
	"github.com/aussiebroadwan/authlab/internal/authlab/store"
)

var (
	selectUsers = selectFrom(schema.TableUsers, schema.Users.Columns)
	insertUser  = insertInto(schema.TableUsers, schema.Users.Columns)
)

type usersRepo struct {
	db DBTX
}

func (r *usersRepo) Insert(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, insertUser,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Salt,
		string(u.Role),
		domain.FormatFlag(u.MFAEnabled),
		domain.FormatTime(u.CreatedAt),
		mapOptionalTime(u.LastLogin),
	)
	return mapConstraint(err)
}

func (r *usersRepo) Get(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUsers+" WHERE user_id = ?", id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) List(ctx context.Context, page store.Page) ([]domain.User, error) {
	limit, offset := limitOffset(page)
	rows, err := r.db.QueryContext(ctx, selectUsers+" ORDER BY user_id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *usersRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, schema.TableUsers)
}

func scanUser(sc scanner) (domain.User, error) {
	var (
		u                    domain.User
		role, mfa, createdAt string
		lastLogin            sql.NullString
	)
	if err := sc.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Salt,
		&role, &mfa, &createdAt, &lastLogin,
	); err != nil {
		return domain.User{}, err
	}

	var err error
	if u.Role, err = domain.ParseRole(role); err != nil {
		return domain.User{}, rowError(schema.TableUsers, u.ID, err)
	}
	if u.MFAEnabled, err = domain.ParseFlag(mfa); err != nil {
		return domain.User{}, rowError(schema.TableUsers, u.ID, err)
	}
	if u.CreatedAt, err = domain.ParseTime(createdAt); err != nil {
		return domain.User{}, rowError(schema.TableUsers, u.ID, err)
	}
	if u.LastLogin, err = mapNullTimePtr(lastLogin); err != nil {
		return domain.User{}, rowError(schema.TableUsers, u.ID, err)
	}
	return u, nil
}
