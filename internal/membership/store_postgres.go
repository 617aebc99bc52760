// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package membership

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/churchos/internal/access"
	"github.com/taibuivan/churchos/internal/platform/apperr"
	"github.com/taibuivan/churchos/internal/platform/database/schema"
	"github.com/taibuivan/churchos/internal/platform/dberr"
	"github.com/taibuivan/churchos/pkg/pagination"
	"github.com/taibuivan/churchos/pkg/slice"
)

const memberResource = "Member"

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation of the member directory.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Create inserts a new row into directory.member.

Returns:
  - error: apperr.Conflict when the email is already registered
*/
func (repository *PostgresRepository) Create(context context.Context, member *Member) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.DirectoryMember.Table, schema.DirectoryMember.SelectList(),
	)

	_, err := repository.pool.Exec(context, query,
		member.ID,
		member.DisplayName,
		member.Email,
		member.Role.String(),
		permissionNames(member.Permissions),
		member.CreatedAt,
		member.UpdatedAt,
	)
	return dberr.Wrap(err, memberResource)
}

// FindByID retrieves a single member.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Member, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.DirectoryMember.SelectList(), schema.DirectoryMember.Table, schema.DirectoryMember.ID,
	)

	member, err := scanMember(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, memberResource)
	}
	return member, nil
}

/*
List returns one page of members in creation order, plus the total count.
*/
func (repository *PostgresRepository) List(context context.Context, params pagination.Params) ([]*Member, int, error) {
	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.DirectoryMember.Table)
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, memberResource)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC, %s ASC LIMIT $1 OFFSET $2`,
		schema.DirectoryMember.SelectList(), schema.DirectoryMember.Table,
		schema.DirectoryMember.CreatedAt, schema.DirectoryMember.ID,
	)

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, memberResource)
	}
	defer rows.Close()

	members := make([]*Member, 0, params.Limit)
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, memberResource)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, memberResource)
	}

	return members, total, nil
}

// UpdateRole replaces a member's role and permissions and returns the updated row.
func (repository *PostgresRepository) UpdateRole(context context.Context, id string, role access.Role, permissions []access.Permission, updatedAt time.Time) (*Member, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4
		WHERE %s = $1
		RETURNING %s`,
		schema.DirectoryMember.Table,
		schema.DirectoryMember.Role, schema.DirectoryMember.Permissions, schema.DirectoryMember.UpdatedAt,
		schema.DirectoryMember.ID,
		schema.DirectoryMember.SelectList(),
	)

	member, err := scanMember(repository.pool.QueryRow(context, query, id, role.String(), permissionNames(permissions), updatedAt))
	if err != nil {
		return nil, dberr.Wrap(err, memberResource)
	}
	return member, nil
}

// # Row Mapping

func scanMember(row pgx.Row) (*Member, error) {
	var (
		member      Member
		roleName    string
		permissions []string
	)

	if err := row.Scan(
		&member.ID,
		&member.DisplayName,
		&member.Email,
		&roleName,
		&permissions,
		&member.CreatedAt,
		&member.UpdatedAt,
	); err != nil {
		return nil, err
	}

	role, err := access.ParseRole(roleName)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("membership: stored role for %s: %w", member.ID, err))
	}
	member.Role = role
	member.Permissions = slice.Map(permissions, func(name string) access.Permission { return access.Permission(name) })
	if member.Permissions == nil {
		member.Permissions = []access.Permission{}
	}

	return &member, nil
}

func permissionNames(permissions []access.Permission) []string {
	names := slice.Map(permissions, func(p access.Permission) string { return string(p) })
	if names == nil {
		names = []string{}
	}
	return names
}
