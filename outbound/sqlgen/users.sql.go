// source: query.sql

package sqlgen

import (
	"context"
)

const createUser = `-- name: CreateUser :one
INSERT INTO users (id, email, name, phone, password, role, line_user_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, email, name, phone, password, role, line_user_id, image, created_at, updated_at
`

type CreateUserParams struct {
	ID         string
	Email      string
	Name       string
	Phone      *string
	Password   *string
	Role       string
	LineUserID *string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser,
		arg.ID,
		arg.Email,
		arg.Name,
		arg.Phone,
		arg.Password,
		arg.Role,
		arg.LineUserID,
	)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Name,
		&i.Phone,
		&i.Password,
		&i.Role,
		&i.LineUserID,
		&i.Image,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT id, email, name, phone, password, role, line_user_id, image, created_at, updated_at FROM users WHERE email = $1
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByEmail, email)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Name,
		&i.Phone,
		&i.Password,
		&i.Role,
		&i.LineUserID,
		&i.Image,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getUserByID = `-- name: GetUserByID :one
SELECT id, email, name, phone, password, role, line_user_id, image, created_at, updated_at FROM users WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Name,
		&i.Phone,
		&i.Password,
		&i.Role,
		&i.LineUserID,
		&i.Image,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getUserByLineUserID = `-- name: GetUserByLineUserID :one
SELECT id, email, name, phone, password, role, line_user_id, image, created_at, updated_at FROM users WHERE line_user_id = $1
`

func (q *Queries) GetUserByLineUserID(ctx context.Context, lineUserID *string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByLineUserID, lineUserID)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Name,
		&i.Phone,
		&i.Password,
		&i.Role,
		&i.LineUserID,
		&i.Image,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const lineUserIDTakenByOther = `-- name: LineUserIDTakenByOther :one
SELECT EXISTS (SELECT 1 FROM users WHERE line_user_id = $1 AND id <> $2) AS "exists"
`

type LineUserIDTakenByOtherParams struct {
	LineUserID *string
	ID         string
}

func (q *Queries) LineUserIDTakenByOther(ctx context.Context, arg LineUserIDTakenByOtherParams) (bool, error) {
	row := q.db.QueryRow(ctx, lineUserIDTakenByOther, arg.LineUserID, arg.ID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const linkUserLine = `-- name: LinkUserLine :one
UPDATE users
SET line_user_id = $2,
    name         = CASE WHEN name = '' THEN COALESCE($3, name) ELSE name END,
    image        = COALESCE(image, $4),
    updated_at   = now()
WHERE id = $1
RETURNING id, email, name, phone, password, role, line_user_id, image, created_at, updated_at
`

type LinkUserLineParams struct {
	ID          string
	LineUserID  *string
	DisplayName *string
	PictureUrl  *string
}

func (q *Queries) LinkUserLine(ctx context.Context, arg LinkUserLineParams) (User, error) {
	row := q.db.QueryRow(ctx, linkUserLine,
		arg.ID,
		arg.LineUserID,
		arg.DisplayName,
		arg.PictureUrl,
	)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Name,
		&i.Phone,
		&i.Password,
		&i.Role,
		&i.LineUserID,
		&i.Image,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const unlinkUserLine = `-- name: UnlinkUserLine :one
UPDATE users SET line_user_id = NULL, updated_at = now() WHERE id = $1
RETURNING id, line_user_id
`

type UnlinkUserLineRow struct {
	ID         string
	LineUserID *string
}

func (q *Queries) UnlinkUserLine(ctx context.Context, id string) (UnlinkUserLineRow, error) {
	row := q.db.QueryRow(ctx, unlinkUserLine, id)
	var i UnlinkUserLineRow
	err := row.Scan(&i.ID, &i.LineUserID)
	return i, err
}
