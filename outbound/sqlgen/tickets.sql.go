// source: query.sql

package sqlgen

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const ticketDetailColumns = `t.id, t.ticket_number, t.title, t.description, t.status, t.priority, t.images, t.monday_ticket_id, t.created_at, t.updated_at,
       u.id AS user_id, u.name AS user_name, u.email AS user_email, u.phone AS user_phone, u.line_user_id AS user_line_user_id,
       d.id AS device_id, d.serial_number AS device_serial_number, m.name AS model_name, b.name AS brand_name, c.name AS company_name
FROM repair_tickets t
JOIN users u ON u.id = t.user_id
JOIN devices d ON d.id = t.device_id
JOIN models m ON m.id = d.model_id
JOIN brands b ON b.id = m.brand_id
JOIN companies c ON c.id = b.company_id`

type TicketDetailRow struct {
	ID                 string
	TicketNumber       string
	Title              string
	Description        string
	Status             string
	Priority           string
	Images             []string
	MondayTicketID     *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	UserID             string
	UserName           string
	UserEmail          string
	UserPhone          *string
	UserLineUserID     *string
	DeviceID           string
	DeviceSerialNumber string
	ModelName          string
	BrandName          string
	CompanyName        string
}

func (i *TicketDetailRow) scanFields() []any {
	return []any{
		&i.ID,
		&i.TicketNumber,
		&i.Title,
		&i.Description,
		&i.Status,
		&i.Priority,
		&i.Images,
		&i.MondayTicketID,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.UserID,
		&i.UserName,
		&i.UserEmail,
		&i.UserPhone,
		&i.UserLineUserID,
		&i.DeviceID,
		&i.DeviceSerialNumber,
		&i.ModelName,
		&i.BrandName,
		&i.CompanyName,
	}
}

const countTickets = `-- name: CountTickets :one
SELECT COUNT(*) FROM repair_tickets
`

func (q *Queries) CountTickets(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countTickets)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countTicketsFiltered = `-- name: CountTicketsFiltered :one
SELECT COUNT(*)
FROM repair_tickets t
JOIN users u ON u.id = t.user_id
WHERE ($1::text IS NULL OR t.user_id = $1)
  AND ($2::text IS NULL OR t.status = $2)
  AND ($3::text IS NULL OR t.priority = $3)
  AND ($4::text IS NULL OR t.ticket_number ILIKE '%' || $4 || '%' OR t.title ILIKE '%' || $4 || '%'
       OR t.description ILIKE '%' || $4 || '%' OR u.name ILIKE '%' || $4 || '%')
`

type TicketFilterParams struct {
	UserID   *string
	Status   *string
	Priority *string
	Search   *string
}

func (q *Queries) CountTicketsFiltered(ctx context.Context, arg TicketFilterParams) (int64, error) {
	row := q.db.QueryRow(ctx, countTicketsFiltered,
		arg.UserID,
		arg.Status,
		arg.Priority,
		arg.Search,
	)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createTicket = `-- name: CreateTicket :one
INSERT INTO repair_tickets (id, ticket_number, title, description, status, priority, user_id, device_id, images)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, ticket_number, created_at
`

type CreateTicketParams struct {
	ID           string
	TicketNumber string
	Title        string
	Description  string
	Status       string
	Priority     string
	UserID       string
	DeviceID     string
	Images       []string
}

type CreateTicketRow struct {
	ID           string
	TicketNumber string
	CreatedAt    time.Time
}

func (q *Queries) CreateTicket(ctx context.Context, arg CreateTicketParams) (CreateTicketRow, error) {
	row := q.db.QueryRow(ctx, createTicket,
		arg.ID,
		arg.TicketNumber,
		arg.Title,
		arg.Description,
		arg.Status,
		arg.Priority,
		arg.UserID,
		arg.DeviceID,
		arg.Images,
	)
	var i CreateTicketRow
	err := row.Scan(&i.ID, &i.TicketNumber, &i.CreatedAt)
	return i, err
}

const getTicketDetail = `-- name: GetTicketDetail :one
SELECT ` + ticketDetailColumns + `
WHERE t.id = $1
`

func (q *Queries) GetTicketDetail(ctx context.Context, id string) (TicketDetailRow, error) {
	row := q.db.QueryRow(ctx, getTicketDetail, id)
	var i TicketDetailRow
	err := row.Scan(i.scanFields()...)
	return i, err
}

const getTicketDetailByMondayID = `-- name: GetTicketDetailByMondayID :one
SELECT ` + ticketDetailColumns + `
WHERE t.monday_ticket_id = $1
ORDER BY t.created_at ASC
LIMIT 1
`

func (q *Queries) GetTicketDetailByMondayID(ctx context.Context, mondayTicketID *string) (TicketDetailRow, error) {
	row := q.db.QueryRow(ctx, getTicketDetailByMondayID, mondayTicketID)
	var i TicketDetailRow
	err := row.Scan(i.scanFields()...)
	return i, err
}

const listRecentTicketsByUser = `-- name: ListRecentTicketsByUser :many
SELECT ` + ticketDetailColumns + `
WHERE t.user_id = $1
ORDER BY t.created_at DESC
LIMIT $2
`

type ListRecentTicketsByUserParams struct {
	UserID string
	Limit  int32
}

func (q *Queries) ListRecentTicketsByUser(ctx context.Context, arg ListRecentTicketsByUserParams) ([]TicketDetailRow, error) {
	rows, err := q.db.Query(ctx, listRecentTicketsByUser, arg.UserID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TicketDetailRow
	for rows.Next() {
		var i TicketDetailRow
		if err := rows.Scan(i.scanFields()...); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listTickets = `-- name: ListTickets :many
SELECT ` + ticketDetailColumns + `
WHERE ($1::text IS NULL OR t.user_id = $1)
  AND ($2::text IS NULL OR t.status = $2)
  AND ($3::text IS NULL OR t.priority = $3)
  AND ($4::text IS NULL OR t.ticket_number ILIKE '%' || $4 || '%' OR t.title ILIKE '%' || $4 || '%'
       OR t.description ILIKE '%' || $4 || '%' OR u.name ILIKE '%' || $4 || '%')
ORDER BY t.created_at DESC
LIMIT $5 OFFSET $6
`

type ListTicketsParams struct {
	TicketFilterParams
	Limit  int32
	Offset int32
}

func (q *Queries) ListTickets(ctx context.Context, arg ListTicketsParams) ([]TicketDetailRow, error) {
	rows, err := q.db.Query(ctx, listTickets,
		arg.UserID,
		arg.Status,
		arg.Priority,
		arg.Search,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TicketDetailRow
	for rows.Next() {
		var i TicketDetailRow
		if err := rows.Scan(i.scanFields()...); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listUnsyncedTickets = `-- name: ListUnsyncedTickets :many
SELECT ` + ticketDetailColumns + `
WHERE t.monday_ticket_id IS NULL AND t.created_at >= $1 AND t.created_at <= $2
ORDER BY t.created_at ASC
LIMIT $3
`

type ListUnsyncedTicketsParams struct {
	CreatedAfter  time.Time
	CreatedBefore time.Time
	Limit         int32
}

func (q *Queries) ListUnsyncedTickets(ctx context.Context, arg ListUnsyncedTicketsParams) ([]TicketDetailRow, error) {
	rows, err := q.db.Query(ctx, listUnsyncedTickets, arg.CreatedAfter, arg.CreatedBefore, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TicketDetailRow
	for rows.Next() {
		var i TicketDetailRow
		if err := rows.Scan(i.scanFields()...); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const setTicketMondayID = `-- name: SetTicketMondayID :execresult
UPDATE repair_tickets SET monday_ticket_id = $2, updated_at = now() WHERE id = $1 AND monday_ticket_id IS NULL
`

type SetTicketMondayIDParams struct {
	ID             string
	MondayTicketID *string
}

func (q *Queries) SetTicketMondayID(ctx context.Context, arg SetTicketMondayIDParams) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, setTicketMondayID, arg.ID, arg.MondayTicketID)
}

const updateTicketStatus = `-- name: UpdateTicketStatus :execresult
UPDATE repair_tickets SET status = $2, updated_at = now() WHERE id = $1
`

type UpdateTicketStatusParams struct {
	ID     string
	Status string
}

func (q *Queries) UpdateTicketStatus(ctx context.Context, arg UpdateTicketStatusParams) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, updateTicketStatus, arg.ID, arg.Status)
}
