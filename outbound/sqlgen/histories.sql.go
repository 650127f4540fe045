// source: query.sql

package sqlgen

import (
	"context"
)

const createStatusHistory = `-- name: CreateStatusHistory :exec
INSERT INTO repair_status_histories (id, repair_ticket_id, from_status, to_status, note)
VALUES ($1, $2, $3, $4, $5)
`

type CreateStatusHistoryParams struct {
	ID             string
	RepairTicketID string
	FromStatus     *string
	ToStatus       string
	Note           string
}

func (q *Queries) CreateStatusHistory(ctx context.Context, arg CreateStatusHistoryParams) error {
	_, err := q.db.Exec(ctx, createStatusHistory,
		arg.ID,
		arg.RepairTicketID,
		arg.FromStatus,
		arg.ToStatus,
		arg.Note,
	)
	return err
}

const listStatusHistory = `-- name: ListStatusHistory :many
SELECT id, repair_ticket_id, from_status, to_status, note, created_at
FROM repair_status_histories
WHERE repair_ticket_id = $1
ORDER BY created_at ASC
`

func (q *Queries) ListStatusHistory(ctx context.Context, repairTicketID string) ([]RepairStatusHistory, error) {
	rows, err := q.db.Query(ctx, listStatusHistory, repairTicketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RepairStatusHistory
	for rows.Next() {
		var i RepairStatusHistory
		if err := rows.Scan(
			&i.ID,
			&i.RepairTicketID,
			&i.FromStatus,
			&i.ToStatus,
			&i.Note,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
