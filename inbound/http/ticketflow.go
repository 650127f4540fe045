package http

import (
	"context"
	"errors"
	"github.com/jackc/pgx/v5"
	"log/slog"
	"repair-ticket/common"
	"repair-ticket/common/constant"
	"repair-ticket/common/contract"
	"repair-ticket/model"
	"repair-ticket/outbound/line"
	"repair-ticket/outbound/sqlgen"
)

// TicketSyncer pushes tickets to the external board. Implementations log and
// swallow their own failures.
type TicketSyncer interface {
	CreateRemoteItem(ctx context.Context, ticket model.TicketDetail) *string
	UpdateRemoteStatus(ctx context.Context, externalID string, status model.TicketStatus) bool
}

type ticketFlow struct {
	Db        contract.DbConn
	Querier   *sqlgen.Queries
	Publisher contract.Publisher
	Syncer    TicketSyncer
	Formatter *line.Formatter
}

// createTicket inserts the ticket together with its first history entry.
func (f ticketFlow) createTicket(ctx context.Context, params sqlgen.CreateTicketParams, note string) (sqlgen.CreateTicketRow, error) {
	tx, err := f.Db.Begin(ctx)
	if err != nil {
		return sqlgen.CreateTicketRow{}, err
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback transaction", slog.Any(constant.LogFieldErr, err))
		}
	}()

	withTx := f.Querier.WithTx(tx)

	row, err := withTx.CreateTicket(ctx, params)
	if err != nil {
		return row, err
	}

	err = withTx.CreateStatusHistory(ctx, sqlgen.CreateStatusHistoryParams{
		ID:             newID(),
		RepairTicketID: row.ID,
		ToStatus:       params.Status,
		Note:           note,
	})
	if err != nil {
		return row, err
	}

	return row, tx.Commit(ctx)
}

// applyStatusChange updates the status and appends the history entry atomically.
func (f ticketFlow) applyStatusChange(ctx context.Context, ticketID string, from, to model.TicketStatus, note string) error {
	tx, err := f.Db.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback transaction", slog.Any(constant.LogFieldErr, err))
		}
	}()

	withTx := f.Querier.WithTx(tx)

	cmd, err := withTx.UpdateTicketStatus(ctx, sqlgen.UpdateTicketStatusParams{ID: ticketID, Status: string(to)})
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	fromStatus := string(from)
	err = withTx.CreateStatusHistory(ctx, sqlgen.CreateStatusHistoryParams{
		ID:             newID(),
		RepairTicketID: ticketID,
		FromStatus:     &fromStatus,
		ToStatus:       string(to),
		Note:           note,
	})
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// syncNewTicket creates the board item and records its id. The ticket stays
// valid when either step fails.
func (f ticketFlow) syncNewTicket(ctx context.Context, ticket model.TicketDetail) *string {
	remoteID := f.Syncer.CreateRemoteItem(ctx, ticket)
	if remoteID == nil {
		return nil
	}

	tag, err := f.Querier.SetTicketMondayID(ctx, sqlgen.SetTicketMondayIDParams{ID: ticket.ID, MondayTicketID: remoteID})
	if err != nil {
		slog.ErrorContext(ctx, "failed to persist board item id", common.ExtractTraceIDFromCtx(ctx),
			slog.String("ticket_id", ticket.ID),
			slog.Any(constant.LogFieldErr, err),
		)
		return remoteID
	}
	if tag.RowsAffected() == 0 {
		slog.WarnContext(ctx, "ticket already linked to a board item", common.ExtractTraceIDFromCtx(ctx),
			slog.String("ticket_id", ticket.ID),
			slog.String("orphan_item_id", *remoteID),
		)
		return nil
	}

	return remoteID
}

func (f ticketFlow) pushLine(ctx context.Context, to string, text string) {
	err := common.PublishMessage(ctx, f.Publisher, constant.SubjectLinePush, model.LinePushEventMessage{To: to, Text: text})
	if err != nil {
		slog.WarnContext(ctx, "failed to queue line message", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
	}
}

func (f ticketFlow) pushGroup(ctx context.Context, text string) {
	err := common.PublishMessage(ctx, f.Publisher, constant.SubjectLineGroupPush, model.LineGroupPushEventMessage{Text: text})
	if err != nil {
		slog.WarnContext(ctx, "failed to queue line group message", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
	}
}
