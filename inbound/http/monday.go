package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"io"
	"log/slog"
	"net/http"
	"repair-ticket/common"
	"repair-ticket/common/constant"
	"repair-ticket/common/contract"
	"repair-ticket/common/errs"
	"repair-ticket/common/otel"
	"repair-ticket/model"
	"repair-ticket/outbound/line"
	"repair-ticket/outbound/monday"
	"repair-ticket/outbound/sqlgen"
)

const mondaySignatureHeader = "x-monday-signature"

type MondayBoard interface {
	BoardColumns(ctx context.Context) (monday.Board, error)
	Me(ctx context.Context) (monday.User, error)
}

type MondayHttp struct {
	ticketFlow

	Cache  *redis.Client
	Board  MondayBoard
	Config monday.Config
}

func RegisterMondayHttp(
	mux *http.ServeMux,
	cfg monday.Config,
	db contract.DbConn,
	querier *sqlgen.Queries,
	cache *redis.Client,
	sessions *SessionStore,
	publisher contract.Publisher,
	board MondayBoard,
	formatter *line.Formatter,
) *MondayHttp {
	in := &MondayHttp{
		ticketFlow: ticketFlow{
			Db:        db,
			Querier:   querier,
			Publisher: publisher,
			Formatter: formatter,
		},
		Cache:  cache,
		Board:  board,
		Config: cfg,
	}

	mux.HandleFunc("POST /api/webhooks/monday", in.webhook)
	mux.HandleFunc("GET /api/monday/columns", sessions.Require(in.columns))
	mux.HandleFunc("GET /api/monday/test-token", sessions.Require(in.testToken))

	return in
}

func (in MondayHttp) webhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "MondayHttp.webhook")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if in.Config.WebhookSecret != "" && !monday.VerifySignature(in.Config.WebhookSecret, body, r.Header.Get(mondaySignatureHeader)) {
		slog.WarnContext(ctx, "board webhook signature mismatch", traceIdAttr)
		writeErrorResponse(w, errs.Unauthorized(constant.MsgInvalidSignature))
		return
	}

	var req model.MondayWebhookRequest
	if err = json.Unmarshal(body, &req); err != nil {
		slog.WarnContext(ctx, "board webhook unmarshal error", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeJSONResponse(w, http.StatusOK, model.WebhookAckResponse{Success: true})
		return
	}

	if req.Challenge != "" {
		writeJSONResponse(w, http.StatusOK, model.MondayChallengeResponse{Challenge: req.Challenge})
		return
	}

	if req.Event == nil {
		writeJSONResponse(w, http.StatusOK, model.WebhookAckResponse{Success: true})
		return
	}

	change := monday.ParseChange(*req.Event)
	slog.InfoContext(ctx, "board webhook receive event", slog.Any(constant.LogFieldPayload, change), traceIdAttr)

	if !change.IsStatusChange(in.Config.StatusColumn()) || change.ItemID == "" {
		writeJSONResponse(w, http.StatusOK, model.WebhookAckResponse{Success: true})
		return
	}

	if err = in.handleStatusChange(ctx, change); err != nil {
		slog.ErrorContext(ctx, "failed to apply board status change", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.WebhookAckResponse{Success: true})
}

// handleStatusChange mirrors a board status edit onto the local ticket. Unknown
// items, repeated deliveries and unchanged statuses are acknowledged without writes.
// The lock is keyed by the full transition and released on failure so a
// redelivery of a failed event is applied.
func (in MondayHttp) handleStatusChange(ctx context.Context, change monday.Change) (err error) {
	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	lockKey := fmt.Sprintf(constant.MondayWebhookLock, change.ItemID, change.PreviousLabel, change.Label)
	acquired, err := in.Cache.SetNX(ctx, lockKey, true, constant.MondayWebhookLockDefaultTTL).Result()
	if err != nil {
		return err
	}
	if !acquired {
		slog.DebugContext(ctx, "board webhook already being processed", traceIdAttr, slog.String("item_id", change.ItemID))
		return nil
	}
	defer func() {
		if err == nil {
			return
		}
		if delErr := in.Cache.Del(context.WithoutCancel(ctx), lockKey).Err(); delErr != nil {
			slog.WarnContext(ctx, "failed to release board webhook lock", traceIdAttr, slog.Any(constant.LogFieldErr, delErr))
		}
	}()

	row, err := in.Querier.GetTicketDetailByMondayID(ctx, &change.ItemID)
	if errors.Is(err, pgx.ErrNoRows) {
		slog.WarnContext(ctx, "no ticket for board item", traceIdAttr, slog.String("item_id", change.ItemID))
		return nil
	}
	if err != nil {
		return err
	}

	ticket := row.Detail()
	status := monday.ToInternal(change.Label)
	if ticket.Status == status {
		slog.DebugContext(ctx, "ticket status unchanged", traceIdAttr, slog.String("ticket_number", ticket.TicketNumber))
		return nil
	}

	if err = in.applyStatusChange(ctx, ticket.ID, ticket.Status, status, constant.HistoryNoteUpdatedFromMonday); err != nil {
		return err
	}
	ticket.Status = status

	if ticket.User.LineUserID != nil && line.IsValidUserID(*ticket.User.LineUserID) {
		in.pushLine(ctx, *ticket.User.LineUserID, in.Formatter.StatusChange(ticket))
	}

	slog.InfoContext(ctx, "ticket status updated from board", traceIdAttr,
		slog.String("ticket_number", ticket.TicketNumber),
		slog.String("status", string(status)),
	)

	return nil
}

func (in MondayHttp) columns(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "MondayHttp.columns")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	if !in.Config.Enabled() {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusInternalServerError, Message: constant.MsgMondayNotConfigured})
		return
	}

	board, err := in.Board.BoardColumns(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get board columns", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	columns := make([]model.MondayColumn, 0, len(board.Columns))
	for _, column := range board.Columns {
		columns = append(columns, model.MondayColumn{ID: column.ID, Title: column.Title, Type: column.Type})
	}

	writeJSONResponse(w, http.StatusOK, model.MondayColumnsResponse{
		Success:   true,
		Columns:   columns,
		BoardName: board.Name,
	})
}

func (in MondayHttp) testToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "MondayHttp.testToken")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	if in.Config.Token == "" {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusInternalServerError, Message: constant.MsgMondayNotConfigured})
		return
	}

	user, err := in.Board.Me(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "board token check failed", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.MondayTestTokenResponse{
		Success: true,
		Message: constant.MsgMondayConnected,
		User:    model.MondayUser{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}
