package http

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
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
	"repair-ticket/outbound/sqlgen"
	"strings"
)

const (
	lineSignatureHeader = "x-line-signature"
	lineRecentTickets   = 5
)

type LineHttp struct {
	ticketFlow

	Validate *validator.Validate
	Config   line.Config
}

func RegisterLineHttp(
	mux *http.ServeMux,
	cfg line.Config,
	querier *sqlgen.Queries,
	publisher contract.Publisher,
	validate *validator.Validate,
	formatter *line.Formatter,
) *LineHttp {
	in := &LineHttp{
		ticketFlow: ticketFlow{
			Querier:   querier,
			Publisher: publisher,
			Formatter: formatter,
		},
		Validate: validate,
		Config:   cfg,
	}

	mux.HandleFunc("POST /api/webhooks/line", in.webhook)

	return in
}

func (in LineHttp) webhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "LineHttp.webhook")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if in.Config.ChannelSecret != "" && !line.VerifySignature(in.Config.ChannelSecret, body, r.Header.Get(lineSignatureHeader)) {
		slog.WarnContext(ctx, "line webhook signature mismatch", traceIdAttr)
		writeErrorResponse(w, errs.Unauthorized(constant.MsgInvalidSignature))
		return
	}

	var req model.LineWebhookRequest
	if err = json.Unmarshal(body, &req); err != nil {
		slog.WarnContext(ctx, "line webhook unmarshal error", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeJSONResponse(w, http.StatusOK, model.WebhookAckResponse{Success: true})
		return
	}

	for _, event := range req.Events {
		if event.Type != "message" || event.Message == nil || event.Message.Type != "text" || event.Source.UserId == "" {
			continue
		}

		in.handleCommand(ctx, event.Source.UserId, strings.TrimSpace(event.Message.Text))
	}

	writeJSONResponse(w, http.StatusOK, model.WebhookAckResponse{Success: true})
}

func (in LineHttp) handleCommand(ctx context.Context, lineUserID string, text string) {
	slog.DebugContext(ctx, "line command receive", slog.String("text", text), common.ExtractTraceIDFromCtx(ctx))

	switch {
	case strings.HasPrefix(text, "/link "):
		in.pushLine(ctx, lineUserID, in.linkAccount(ctx, lineUserID, strings.TrimSpace(strings.TrimPrefix(text, "/link "))))
	case text == "/help" || text == "help":
		in.pushLine(ctx, lineUserID, line.HelpMessage)
	case text == "/status" || text == "status":
		in.pushLine(ctx, lineUserID, in.ticketStatus(ctx, lineUserID))
	case text == "/repair" || text == "แจ้งซ่อม":
		in.pushLine(ctx, lineUserID, in.repairForm(ctx, lineUserID))
	}
}

func (in LineHttp) linkAccount(ctx context.Context, lineUserID string, email string) string {
	if err := in.Validate.Var(email, "required,email"); err != nil {
		return line.LinkInvalidEmailMessage
	}

	user, err := in.Querier.GetUserByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return line.LinkUserNotFoundMessage
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get user by email", slog.Any(constant.LogFieldErr, err))
		return line.LinkFailedMessage
	}

	_, err = in.Querier.LinkUserLine(ctx, sqlgen.LinkUserLineParams{ID: user.ID, LineUserID: &lineUserID})
	if err != nil {
		slog.ErrorContext(ctx, "failed to link line account", slog.Any(constant.LogFieldErr, err))
		return line.LinkFailedMessage
	}

	return in.Formatter.LinkSuccess(email)
}

func (in LineHttp) ticketStatus(ctx context.Context, lineUserID string) string {
	user, err := in.Querier.GetUserByLineUserID(ctx, &lineUserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return line.StatusNotLinkedMessage
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get user by line id", slog.Any(constant.LogFieldErr, err))
		return line.StatusFailedMessage
	}

	rows, err := in.Querier.ListRecentTicketsByUser(ctx, sqlgen.ListRecentTicketsByUserParams{UserID: user.ID, Limit: lineRecentTickets})
	if err != nil {
		slog.ErrorContext(ctx, "failed to list recent tickets", slog.Any(constant.LogFieldErr, err))
		return line.StatusFailedMessage
	}

	tickets := make([]model.TicketDetail, 0, len(rows))
	for _, row := range rows {
		tickets = append(tickets, row.Detail())
	}

	return in.Formatter.StatusSummary(tickets)
}

func (in LineHttp) repairForm(ctx context.Context, lineUserID string) string {
	user, err := in.Querier.GetUserByLineUserID(ctx, &lineUserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return line.RepairNotLinkedMessage
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get user by line id", slog.Any(constant.LogFieldErr, err))
		return line.RepairFailedMessage
	}

	return in.Formatter.RepairForm(user.Name)
}
