package http

import (
	"encoding/json"
	"errors"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
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
	"time"
)

type TicketHttp struct {
	ticketFlow

	Validate *validator.Validate
	TimeNow  func() time.Time
}

func RegisterTicketHttp(
	mux *http.ServeMux,
	db contract.DbConn,
	querier *sqlgen.Queries,
	sessions *SessionStore,
	publisher contract.Publisher,
	syncer TicketSyncer,
	validate *validator.Validate,
	formatter *line.Formatter,
) *TicketHttp {
	in := &TicketHttp{
		ticketFlow: ticketFlow{
			Db:        db,
			Querier:   querier,
			Publisher: publisher,
			Syncer:    syncer,
			Formatter: formatter,
		},
		Validate: validate,
		TimeNow:  time.Now,
	}

	mux.HandleFunc("GET /api/tickets", sessions.Require(in.list))
	mux.HandleFunc("POST /api/tickets", sessions.Require(in.create))
	mux.HandleFunc("GET /api/tickets/{id}", sessions.Require(in.detail))
	mux.HandleFunc("PATCH /api/tickets/{id}/status", sessions.Require(in.updateStatus))

	return in
}

func (in TicketHttp) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "TicketHttp.list")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	session, _ := sessionFromContext(ctx)

	page, limit := parsePagination(r)
	query := r.URL.Query()

	filter := sqlgen.TicketFilterParams{
		Status:   optionalString(query.Get("status")),
		Priority: optionalString(query.Get("priority")),
		Search:   optionalString(query.Get("search")),
	}
	if session.Role == model.RoleUser {
		filter.UserID = &session.UserID
	}

	slog.DebugContext(ctx, "list tickets receive request", slog.Any(constant.LogFieldPayload, filter), traceIdAttr)

	total, err := in.Querier.CountTicketsFiltered(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count tickets", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	rows, err := in.Querier.ListTickets(ctx, sqlgen.ListTicketsParams{
		TicketFilterParams: filter,
		Limit:              int32(limit),
		Offset:             int32((page - 1) * limit),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to list tickets", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	tickets := make([]model.TicketDetail, 0, len(rows))
	for _, row := range rows {
		tickets = append(tickets, row.Detail())
	}

	writeJSONResponse(w, http.StatusOK, model.ListTicketsResponse{
		Tickets: tickets,
		Pagination: model.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: totalPages(total, limit),
		},
	})
}

func (in TicketHttp) create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" || req.DeviceId == "" {
		writeErrorResponse(w, errs.BadRequest(constant.MsgRequiredFields))
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "TicketHttp.create")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	session, _ := sessionFromContext(ctx)
	slog.InfoContext(ctx, "create ticket receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	device, err := in.Querier.GetDeviceDetail(ctx, req.DeviceId)
	if errors.Is(err, pgx.ErrNoRows) {
		writeErrorResponse(w, errs.NotFound(constant.MsgDeviceNotFound))
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get device", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	user, err := in.Querier.GetUserByID(ctx, session.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeErrorResponse(w, errs.Unauthorized(constant.MsgUnauthorized))
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get user", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}

	params := sqlgen.CreateTicketParams{
		ID:           newID(),
		TicketNumber: generateRepairNumber(in.TimeNow()),
		Title:        req.Title,
		Description:  req.Description,
		Status:       string(model.StatusPending),
		Priority:     string(priority),
		UserID:       user.ID,
		DeviceID:     device.ID,
		Images:       images,
	}

	row, err := in.createTicket(ctx, params, constant.HistoryNoteCreated)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create ticket", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	ticket := newTicketDetail(row, params, user, device)
	ticket.MondayTicketID = in.syncNewTicket(ctx, ticket)
	in.pushGroup(ctx, in.Formatter.GroupNewRepair(ticket))

	slog.InfoContext(ctx, "create ticket success", traceIdAttr, slog.Any(constant.LogFieldResponse, ticket.TicketNumber))

	writeJSONResponse(w, http.StatusOK, ticket)
}

func (in TicketHttp) detail(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "TicketHttp.detail")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	session, _ := sessionFromContext(ctx)

	ticket, err := in.visibleTicket(r.WithContext(ctx), session)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	rows, err := in.Querier.ListStatusHistory(ctx, ticket.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list status history", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	history := make([]model.StatusHistoryResponse, 0, len(rows))
	for _, row := range rows {
		history = append(history, row.Response())
	}

	writeJSONResponse(w, http.StatusOK, model.TicketDetailResponse{Ticket: ticket, History: history})
}

func (in TicketHttp) updateStatus(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFromContext(r.Context())
	if session.Role != model.RoleTechnician && session.Role != model.RoleAdmin {
		writeErrorResponse(w, errs.Forbidden(constant.MsgForbidden))
		return
	}

	var req model.UpdateTicketStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "TicketHttp.updateStatus")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "update ticket status receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	ticket, err := in.visibleTicket(r.WithContext(ctx), session)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	if ticket.Status == req.Status {
		writeJSONResponse(w, http.StatusOK, model.UpdateTicketStatusResponse{Success: true, Status: ticket.Status})
		return
	}

	note := req.Note
	if note == "" {
		note = constant.HistoryNoteUpdatedByStaff
	}

	if err = in.applyStatusChange(ctx, ticket.ID, ticket.Status, req.Status, note); err != nil {
		slog.ErrorContext(ctx, "failed to update ticket status", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}
	ticket.Status = req.Status

	synced := false
	if ticket.MondayTicketID != nil {
		synced = in.Syncer.UpdateRemoteStatus(ctx, *ticket.MondayTicketID, req.Status)
	}

	if ticket.User.LineUserID != nil && line.IsValidUserID(*ticket.User.LineUserID) {
		in.pushLine(ctx, *ticket.User.LineUserID, in.Formatter.StatusChange(ticket))
	}

	slog.InfoContext(ctx, "update ticket status success", traceIdAttr, slog.Bool("synced", synced))

	writeJSONResponse(w, http.StatusOK, model.UpdateTicketStatusResponse{Success: true, Status: req.Status, Synced: synced})
}

// visibleTicket loads the path ticket; users only see their own.
func (in TicketHttp) visibleTicket(r *http.Request, session model.Session) (model.TicketDetail, error) {
	ctx := r.Context()

	row, err := in.Querier.GetTicketDetail(ctx, r.PathValue("id"))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.TicketDetail{}, errs.NotFound(constant.MsgTicketNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get ticket", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		return model.TicketDetail{}, err
	}

	if session.Role == model.RoleUser && row.UserID != session.UserID {
		return model.TicketDetail{}, errs.NotFound(constant.MsgTicketNotFound)
	}

	return row.Detail(), nil
}

func newTicketDetail(row sqlgen.CreateTicketRow, params sqlgen.CreateTicketParams, user sqlgen.User, device sqlgen.GetDeviceDetailRow) model.TicketDetail {
	return model.TicketDetail{
		ID:           row.ID,
		TicketNumber: row.TicketNumber,
		Title:        params.Title,
		Description:  params.Description,
		Status:       model.TicketStatus(params.Status),
		Priority:     model.TicketPriority(params.Priority),
		Images:       params.Images,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.CreatedAt,
		User: model.TicketUser{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			Phone:      user.Phone,
			LineUserID: user.LineUserID,
		},
		Device: model.TicketDevice{
			ID:           device.ID,
			SerialNumber: device.SerialNumber,
			ModelName:    device.ModelName,
			BrandName:    device.BrandName,
			CompanyName:  device.CompanyName,
		},
	}
}
