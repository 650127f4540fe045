package http

import (
	"context"
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
	"repair-ticket/outbound/monday"
	"repair-ticket/outbound/sqlgen"
	"strings"
	"time"
)

const (
	formDeviceLabel    = "\n\nอุปกรณ์: "
	formSubmittedLabel = "\n\nส่งผ่าน Google Forms เมื่อ: "
)

type FormHttp struct {
	ticketFlow

	Validate *validator.Validate
	TimeNow  func() time.Time
}

func RegisterFormHttp(
	mux *http.ServeMux,
	db contract.DbConn,
	querier *sqlgen.Queries,
	publisher contract.Publisher,
	syncer TicketSyncer,
	validate *validator.Validate,
	formatter *line.Formatter,
) *FormHttp {
	in := &FormHttp{
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

	mux.HandleFunc("POST /api/webhooks/google-forms", in.submit)

	return in
}

func (in FormHttp) submit(w http.ResponseWriter, r *http.Request) {
	var req model.GoogleFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if req.Email == "" || req.Title == "" || req.Description == "" {
		writeErrorResponse(w, errs.BadRequest(constant.MsgFormMissing))
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "FormHttp.submit")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "google form receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	user, err := in.findOrCreateUser(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve form user", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	device, err := in.findOrCreateDevice(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve form device", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	count, err := in.Querier.CountTickets(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count tickets", traceIdAttr, slog.Any(constant.LogFieldErr, err))
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
		TicketNumber: generateFormNumber(count),
		Title:        req.Title,
		Description:  composeFormDescription(req),
		Status:       string(model.StatusPending),
		Priority:     string(priority),
		UserID:       user.ID,
		DeviceID:     device.ID,
		Images:       images,
	}

	row, err := in.createTicket(ctx, params, constant.HistoryNoteCreatedFromForms)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create form ticket", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	ticket := newTicketDetail(row, params, user, device)

	if user.LineUserID != nil && line.IsValidUserID(*user.LineUserID) {
		in.pushLine(ctx, *user.LineUserID, in.Formatter.TicketNotice(ticket, in.TimeNow()))
	} else {
		slog.DebugContext(ctx, "reporter has no linked line account", traceIdAttr, slog.String("email", user.Email))
	}
	in.pushGroup(ctx, in.Formatter.GroupNewRepair(ticket))

	in.syncNewTicket(ctx, ticket)

	slog.InfoContext(ctx, "google form ticket created", traceIdAttr, slog.Any(constant.LogFieldResponse, ticket.TicketNumber))

	writeJSONResponse(w, http.StatusOK, model.GoogleFormResponse{
		Success:      true,
		TicketId:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Message:      constant.MsgFormCreated,
	})
}

func (in FormHttp) findOrCreateUser(ctx context.Context, req model.GoogleFormRequest) (sqlgen.User, error) {
	user, err := in.Querier.GetUserByEmail(ctx, req.Email)
	if !errors.Is(err, pgx.ErrNoRows) {
		return user, err
	}

	return in.Querier.CreateUser(ctx, sqlgen.CreateUserParams{
		ID:    newID(),
		Email: req.Email,
		Name:  req.Name,
		Phone: optionalString(req.Phone),
		Role:  string(model.RoleUser),
	})
}

// findOrCreateDevice resolves the per-user placeholder device and the catalog
// chain it hangs off.
func (in FormHttp) findOrCreateDevice(ctx context.Context, userID string) (sqlgen.GetDeviceDetailRow, error) {
	detail := sqlgen.GetDeviceDetailRow{
		SerialNumber: constant.GoogleFormsSerialPrefix + userID,
		ModelName:    constant.GoogleFormsModel,
		BrandName:    constant.GoogleFormsBrand,
		CompanyName:  constant.GoogleFormsCompany,
	}

	device, err := in.Querier.GetDeviceBySerialNumber(ctx, detail.SerialNumber)
	if err == nil {
		detail.ID = device.ID
		return detail, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return detail, err
	}

	company, err := in.Querier.GetCompanyByName(ctx, constant.GoogleFormsCompany)
	if errors.Is(err, pgx.ErrNoRows) {
		company, err = in.Querier.CreateCompany(ctx, sqlgen.CreateCompanyParams{ID: newID(), Name: constant.GoogleFormsCompany})
	}
	if err != nil {
		return detail, err
	}

	brand, err := in.Querier.GetBrandByName(ctx, sqlgen.GetBrandByNameParams{Name: constant.GoogleFormsBrand, CompanyID: company.ID})
	if errors.Is(err, pgx.ErrNoRows) {
		brand, err = in.Querier.CreateBrand(ctx, sqlgen.CreateBrandParams{ID: newID(), Name: constant.GoogleFormsBrand, CompanyID: company.ID})
	}
	if err != nil {
		return detail, err
	}

	deviceModel, err := in.Querier.GetModelByName(ctx, sqlgen.GetModelByNameParams{Name: constant.GoogleFormsModel, BrandID: brand.ID})
	if errors.Is(err, pgx.ErrNoRows) {
		deviceModel, err = in.Querier.CreateModel(ctx, sqlgen.CreateModelParams{ID: newID(), Name: constant.GoogleFormsModel, BrandID: brand.ID})
	}
	if err != nil {
		return detail, err
	}

	device, err = in.Querier.CreateDevice(ctx, sqlgen.CreateDeviceParams{ID: newID(), SerialNumber: detail.SerialNumber, ModelID: deviceModel.ID})
	if err != nil {
		return detail, err
	}

	detail.ID = device.ID
	return detail, nil
}

// composeFormDescription appends the structured answers as labelled lines so
// the board sync can extract them again.
func composeFormDescription(req model.GoogleFormRequest) string {
	answers := []struct {
		field monday.FormField
		value string
	}{
		{monday.FieldCompany, req.Company},
		{monday.FieldDepartment, req.Department},
		{monday.FieldBrand, req.Brand},
		{monday.FieldModel, req.Model},
		{monday.FieldSerialNumber, req.SerialNumber},
		{monday.FieldContactName, req.Name},
		{monday.FieldContactPhone, req.Phone},
	}

	var lines strings.Builder
	for _, answer := range answers {
		if value := strings.TrimSpace(answer.value); value != "" {
			lines.WriteString(monday.FormLine(answer.field, value))
		}
	}

	var b strings.Builder
	b.WriteString(req.Description)
	if lines.Len() > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSuffix(lines.String(), "\n"))
	}

	deviceInfo := strings.TrimSpace(req.DeviceInfo)
	if deviceInfo == "" {
		deviceInfo = constant.NotSpecified
	}
	b.WriteString(formDeviceLabel)
	b.WriteString(deviceInfo)
	b.WriteString(formSubmittedLabel)
	b.WriteString(req.Timestamp)

	return b.String()
}
