package http

import (
	"encoding/json"
	"errors"
	"github.com/jackc/pgx/v5"
	"log/slog"
	"net/http"
	"repair-ticket/common"
	"repair-ticket/common/constant"
	"repair-ticket/common/errs"
	"repair-ticket/common/otel"
	"repair-ticket/model"
	"repair-ticket/outbound/sqlgen"
	"strings"
)

type UserHttp struct {
	Querier *sqlgen.Queries
}

func RegisterUserHttp(mux *http.ServeMux, querier *sqlgen.Queries, sessions *SessionStore) *UserHttp {
	in := &UserHttp{Querier: querier}

	mux.HandleFunc("POST /api/user/link-line", sessions.Require(in.linkLine))
	mux.HandleFunc("GET /api/user/link-line", sessions.Require(in.lineStatus))
	mux.HandleFunc("DELETE /api/user/link-line", sessions.Require(in.unlinkLine))
	mux.HandleFunc("GET /api/user/check-line", in.checkLine)

	return in
}

func (in UserHttp) linkLine(w http.ResponseWriter, r *http.Request) {
	var req model.LinkLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	req.LineUid = strings.TrimSpace(req.LineUid)
	if req.LineUid == "" {
		writeErrorResponse(w, errs.BadRequest(constant.MsgLineUIDRequired))
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "UserHttp.linkLine")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	session, _ := sessionFromContext(ctx)
	slog.InfoContext(ctx, "link line receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	taken, err := in.Querier.LineUserIDTakenByOther(ctx, sqlgen.LineUserIDTakenByOtherParams{LineUserID: &req.LineUid, ID: session.UserID})
	if err != nil {
		slog.ErrorContext(ctx, "failed to check line id", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	if taken {
		writeErrorResponse(w, errs.Conflict(constant.MsgLineUIDLinkedOther))
		return
	}

	user, err := in.Querier.LinkUserLine(ctx, sqlgen.LinkUserLineParams{
		ID:          session.UserID,
		LineUserID:  &req.LineUid,
		DisplayName: optionalString(req.DisplayName),
		PictureUrl:  optionalString(req.PictureUrl),
	})
	if errors.Is(err, pgx.ErrNoRows) {
		writeErrorResponse(w, errs.NotFound(constant.MsgUserNotFound))
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to link line id", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.LinkLineResponse{
		Success: true,
		Message: constant.MsgLineLinked,
		User: model.LinkedLineUser{
			ID:         user.ID,
			LineUserID: user.LineUserID,
			Name:       user.Name,
			Image:      user.Image,
		},
	})
}

func (in UserHttp) lineStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "UserHttp.lineStatus")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	session, _ := sessionFromContext(ctx)

	user, err := in.Querier.GetUserByID(ctx, session.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeErrorResponse(w, errs.NotFound(constant.MsgUserNotFound))
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get user", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.LineStatusResponse{
		User: model.LineStatusUser{
			ID:         user.ID,
			LineUserID: user.LineUserID,
			Name:       user.Name,
			Email:      user.Email,
			Image:      user.Image,
		},
		IsLinked: user.LineUserID != nil && *user.LineUserID != "",
	})
}

func (in UserHttp) unlinkLine(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "UserHttp.unlinkLine")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	session, _ := sessionFromContext(ctx)

	row, err := in.Querier.UnlinkUserLine(ctx, session.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeErrorResponse(w, errs.NotFound(constant.MsgUserNotFound))
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to unlink line id", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.LinkLineResponse{
		Success: true,
		Message: constant.MsgLineUnlinked,
		User:    model.LinkedLineUser{ID: row.ID, LineUserID: row.LineUserID},
	})
}

func (in UserHttp) checkLine(w http.ResponseWriter, r *http.Request) {
	lineUid := strings.TrimSpace(r.URL.Query().Get("lineUid"))
	if lineUid == "" {
		writeErrorResponse(w, errs.BadRequest(constant.MsgLineUIDRequired))
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "UserHttp.checkLine")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	user, err := in.Querier.GetUserByLineUserID(ctx, &lineUid)
	if errors.Is(err, pgx.ErrNoRows) {
		writeJSONResponse(w, http.StatusOK, model.CheckLineResponse{Exists: false, Message: constant.MsgLineUserNotFound})
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get user by line id", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.CheckLineResponse{
		Exists: true,
		User: &model.CheckLineUser{
			ID:           user.ID,
			Name:         user.Name,
			Email:        user.Email,
			LineUserID:   user.LineUserID,
			RegisteredAt: user.CreatedAt,
		},
	})
}
