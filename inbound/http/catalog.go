package http

import (
	"encoding/json"
	"github.com/go-playground/validator/v10"
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

type CatalogHttp struct {
	Querier  *sqlgen.Queries
	Validate *validator.Validate
}

func RegisterCatalogHttp(mux *http.ServeMux, querier *sqlgen.Queries, validate *validator.Validate) *CatalogHttp {
	in := &CatalogHttp{Querier: querier, Validate: validate}

	mux.HandleFunc("GET /api/companies", in.listCompanies)
	mux.HandleFunc("POST /api/companies", in.createCompany)
	mux.HandleFunc("GET /api/companies/{companyId}/brands", in.listBrands)
	mux.HandleFunc("GET /api/brands/{brandId}/models", in.listModels)
	mux.HandleFunc("GET /api/models/{modelId}/devices", in.listDevices)

	return in
}

func (in CatalogHttp) listCompanies(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "CatalogHttp.listCompanies")
	defer span.End()

	rows, err := in.Querier.ListCompanies(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list companies", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	companies := make([]model.CompanyResponse, 0, len(rows))
	for _, row := range rows {
		companies = append(companies, model.CompanyResponse{
			ID:         row.ID,
			Name:       row.Name,
			CreatedAt:  row.CreatedAt,
			BrandCount: row.BrandCount,
		})
	}

	writeJSONResponse(w, http.StatusOK, companies)
}

func (in CatalogHttp) createCompany(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeErrorResponse(w, errs.BadRequest(constant.MsgCompanyNameEmpty))
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "CatalogHttp.createCompany")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "create company receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	company, err := in.Querier.CreateCompany(ctx, sqlgen.CreateCompanyParams{ID: newID(), Name: req.Name})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create company", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.CompanyResponse{
		ID:        company.ID,
		Name:      company.Name,
		CreatedAt: company.CreatedAt,
	})
}

func (in CatalogHttp) listBrands(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "CatalogHttp.listBrands")
	defer span.End()

	rows, err := in.Querier.ListBrandsByCompany(ctx, r.PathValue("companyId"))
	if err != nil {
		slog.ErrorContext(ctx, "failed to list brands", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	brands := make([]model.BrandResponse, 0, len(rows))
	for _, row := range rows {
		brands = append(brands, model.BrandResponse{ID: row.ID, Name: row.Name, CompanyID: row.CompanyID, CreatedAt: row.CreatedAt})
	}

	writeJSONResponse(w, http.StatusOK, brands)
}

func (in CatalogHttp) listModels(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "CatalogHttp.listModels")
	defer span.End()

	rows, err := in.Querier.ListModelsByBrand(ctx, r.PathValue("brandId"))
	if err != nil {
		slog.ErrorContext(ctx, "failed to list models", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	models := make([]model.ModelResponse, 0, len(rows))
	for _, row := range rows {
		models = append(models, model.ModelResponse{ID: row.ID, Name: row.Name, BrandID: row.BrandID, CreatedAt: row.CreatedAt})
	}

	writeJSONResponse(w, http.StatusOK, models)
}

func (in CatalogHttp) listDevices(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "CatalogHttp.listDevices")
	defer span.End()

	rows, err := in.Querier.ListDevicesByModel(ctx, r.PathValue("modelId"))
	if err != nil {
		slog.ErrorContext(ctx, "failed to list devices", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	devices := make([]model.DeviceResponse, 0, len(rows))
	for _, row := range rows {
		devices = append(devices, model.DeviceResponse{ID: row.ID, SerialNumber: row.SerialNumber, ModelID: row.ModelID, CreatedAt: row.CreatedAt})
	}

	writeJSONResponse(w, http.StatusOK, devices)
}
