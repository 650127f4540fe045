package otel

import (
	"context"
	"errors"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"strings"
)

const queryNamePrefix = "-- name: "

// PgxCustomTracer opens one client span per statement, named after the sqlgen
// query when the statement carries a "-- name:" header.
type PgxCustomTracer struct{}

func (p PgxCustomTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	name := QueryName(data.SQL)

	spanName := "pgx.query"
	if name != "" {
		spanName = "pgx." + name
	}

	ctx, span := Tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))

	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", name),
		attribute.String("db.statement", data.SQL),
		attribute.Int("db.args.count", len(data.Args)),
	)

	return ctx
}

func (p PgxCustomTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	span := trace.SpanFromContext(ctx)
	defer span.End()

	if data.Err != nil && !errors.Is(data.Err, pgx.ErrNoRows) {
		span.SetStatus(codes.Error, data.Err.Error())
		span.RecordError(data.Err)
		return
	}

	span.SetStatus(codes.Ok, "")
	span.SetAttributes(
		attribute.Int64("db.rows_affected", data.CommandTag.RowsAffected()),
	)
}

// QueryName returns "GetTicketDetail" for a statement starting with
// "-- name: GetTicketDetail :one", or "" when there is no header.
func QueryName(sql string) string {
	sql = strings.TrimSpace(sql)
	if !strings.HasPrefix(sql, queryNamePrefix) {
		return ""
	}

	header, _, _ := strings.Cut(sql[len(queryNamePrefix):], "\n")
	name, _, _ := strings.Cut(strings.TrimSpace(header), " ")
	return name
}
