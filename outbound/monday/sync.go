package monday

import (
	"context"
	"log/slog"
	"repair-ticket/common"
	"repair-ticket/common/constant"
	"repair-ticket/common/otel"
	"repair-ticket/model"
	"strings"
)

//go:generate mockgen -source=sync.go -destination=mocks/sync.go -package=mocks

type Remote interface {
	Attempt(ctx context.Context, payload Payload) (string, *AttemptError)
	ChangeStatus(ctx context.Context, itemID string, status model.TicketStatus) error
	BoardColumns(ctx context.Context) (Board, error)
	UploadFile(ctx context.Context, itemID string, columnID string, name string, content []byte) error
}

type FileFetcher interface {
	Fetch(ctx context.Context, id string) (name string, content []byte, err error)
}

// Syncer owns the create and status-update flows toward the board. None of its
// methods return errors; failures are logged and reported as nil or false.
type Syncer struct {
	Remote  Remote
	Fetcher FileFetcher
	Builder Builder

	UploadFiles     bool
	FallbackColumns []string
}

func NewSyncer(cfg Config, remote Remote, fetcher FileFetcher) *Syncer {
	return &Syncer{
		Remote:          remote,
		Fetcher:         fetcher,
		Builder:         Builder{Resolver: Resolver{FallbackColumns: cfg.FallbackFileColumns}},
		UploadFiles:     cfg.UploadFiles,
		FallbackColumns: cfg.FallbackFileColumns,
	}
}

// CreateRemoteItem returns the id of the created board item, or nil.
func (s *Syncer) CreateRemoteItem(ctx context.Context, ticket model.TicketDetail) *string {
	ctx, span := otel.Tracer.Start(ctx, "monday.Syncer.CreateRemoteItem")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	ticketAttr := slog.String("ticket_number", ticket.TicketNumber)

	var columns []Column
	if len(ticket.Images) > 0 {
		board, err := s.Remote.BoardColumns(ctx)
		if err != nil {
			slog.WarnContext(ctx, "column discovery failed, using fallback columns", traceIdAttr, ticketAttr, slog.Any(constant.LogFieldErr, err))
		} else {
			columns = board.Columns
		}
	}

	payload := s.Builder.Build(ticket, columns)
	slog.DebugContext(ctx, "creating board item", traceIdAttr, ticketAttr,
		slog.Int("attachments", len(payload.Attachments.Refs)),
		slog.String("strategy", payload.Attachments.Strategy.String()),
	)

	id, attemptErr := s.Remote.Attempt(ctx, payload)
	if attemptErr != nil && payload.Attachments.Strategy == StrategyFallback {
		payload, id, attemptErr = s.cascadeFallback(ctx, ticket, payload, attemptErr)
	}
	if attemptErr == nil {
		if s.UploadFiles && len(ticket.Images) > 0 {
			column := payload.Attachments.UploadColumn()
			if column == "" && len(s.FallbackColumns) > 0 {
				column = s.FallbackColumns[0]
			}
			s.UploadAttachments(ctx, id, column, ticket.Images)
		}

		slog.InfoContext(ctx, "board item created", traceIdAttr, ticketAttr, slog.String("item_id", id))
		return &id
	}

	common.UtilSpanError(span, attemptErr)
	slog.ErrorContext(ctx, "failed to create board item", traceIdAttr, ticketAttr,
		slog.String("kind", attemptErr.Kind.String()),
		slog.Any(constant.LogFieldErr, attemptErr),
	)

	if !attemptErr.Retryable() || !payload.HasAttachments() {
		return nil
	}

	id, attemptErr = s.Remote.Attempt(ctx, s.Builder.BuildWithoutAttachments(ticket))
	if attemptErr != nil {
		slog.ErrorContext(ctx, "failed to create board item without attachments", traceIdAttr, ticketAttr,
			slog.String("kind", attemptErr.Kind.String()),
			slog.Any(constant.LogFieldErr, attemptErr),
		)
		return nil
	}

	slog.InfoContext(ctx, "board item created without attachments", traceIdAttr, ticketAttr, slog.String("item_id", id))
	return &id
}

// cascadeFallback moves the attachments to the next configured fallback column
// for as long as the board rejects the current one.
func (s *Syncer) cascadeFallback(ctx context.Context, ticket model.TicketDetail, payload Payload, attemptErr *AttemptError) (Payload, string, *AttemptError) {
	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	rejected := payload.Attachments.UploadColumn()
	passed := false
	for i, column := range s.FallbackColumns {
		column = strings.TrimSpace(column)
		if !passed {
			passed = column == rejected
			continue
		}
		if column == "" {
			continue
		}
		if attemptErr.Kind != ErrorKindFieldRejected {
			break
		}

		slog.WarnContext(ctx, "fallback file column rejected, trying next", traceIdAttr,
			slog.String("ticket_number", ticket.TicketNumber),
			slog.String("rejected", rejected),
			slog.String("column", column),
		)

		builder := s.Builder
		builder.Resolver.FallbackColumns = s.FallbackColumns[i:]
		payload = builder.Build(ticket, nil)

		var id string
		if id, attemptErr = s.Remote.Attempt(ctx, payload); attemptErr == nil {
			return payload, id, nil
		}
		rejected = column
	}

	return payload, "", attemptErr
}

func (s *Syncer) UpdateRemoteStatus(ctx context.Context, externalID string, status model.TicketStatus) bool {
	ctx, span := otel.Tracer.Start(ctx, "monday.Syncer.UpdateRemoteStatus")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	if strings.TrimSpace(externalID) == "" {
		return false
	}

	if err := s.Remote.ChangeStatus(ctx, externalID, status); err != nil {
		common.UtilSpanError(span, err)
		slog.ErrorContext(ctx, "failed to update board item status", traceIdAttr,
			slog.String("item_id", externalID),
			slog.String("status", string(status)),
			slog.Any(constant.LogFieldErr, err),
		)
		return false
	}

	return true
}

// UploadAttachments fetches every id and uploads it to columnID. It reports
// success only when all files were uploaded.
func (s *Syncer) UploadAttachments(ctx context.Context, itemID string, columnID string, ids []string) bool {
	ctx, span := otel.Tracer.Start(ctx, "monday.Syncer.UploadAttachments")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	if s.Fetcher == nil || columnID == "" {
		slog.WarnContext(ctx, "attachment upload skipped", traceIdAttr, slog.String("item_id", itemID))
		return false
	}

	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			continue
		}

		name, content, err := s.Fetcher.Fetch(ctx, id)
		if err != nil {
			common.UtilSpanError(span, err)
			slog.ErrorContext(ctx, "failed to fetch attachment", traceIdAttr, slog.String("item_id", itemID), slog.Any(constant.LogFieldErr, err))
			return false
		}

		if err = s.Remote.UploadFile(ctx, itemID, columnID, name, content); err != nil {
			common.UtilSpanError(span, err)
			slog.ErrorContext(ctx, "failed to upload attachment", traceIdAttr, slog.String("item_id", itemID), slog.Any(constant.LogFieldErr, err))
			return false
		}
	}

	return true
}
