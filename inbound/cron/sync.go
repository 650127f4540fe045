package cron

import (
	"context"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"log/slog"
	"repair-ticket/common"
	"repair-ticket/common/constant"
	"repair-ticket/common/otel"
	"repair-ticket/model"
	"repair-ticket/outbound/sqlgen"
	"time"
)

type RemoteCreator interface {
	CreateRemoteItem(ctx context.Context, ticket model.TicketDetail) *string
}

// SyncCron retries board creation for recent tickets that never got an item id.
type SyncCron struct {
	Cfg     *viper.Viper
	Cache   *redis.Client
	Querier *sqlgen.Queries
	Syncer  RemoteCreator

	TimeNow func() time.Time
}

func (in SyncCron) Start(ctx context.Context) {
	if !in.Cfg.GetBool("cron.sync.enabled") {
		slog.Info("sync cron disabled")
		return
	}

	ticker := time.NewTicker(in.Cfg.GetDuration("cron.sync.interval"))
	defer ticker.Stop()

	slog.Info("sync cron started")

	for {
		select {
		case <-ticker.C:
			in.reconcile(ctx)
		case <-ctx.Done():
			slog.Info("sync cron stopped")
			return
		}
	}
}

// reconcile returns the number of tickets that received a board item id.
func (in SyncCron) reconcile(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, in.Cfg.GetDuration("cron.sync.timeout"))
	defer cancel()

	ctx, span := otel.Tracer.Start(ctx, "cron.SyncCron.reconcile")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	// Only one replica runs a batch per interval.
	acquired, err := in.Cache.SetNX(ctx, constant.SyncCronLock, true, in.Cfg.GetDuration("cron.sync.interval")).Result()
	if err != nil {
		common.UtilSpanError(span, err)
		slog.ErrorContext(ctx, "failed to acquire sync lock", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return 0
	}
	if !acquired {
		slog.DebugContext(ctx, "sync batch already running elsewhere", traceIdAttr)
		return 0
	}

	now := time.Now
	if in.TimeNow != nil {
		now = in.TimeNow
	}

	// Tickets younger than min_age may still be inside their own create request.
	rows, err := in.Querier.ListUnsyncedTickets(ctx, sqlgen.ListUnsyncedTicketsParams{
		CreatedAfter:  now().Add(-in.Cfg.GetDuration("cron.sync.lookback")),
		CreatedBefore: now().Add(-in.Cfg.GetDuration("cron.sync.min_age")),
		Limit:         in.Cfg.GetInt32("cron.sync.batch_size"),
	})
	if err != nil {
		common.UtilSpanError(span, err)
		slog.ErrorContext(ctx, "failed to list unsynced tickets", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return 0
	}

	synced := 0
	for _, row := range rows {
		remoteID := in.Syncer.CreateRemoteItem(ctx, row.Detail())
		if remoteID == nil {
			continue
		}

		tag, err := in.Querier.SetTicketMondayID(ctx, sqlgen.SetTicketMondayIDParams{ID: row.ID, MondayTicketID: remoteID})
		if err != nil {
			slog.ErrorContext(ctx, "failed to persist board item id", traceIdAttr,
				slog.String("ticket_id", row.ID),
				slog.Any(constant.LogFieldErr, err),
			)
			continue
		}
		if tag.RowsAffected() == 0 {
			slog.WarnContext(ctx, "ticket already linked to a board item", traceIdAttr,
				slog.String("ticket_id", row.ID),
				slog.String("orphan_item_id", *remoteID),
			)
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "sync batch finished", traceIdAttr,
		slog.Int("candidates", len(rows)),
		slog.Int("synced", synced),
	)
	return synced
}
