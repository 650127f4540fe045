package event

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"repair-ticket/common"
	"repair-ticket/common/constant"
	"repair-ticket/common/errs"
	"repair-ticket/common/otel"
	"repair-ticket/model"
	"time"
)

type LinePusher interface {
	Push(ctx context.Context, to string, text string) error
	PushGroup(ctx context.Context, text string) error
}

// NotificationEvent delivers queued LINE messages. Undecodable messages and an
// unconfigured channel are dropped; delivery errors are returned for redelivery.
type NotificationEvent struct {
	Line    LinePusher
	Timeout time.Duration
}

func (in NotificationEvent) LinePushHandler(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	var req model.LinePushEventMessage
	err := json.Unmarshal(msg, &req)
	if err != nil || req.To == "" {
		slog.WarnContext(ctx, "line push event unmarshal error", slog.Any(constant.LogFieldErr, err))
		return nil
	}

	ctx, span := otel.Tracer.Start(ctx, "NotificationEvent.LinePushHandler")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	err = in.Line.Push(ctx, req.To, req.Text)
	if errors.Is(err, errs.ErrNotConfigured) {
		slog.WarnContext(ctx, "line push skipped, channel not configured", traceIdAttr)
		return nil
	}
	if err != nil {
		common.UtilSpanError(span, err)
		slog.ErrorContext(ctx, "line push event error", traceIdAttr, slog.String("to", req.To), slog.Any(constant.LogFieldErr, err))
		return err
	}

	slog.InfoContext(ctx, "line push event success", traceIdAttr, slog.String("to", req.To))
	return nil
}

func (in NotificationEvent) LineGroupPushHandler(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	var req model.LineGroupPushEventMessage
	err := json.Unmarshal(msg, &req)
	if err != nil {
		slog.WarnContext(ctx, "line group push event unmarshal error", slog.Any(constant.LogFieldErr, err))
		return nil
	}

	ctx, span := otel.Tracer.Start(ctx, "NotificationEvent.LineGroupPushHandler")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	err = in.Line.PushGroup(ctx, req.Text)
	if errors.Is(err, errs.ErrNotConfigured) {
		slog.WarnContext(ctx, "line group push skipped, group not configured", traceIdAttr)
		return nil
	}
	if err != nil {
		common.UtilSpanError(span, err)
		slog.ErrorContext(ctx, "line group push event error", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return err
	}

	return nil
}

// Handle routes a queue message by subject.
func (in NotificationEvent) Handle(ctx context.Context, subject string, msg []byte) error {
	switch subject {
	case constant.SubjectLinePush:
		return in.LinePushHandler(ctx, msg)
	case constant.SubjectLineGroupPush:
		return in.LineGroupPushHandler(ctx, msg)
	}

	slog.WarnContext(ctx, "unknown notification subject", slog.String("subject", subject))
	return nil
}
