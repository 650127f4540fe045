package cmd

import (
	"context"
	"github.com/nats-io/nats.go/jetstream"
	"log"
	"log/slog"
	"os"
	"repair-ticket/common/constant"
	"repair-ticket/inbound/event"
	"repair-ticket/outbound/line"
	"runtime/pprof"
)

func runQueueNotificationCmd(ctx context.Context) {
	cfg := newCfg("env")

	if cfg.GetString("env") == "dev" {
		cpu, err := os.Create("notification-cpu.prof")
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		defer cpu.Close()

		err = pprof.StartCPUProfile(cpu)
		if err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	shutdownTracer := newTracer(ctx, cfg)
	defer shutdownTracer(context.Background())

	natsConn := newNats(cfg)
	defer natsConn.Close()

	js := newJs(natsConn)
	st := createStreamWorkQueue(ctx, cfg, js)

	lineCfg := line.NewConfig(cfg)
	if lineCfg.ChannelAccessToken == "" {
		slog.WarnContext(ctx, "line channel access token is empty, notifications will be dropped")
	}

	notificationEvent := event.NotificationEvent{
		Line:    line.NewClient(lineCfg),
		Timeout: cfg.GetDuration("queue.notification.timeout"),
	}

	cons, err := st.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       "consumer:notification",
		FilterSubject: constant.NotificationWildcard,
		MaxDeliver:    cfg.GetInt("queue.notification.max_deliver"),
		AckWait:       cfg.GetDuration("queue.notification.ack_wait"),
	})
	if err != nil {
		log.Fatalln("failed to create consumer", err)
	}

	iter, err := cons.Messages()
	if err != nil {
		panic(err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				msg, err := iter.Next()
				if err != nil && err != jetstream.ErrMsgIteratorClosed {
					slog.ErrorContext(ctx, "Error fetching message", slog.Any(constant.LogFieldErr, err))
					continue
				}

				if msg == nil {
					continue
				}

				if eventErr := notificationEvent.Handle(ctx, msg.Subject(), msg.Data()); eventErr != nil {
					msg.NakWithDelay(cfg.GetDuration("queue.notification.retry_delay"))
					continue
				}

				if err := msg.Ack(); err != nil {
					slog.ErrorContext(ctx, "Error acknowledging message",
						slog.Any(constant.LogFieldErr, err),
						slog.Any(constant.LogFieldPayload, string(msg.Data())),
						slog.String("subject", msg.Subject()),
					)
					continue
				}
			}
		}
	}()

	slog.InfoContext(ctx, "notification queue consumer started")

	<-ctx.Done()

	iter.Stop()

	slog.InfoContext(ctx, "notification queue consumer stopped")
}
