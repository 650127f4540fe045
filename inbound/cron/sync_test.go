package cron

import (
	"context"
	"fmt"
	"github.com/go-redis/redismock/v9"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"log/slog"
	"repair-ticket/common/constant"
	"repair-ticket/outbound/monday"
	mondayMock "repair-ticket/outbound/monday/mocks"
	"repair-ticket/outbound/sqlgen"
	"testing"
	"time"
)

var fixedNow = time.Date(2025, 3, 9, 13, 0, 0, 0, time.UTC)

var ticketDetailColumns = []string{
	"id", "ticket_number", "title", "description", "status", "priority", "images", "monday_ticket_id", "created_at", "updated_at",
	"user_id", "user_name", "user_email", "user_phone", "user_line_user_id",
	"device_id", "device_serial_number", "model_name", "brand_name", "company_name",
}

type SyncCronTestSuite struct {
	suite.Suite

	Querier *sqlgen.Queries
	PgxMock pgxmock.PgxPoolIface

	Cache     *redis.Client
	CacheMock redismock.ClientMock

	Ctrl   *gomock.Controller
	Remote *mondayMock.MockRemote

	Cfg *viper.Viper
}

func (s *SyncCronTestSuite) SetupTest() {
	pool, err := pgxmock.NewPool()
	if err != nil {
		s.T().Fatalf("failed to create pgxmock pool: %v", err)
	}

	s.PgxMock = pool
	s.Querier = sqlgen.New(pool)

	rdb, mock := redismock.NewClientMock()
	s.Cache = rdb
	s.CacheMock = mock

	s.Ctrl = gomock.NewController(s.T())
	s.Remote = mondayMock.NewMockRemote(s.Ctrl)

	s.Cfg = viper.New()
	s.Cfg.Set("cron.sync.enabled", true)
	s.Cfg.Set("cron.sync.interval", "5m")
	s.Cfg.Set("cron.sync.timeout", "1m")
	s.Cfg.Set("cron.sync.lookback", "24h")
	s.Cfg.Set("cron.sync.min_age", "2m")
	s.Cfg.Set("cron.sync.batch_size", 10)

	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func (s *SyncCronTestSuite) TearDownTest() {
	s.PgxMock.Close()

	if err := s.Cache.Close(); err != nil {
		s.T().Fatalf("failed to close redis mock: %v", err)
	}

	s.Ctrl.Finish()
}

func TestSyncCronTestSuite(t *testing.T) {
	suite.Run(t, new(SyncCronTestSuite))
}

func (s *SyncCronTestSuite) newCron() SyncCron {
	return SyncCron{
		Cfg:     s.Cfg,
		Cache:   s.Cache,
		Querier: s.Querier,
		Syncer:  monday.NewSyncer(monday.Config{}, s.Remote, nil),
		TimeNow: func() time.Time { return fixedNow },
	}
}

func unsyncedRow(id string, number string) []any {
	return []any{
		id, number, "Printer jam", "Paper stuck", "PENDING", "HIGH", []string{}, (*string)(nil), fixedNow, fixedNow,
		"user-1", "Somchai", "somchai@example.com", (*string)(nil), (*string)(nil),
		"dev-1", "SN-9", "G3010", "HP", "Acme",
	}
}

func (s *SyncCronTestSuite) expectLock() *redismock.ExpectedBool {
	return s.CacheMock.ExpectSetNX(constant.SyncCronLock, true, 5*time.Minute)
}

func (s *SyncCronTestSuite) expectList() *pgxmock.ExpectedQuery {
	return s.PgxMock.ExpectQuery(`WHERE t.monday_ticket_id IS NULL`).
		WithArgs(fixedNow.Add(-24*time.Hour), fixedNow.Add(-2*time.Minute), int32(10))
}

func (s *SyncCronTestSuite) TestReconcile() {
	tests := []struct {
		name      string
		setupMock func()
		expected  int
	}{
		{
			name: "lock error",
			setupMock: func() {
				s.expectLock().SetErr(redis.ErrClosed)
			},
			expected: 0,
		},
		{
			name: "lock held elsewhere",
			setupMock: func() {
				s.expectLock().SetVal(false)
			},
			expected: 0,
		},
		{
			name: "list error",
			setupMock: func() {
				s.expectLock().SetVal(true)
				s.expectList().WillReturnError(fmt.Errorf("database error"))
			},
			expected: 0,
		},
		{
			name: "nothing to sync",
			setupMock: func() {
				s.expectLock().SetVal(true)
				s.expectList().WillReturnRows(pgxmock.NewRows(ticketDetailColumns))
			},
			expected: 0,
		},
		{
			name: "partial success",
			setupMock: func() {
				s.expectLock().SetVal(true)
				s.expectList().WillReturnRows(pgxmock.NewRows(ticketDetailColumns).
					AddRow(unsyncedRow("ticket-1", "REP-000001-AAAAAA")...).
					AddRow(unsyncedRow("ticket-2", "REP-000002-BBBBBB")...).
					AddRow(unsyncedRow("ticket-3", "REP-000003-CCCCCC")...))

				gomock.InOrder(
					s.Remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).Return("901", nil),
					s.Remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).
						Return("", &monday.AttemptError{Kind: monday.ErrorKindFatal, Err: fmt.Errorf("create_item returned no item id")}),
					s.Remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).Return("903", nil),
				)

				id901, id903 := "901", "903"
				s.PgxMock.ExpectExec(`UPDATE repair_tickets SET monday_ticket_id`).
					WithArgs("ticket-1", &id901).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				s.PgxMock.ExpectExec(`UPDATE repair_tickets SET monday_ticket_id`).
					WithArgs("ticket-3", &id903).
					WillReturnError(fmt.Errorf("database error"))
			},
			expected: 1,
		},
		{
			name: "ticket linked meanwhile is not counted",
			setupMock: func() {
				s.expectLock().SetVal(true)
				s.expectList().WillReturnRows(pgxmock.NewRows(ticketDetailColumns).
					AddRow(unsyncedRow("ticket-4", "REP-000004-DDDDDD")...))

				s.Remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).Return("904", nil)

				id904 := "904"
				s.PgxMock.ExpectExec(`UPDATE repair_tickets SET monday_ticket_id = \$2, updated_at = now\(\) WHERE id = \$1 AND monday_ticket_id IS NULL`).
					WithArgs("ticket-4", &id904).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			expected: 0,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			syncCron := s.newCron()

			tc.setupMock()

			s.Equal(tc.expected, syncCron.reconcile(context.Background()))

			s.NoError(s.CacheMock.ExpectationsWereMet())
			s.NoError(s.PgxMock.ExpectationsWereMet())
		})
	}
}

func (s *SyncCronTestSuite) TestStartDisabled() {
	s.Cfg.Set("cron.sync.enabled", false)

	done := make(chan struct{})
	go func() {
		s.newCron().Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("disabled cron should return immediately")
	}
}

func (s *SyncCronTestSuite) TestStartStopsOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.newCron().Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("cron should stop when the context is cancelled")
	}
}
