package http

import (
	"context"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redismock/v9"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"log/slog"
	"net/http"
	jetsteamMock "repair-ticket/common/jetstream/mocks"
	"repair-ticket/model"
	"repair-ticket/outbound/line"
	"repair-ticket/outbound/monday"
	mondayMock "repair-ticket/outbound/monday/mocks"
	"repair-ticket/outbound/sqlgen"
	"time"
)

var (
	fixedNow = time.Date(2025, 3, 9, 13, 0, 0, 0, time.UTC)

	ticketDetailColumns = []string{
		"id", "ticket_number", "title", "description", "status", "priority", "images", "monday_ticket_id", "created_at", "updated_at",
		"user_id", "user_name", "user_email", "user_phone", "user_line_user_id",
		"device_id", "device_serial_number", "model_name", "brand_name", "company_name",
	}
	userColumns   = []string{"id", "email", "name", "phone", "password", "role", "line_user_id", "image", "created_at", "updated_at"}
	deviceColumns = []string{"id", "serial_number", "model_id", "created_at"}

	validLineID = "U0123456789abcdef0123456789abcdef"
)

// httpTestSuite carries the mocks every handler suite shares.
type httpTestSuite struct {
	suite.Suite

	Cfg *viper.Viper

	Querier *sqlgen.Queries
	PgxMock pgxmock.PgxPoolIface

	Cache     *redis.Client
	CacheMock redismock.ClientMock

	Ctrl      *gomock.Controller
	Validate  *validator.Validate
	Publisher *jetsteamMock.MockPublisher
	Remote    *mondayMock.MockRemote
	Syncer    *monday.Syncer
	Formatter *line.Formatter
	Sessions  *SessionStore
}

func (s *httpTestSuite) SetupTest() {
	s.Ctrl = gomock.NewController(s.T())

	rdb, mock := redismock.NewClientMock()
	s.Cache = rdb
	s.CacheMock = mock

	pool, err := pgxmock.NewPool()
	if err != nil {
		s.T().Fatalf("failed to create pgxmock pool: %v", err)
	}

	s.PgxMock = pool
	s.Querier = sqlgen.New(pool)

	s.Validate = validator.New()
	s.Publisher = jetsteamMock.NewMockPublisher(s.Ctrl)
	s.Remote = mondayMock.NewMockRemote(s.Ctrl)
	s.Syncer = monday.NewSyncer(monday.Config{}, s.Remote, nil)
	s.Formatter = line.NewFormatter("liff-123")

	s.Cfg = viper.New()
	s.Cfg.Set("auth.session_ttl", "1h")
	s.Cfg.Set("auth.bcrypt_cost", 4)

	s.Sessions = NewSessionStore(s.Cfg, s.Cache)
	s.Sessions.NewToken = func() string { return "token-1" }
	s.Sessions.TimeNow = func() time.Time { return fixedNow }

	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func (s *httpTestSuite) TearDownTest() {
	s.PgxMock.Close()

	if err := s.Cache.Close(); err != nil {
		s.T().Fatalf("failed to close redis mock: %v", err)
	}

	s.Ctrl.Finish()
}

func (s *httpTestSuite) assertMocks() {
	s.NoError(s.CacheMock.ExpectationsWereMet())
	s.NoError(s.PgxMock.ExpectationsWereMet())
}

func withSession(r *http.Request, session model.Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionCtxKey{}, session))
}

func ptr[T any](v T) *T {
	return &v
}

type ticketRow struct {
	id, number, title, description, status, priority string
	mondayID                                         *string
	userID, userName                                 string
	lineUserID                                       *string
}

func (t ticketRow) values() []any {
	return []any{
		t.id, t.number, t.title, t.description, t.status, t.priority, []string{}, t.mondayID, fixedNow, fixedNow,
		t.userID, t.userName, "somchai@example.com", (*string)(nil), t.lineUserID,
		"dev-1", "SN-9", "G3010", "HP", "Acme",
	}
}

func ticketRows(rows ...ticketRow) *pgxmock.Rows {
	out := pgxmock.NewRows(ticketDetailColumns)
	for _, row := range rows {
		out.AddRow(row.values()...)
	}
	return out
}

func userRow(id, email, name string, password, lineUserID *string, role model.UserRole) *pgxmock.Rows {
	return pgxmock.NewRows(userColumns).
		AddRow(id, email, name, (*string)(nil), password, string(role), lineUserID, (*string)(nil), fixedNow, fixedNow)
}
