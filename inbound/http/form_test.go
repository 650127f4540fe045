package http

import (
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"net/http"
	"net/http/httptest"
	"repair-ticket/common/constant"
	"repair-ticket/model"
	"repair-ticket/outbound/monday"
	"strings"
	"testing"
	"time"
)

type FormHttpTestSuite struct {
	httpTestSuite
}

func TestFormHttpTestSuite(t *testing.T) {
	suite.Run(t, new(FormHttpTestSuite))
}

func (s *FormHttpTestSuite) newHandler() *FormHttp {
	in := RegisterFormHttp(http.NewServeMux(), s.PgxMock, s.Querier, s.Publisher, s.Syncer, s.Validate, s.Formatter)
	in.TimeNow = func() time.Time { return fixedNow }
	return in
}

func (s *FormHttpTestSuite) expectTicketInsert(number string, priority string) {
	s.PgxMock.ExpectQuery(`SELECT COUNT\(\*\) FROM repair_tickets`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(41)))
	s.PgxMock.ExpectBegin()
	s.PgxMock.ExpectQuery(`INSERT INTO repair_tickets`).
		WithArgs(pgxmock.AnyArg(), number, "จอไม่ติด", pgxmock.AnyArg(), "PENDING", priority, "user-1", "dev-9", []string{}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "ticket_number", "created_at"}).AddRow("ticket-1", number, fixedNow))
	s.PgxMock.ExpectExec(`INSERT INTO repair_status_histories`).
		WithArgs(pgxmock.AnyArg(), "ticket-1", (*string)(nil), "PENDING", constant.HistoryNoteCreatedFromForms).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	s.PgxMock.ExpectCommit()
}

func (s *FormHttpTestSuite) TestSubmit() {
	deviceColumnsRow := func() *pgxmock.Rows {
		return pgxmock.NewRows(deviceColumns).AddRow("dev-9", "GOOGLE_FORM_user-1", "model-1", fixedNow)
	}

	tests := []struct {
		name           string
		reqBody        string
		setupMock      func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "invalid json",
			reqBody:        `{`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid request"}`,
		},
		{
			name:           "missing required fields",
			reqBody:        `{"email":"somchai@example.com","title":"จอไม่ติด"}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Missing required fields"}`,
		},
		{
			name:    "existing user and device",
			reqBody: `{"email":"somchai@example.com","name":"Somchai","title":"จอไม่ติด","description":"เปิดไม่ขึ้น","priority":"HIGH","company":"Acme"}`,
			setupMock: func() {
				s.PgxMock.ExpectQuery(`FROM users WHERE email = \$1`).
					WithArgs("somchai@example.com").
					WillReturnRows(userRow("user-1", "somchai@example.com", "Somchai", nil, ptr(validLineID), model.RoleUser))
				s.PgxMock.ExpectQuery(`FROM devices WHERE serial_number = \$1`).
					WithArgs("GOOGLE_FORM_user-1").
					WillReturnRows(deviceColumnsRow())
				s.expectTicketInsert("TK000042", "HIGH")
				s.Publisher.EXPECT().Publish(gomock.Any(), constant.SubjectLinePush, gomock.Any()).Return(nil, nil)
				s.Publisher.EXPECT().Publish(gomock.Any(), constant.SubjectLineGroupPush, gomock.Any()).Return(nil, nil)
				s.Remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).Return("555", nil)
				s.PgxMock.ExpectExec(`UPDATE repair_tickets SET monday_ticket_id`).
					WithArgs("ticket-1", ptr("555")).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"ticketId":"ticket-1","ticketNumber":"TK000042","message":"สร้างรายการแจ้งซ่อมสำเร็จ"}`,
		},
		{
			name:    "new user gets placeholder device chain",
			reqBody: `{"email":"new@example.com","name":"New","title":"จอไม่ติด","description":"เปิดไม่ขึ้น"}`,
			setupMock: func() {
				s.PgxMock.ExpectQuery(`FROM users WHERE email = \$1`).
					WithArgs("new@example.com").
					WillReturnError(pgx.ErrNoRows)
				s.PgxMock.ExpectQuery(`INSERT INTO users`).
					WithArgs(pgxmock.AnyArg(), "new@example.com", "New", pgxmock.AnyArg(), (*string)(nil), "USER", (*string)(nil)).
					WillReturnRows(userRow("user-1", "new@example.com", "New", nil, nil, model.RoleUser))
				s.PgxMock.ExpectQuery(`FROM devices WHERE serial_number = \$1`).
					WithArgs("GOOGLE_FORM_user-1").
					WillReturnError(pgx.ErrNoRows)
				s.PgxMock.ExpectQuery(`FROM companies WHERE name = \$1`).
					WithArgs(constant.GoogleFormsCompany).
					WillReturnRows(pgxmock.NewRows([]string{"id", "name", "created_at"}).AddRow("company-1", constant.GoogleFormsCompany, fixedNow))
				s.PgxMock.ExpectQuery(`FROM brands WHERE name = \$1`).
					WithArgs(constant.GoogleFormsBrand, "company-1").
					WillReturnError(pgx.ErrNoRows)
				s.PgxMock.ExpectQuery(`INSERT INTO brands`).
					WithArgs(pgxmock.AnyArg(), constant.GoogleFormsBrand, "company-1").
					WillReturnRows(pgxmock.NewRows([]string{"id", "name", "company_id", "created_at"}).AddRow("brand-1", constant.GoogleFormsBrand, "company-1", fixedNow))
				s.PgxMock.ExpectQuery(`FROM models WHERE name = \$1`).
					WithArgs(constant.GoogleFormsModel, "brand-1").
					WillReturnError(pgx.ErrNoRows)
				s.PgxMock.ExpectQuery(`INSERT INTO models`).
					WithArgs(pgxmock.AnyArg(), constant.GoogleFormsModel, "brand-1").
					WillReturnRows(pgxmock.NewRows([]string{"id", "name", "brand_id", "created_at"}).AddRow("model-1", constant.GoogleFormsModel, "brand-1", fixedNow))
				s.PgxMock.ExpectQuery(`INSERT INTO devices`).
					WithArgs(pgxmock.AnyArg(), "GOOGLE_FORM_user-1", "model-1").
					WillReturnRows(deviceColumnsRow())
				s.expectTicketInsert("TK000042", "MEDIUM")
				s.Publisher.EXPECT().Publish(gomock.Any(), constant.SubjectLineGroupPush, gomock.Any()).Return(nil, nil)
				s.Remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).
					Return("", &monday.AttemptError{Kind: monday.ErrorKindFatal, Err: fmt.Errorf("create_item returned no item id")})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"ticketId":"ticket-1","ticketNumber":"TK000042","message":"สร้างรายการแจ้งซ่อมสำเร็จ"}`,
		},
		{
			name:    "device lookup error",
			reqBody: `{"email":"somchai@example.com","title":"จอไม่ติด","description":"เปิดไม่ขึ้น"}`,
			setupMock: func() {
				s.PgxMock.ExpectQuery(`FROM users WHERE email = \$1`).
					WithArgs("somchai@example.com").
					WillReturnRows(userRow("user-1", "somchai@example.com", "Somchai", nil, nil, model.RoleUser))
				s.PgxMock.ExpectQuery(`FROM devices WHERE serial_number = \$1`).
					WithArgs("GOOGLE_FORM_user-1").
					WillReturnError(fmt.Errorf("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Internal Server Error"}`,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			formHttp := s.newHandler()

			tc.setupMock()

			req := httptest.NewRequest(http.MethodPost, "/api/webhooks/google-forms", strings.NewReader(tc.reqBody))
			w := httptest.NewRecorder()

			formHttp.submit(w, req)

			s.Equal(tc.expectedStatus, w.Code)
			s.Equal(tc.expectedBody, strings.TrimSpace(w.Body.String()))

			s.assertMocks()
		})
	}
}

func TestComposeFormDescription(t *testing.T) {
	tests := []struct {
		name     string
		req      model.GoogleFormRequest
		expected string
	}{
		{
			name: "answers become labelled lines",
			req: model.GoogleFormRequest{
				Description: "เปิดไม่ขึ้น",
				Company:     "Acme",
				Name:        "Somchai",
				Phone:       "0812345678",
				DeviceInfo:  "Dell Latitude",
				Timestamp:   "2025-03-09 20:00",
			},
			expected: "เปิดไม่ขึ้น\n\n" +
				"บริษัท/หน่วยงาน: Acme\n" +
				"ชื่อผู้ติดต่อ: Somchai\n" +
				"เบอร์ติดต่อ: 0812345678" +
				"\n\nอุปกรณ์: Dell Latitude" +
				"\n\nส่งผ่าน Google Forms เมื่อ: 2025-03-09 20:00",
		},
		{
			name:     "no answers",
			req:      model.GoogleFormRequest{Description: "เปิดไม่ขึ้น", Timestamp: "now"},
			expected: "เปิดไม่ขึ้น\n\nอุปกรณ์: ไม่ระบุ\n\nส่งผ่าน Google Forms เมื่อ: now",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, composeFormDescription(tc.req))
		})
	}
}

func TestComposeFormDescriptionIsExtractable(t *testing.T) {
	description := composeFormDescription(model.GoogleFormRequest{
		Description:  "เปิดไม่ขึ้น",
		Company:      "Acme",
		Department:   "IT",
		Brand:        "Dell",
		Model:        "Latitude 5420",
		SerialNumber: "SN-1",
	})

	fields := monday.ExtractFields(description)

	assert.Equal(t, "Acme", fields.Get(monday.FieldCompany))
	assert.Equal(t, "IT", fields.Get(monday.FieldDepartment))
	assert.Equal(t, "Dell", fields.Get(monday.FieldBrand))
	assert.Equal(t, "Latitude 5420", fields.Get(monday.FieldModel))
	assert.Equal(t, "SN-1", fields.Get(monday.FieldSerialNumber))
	assert.Equal(t, constant.NotSpecified, fields.Get(monday.FieldContactPhone))
}
