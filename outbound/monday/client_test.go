package monday

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"io"
	"net/http"
	"net/http/httptest"
	"repair-ticket/common/errs"
	"repair-ticket/model"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type ClientTestSuite struct {
	suite.Suite
	server   *httptest.Server
	handler  http.HandlerFunc
	requests []graphQLRequest
	calls    atomic.Int32
	client   *Client
	cfg      Config
}

func (s *ClientTestSuite) SetupTest() {
	s.requests = nil
	s.calls.Store(0)
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			var req graphQLRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			s.requests = append(s.requests, req)
		}
		s.handler(w, r)
	}))

	s.cfg = Config{
		APIURL:          s.server.URL + "/v2",
		FileURL:         s.server.URL + "/v2/file",
		Token:           "token-123",
		BoardID:         "42",
		Timeout:         5 * time.Second,
		Columns:         defaultColumns,
		ColumnsCacheTTL: time.Minute,
	}
	s.client = NewClient(s.cfg)
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func (s *ClientTestSuite) TestAttempt() {
	payload := Builder{}.Build(testTicket(), nil)

	testCases := []struct {
		name         string
		handler      http.HandlerFunc
		expectedID   string
		expectedKind ErrorKind
	}{
		{
			name:       "created",
			handler:    respond(http.StatusOK, `{"data":{"create_item":{"id":"987"}}}`),
			expectedID: "987",
		},
		{
			name:         "field level errors",
			handler:      respond(http.StatusOK, `{"errors":[{"message":"invalid value for column files"}]}`),
			expectedKind: ErrorKindFieldRejected,
		},
		{
			name:         "column value exception code",
			handler:      respond(http.StatusOK, `{"error_code":"ColumnValueException","error_message":"invalid url"}`),
			expectedKind: ErrorKindFieldRejected,
		},
		{
			name:         "invalid board is rejected",
			handler:      respond(http.StatusOK, `{"errors":[{"message":"bad"}],"error_code":"InvalidBoardIdException"}`),
			expectedKind: ErrorKindFieldRejected,
		},
		{
			name:         "unauthorized is rejected",
			handler:      respond(http.StatusUnauthorized, `{"errors":[{"message":"Not Authenticated"}]}`),
			expectedKind: ErrorKindFieldRejected,
		},
		{
			name:         "server error is transport",
			handler:      respond(http.StatusBadGateway, `upstream down`),
			expectedKind: ErrorKindTransport,
		},
		{
			name:         "rate limited is transport",
			handler:      respond(http.StatusTooManyRequests, `{"error_message":"Rate limit exceeded"}`),
			expectedKind: ErrorKindTransport,
		},
		{
			name:         "success without id is fatal",
			handler:      respond(http.StatusOK, `{"data":{"create_item":null}}`),
			expectedKind: ErrorKindFatal,
		},
		{
			name:         "unparseable client error is transport",
			handler:      respond(http.StatusBadRequest, `not json`),
			expectedKind: ErrorKindTransport,
		},
		{
			name:         "forbidden without body is transport",
			handler:      respond(http.StatusForbidden, `{}`),
			expectedKind: ErrorKindTransport,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.requests = nil
			s.handler = tc.handler

			id, attemptErr := s.client.Attempt(context.Background(), payload)

			if tc.expectedKind == 0 {
				s.Nil(attemptErr)
				s.Equal(tc.expectedID, id)
			} else {
				s.Require().NotNil(attemptErr)
				s.Equal(tc.expectedKind, attemptErr.Kind)
				s.Empty(id)
			}

			s.Require().Len(s.requests, 1)
			req := s.requests[0]
			s.Equal(createItemMutation, req.Query)
			s.Equal("42", req.Variables["boardId"])
			s.Equal("TK000042 - Printer jam", req.Variables["itemName"])

			columnValues, ok := req.Variables["columnValues"].(string)
			s.Require().True(ok)
			s.Contains(columnValues, `"status":{"label":"กำลังดำเนินการ"}`)
		})
	}
}

func (s *ClientTestSuite) TestCreateRemoteItemRetriesRejectedBoard() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		if s.requests[len(s.requests)-1].Query == boardColumnsQuery {
			respond(http.StatusOK, `{"data":{"boards":[{"name":"Repairs","columns":[{"id":"files","title":"Files","type":"file"}]}]}}`)(w, r)
			return
		}
		respond(http.StatusOK, `{"errors":[{"message":"bad"}],"error_code":"InvalidBoardIdException"}`)(w, r)
	}

	ticket := testTicket()
	ticket.Images = []string{"abc"}

	result := NewSyncer(s.cfg, s.client, nil).CreateRemoteItem(context.Background(), ticket)
	s.Nil(result)

	s.Require().Len(s.requests, 3)
	s.Equal(boardColumnsQuery, s.requests[0].Query)
	s.Equal(createItemMutation, s.requests[1].Query)
	s.Contains(s.requests[1].Variables["columnValues"], `"files":[`)
	s.Equal(createItemMutation, s.requests[2].Query)
	s.NotContains(s.requests[2].Variables["columnValues"], `"files":[`)
}

func (s *ClientTestSuite) TestAttemptHeaders() {
	var auth, version string
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		version = r.Header.Get("API-Version")
		respond(http.StatusOK, `{"data":{"create_item":{"id":"1"}}}`)(w, r)
	}

	s.cfg.APIVersion = "2024-10"
	client := NewClient(s.cfg)

	_, attemptErr := client.Attempt(context.Background(), Builder{}.Build(testTicket(), nil))
	s.Nil(attemptErr)
	s.Equal("token-123", auth)
	s.Equal("2024-10", version)
}

func (s *ClientTestSuite) TestAttemptTransportFailure() {
	s.server.Close()

	_, attemptErr := s.client.Attempt(context.Background(), Builder{}.Build(testTicket(), nil))

	s.Require().NotNil(attemptErr)
	s.Equal(ErrorKindTransport, attemptErr.Kind)
	s.True(attemptErr.Retryable())
}

func (s *ClientTestSuite) TestAttemptNotConfigured() {
	s.cfg.Token = ""
	client := NewClient(s.cfg)

	_, attemptErr := client.Attempt(context.Background(), Builder{}.Build(testTicket(), nil))

	s.Require().NotNil(attemptErr)
	s.Equal(ErrorKindFatal, attemptErr.Kind)
	s.True(errors.Is(attemptErr, errs.ErrNotConfigured))
	s.Equal(int32(0), s.calls.Load())
}

func (s *ClientTestSuite) TestChangeStatus() {
	s.handler = respond(http.StatusOK, `{"data":{"change_multiple_column_values":{"id":"555"}}}`)

	err := s.client.ChangeStatus(context.Background(), "555", model.StatusCompleted)
	s.NoError(err)

	s.Require().Len(s.requests, 1)
	s.Equal(changeColumnsMutation, s.requests[0].Query)
	s.Equal("555", s.requests[0].Variables["itemId"])
	s.Equal(`{"status":{"label":"เสร็จสิ้น"}}`, s.requests[0].Variables["columnValues"])

	s.handler = respond(http.StatusOK, `{"errors":[{"message":"item not found"}]}`)
	s.Error(s.client.ChangeStatus(context.Background(), "555", model.StatusCompleted))
}

func (s *ClientTestSuite) TestBoardColumnsMemoized() {
	s.handler = respond(http.StatusOK, `{"data":{"boards":[{"name":"Repairs","columns":[
		{"id":"name","title":"Name","type":"name"},
		{"id":"files","title":"Files","type":"file"}]}]}}`)

	board, err := s.client.BoardColumns(context.Background())
	s.Require().NoError(err)
	s.Equal("Repairs", board.Name)
	s.Equal([]Column{{ID: "name", Title: "Name", Type: "name"}, {ID: "files", Title: "Files", Type: "file"}}, board.Columns)

	again, err := s.client.BoardColumns(context.Background())
	s.Require().NoError(err)
	s.Equal(board, again)
	s.Equal(int32(1), s.calls.Load())

	s.Equal([]any{"42"}, s.requests[0].Variables["boardId"])
}

func (s *ClientTestSuite) TestBoardColumnsErrorNotCached() {
	s.handler = respond(http.StatusOK, `{"data":{"boards":[]}}`)

	_, err := s.client.BoardColumns(context.Background())
	s.Error(err)

	s.handler = respond(http.StatusOK, `{"data":{"boards":[{"name":"Repairs","columns":[]}]}}`)
	board, err := s.client.BoardColumns(context.Background())
	s.NoError(err)
	s.Equal("Repairs", board.Name)
	s.Equal(int32(2), s.calls.Load())
}

func (s *ClientTestSuite) TestMe() {
	s.handler = respond(http.StatusOK, `{"data":{"me":{"id":"1","name":"Admin","email":"admin@example.com"}}}`)

	user, err := s.client.Me(context.Background())
	s.NoError(err)
	s.Equal(User{ID: "1", Name: "Admin", Email: "admin@example.com"}, user)
	s.Equal(meQuery, s.requests[0].Query)
}

func (s *ClientTestSuite) TestUploadFile() {
	var query, fileName string
	var content []byte
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/v2/file", r.URL.Path)
		s.Require().NoError(r.ParseMultipartForm(1 << 20))
		query = r.FormValue("query")

		file, header, err := r.FormFile("variables[file]")
		s.Require().NoError(err)
		defer file.Close()
		fileName = header.Filename
		content, _ = io.ReadAll(file)

		respond(http.StatusOK, `{"data":{"add_file_to_column":{"id":"asset-1"}}}`)(w, r)
	}

	err := s.client.UploadFile(context.Background(), "123", "files", "photo.png", []byte("png-bytes"))
	s.NoError(err)
	s.Equal(`mutation ($file: File!) { add_file_to_column (item_id: 123, column_id: "files", file: $file) { id } }`, query)
	s.Equal("photo.png", fileName)
	s.Equal([]byte("png-bytes"), content)

	s.Error(s.client.UploadFile(context.Background(), "12 OR 1", "files", "x", []byte("x")))
}

func TestNewConfig(t *testing.T) {
	cfg := newTestViper(map[string]any{
		"monday.api_token":              "tok",
		"monday.board_id":               "42",
		"monday.columns.status":         "status_1",
		"monday.fallback_file_columns":  []string{"file_mk1", "file_mk2"},
		"monday.timeout":                "3s",
		"monday.columns_cache_ttl":      "10m",
		"monday.upload_files":           true,
	})

	c := NewConfig(cfg)

	assert.True(t, c.Enabled())
	assert.Equal(t, DefaultAPIURL, c.APIURL)
	assert.Equal(t, DefaultFileURL, c.FileURL)
	assert.Equal(t, "status_1", c.StatusColumn())
	assert.Equal(t, "text_ticket_number", c.Columns[RoleTicketNumber])
	assert.Equal(t, []string{"file_mk1", "file_mk2"}, c.FallbackFileColumns)
	assert.Equal(t, 3*time.Second, c.Timeout)
	assert.Equal(t, 10*time.Minute, c.ColumnsCacheTTL)
	assert.True(t, c.UploadFiles)

	empty := NewConfig(newTestViper(nil))
	assert.False(t, empty.Enabled())
	assert.Equal(t, 15*time.Second, empty.Timeout)
	assert.Equal(t, []string{"files"}, empty.FallbackFileColumns)
	require.Len(t, empty.Columns, len(defaultColumns))
}
