package monday_test

import (
	"context"
	"errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"log/slog"
	"repair-ticket/model"
	"repair-ticket/outbound/monday"
	"repair-ticket/outbound/monday/mocks"
	"testing"
)

type SyncerTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	remote  *mocks.MockRemote
	fetcher *mocks.MockFileFetcher
	syncer  *monday.Syncer
}

func (s *SyncerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.remote = mocks.NewMockRemote(s.ctrl)
	s.fetcher = mocks.NewMockFileFetcher(s.ctrl)
	s.syncer = monday.NewSyncer(monday.Config{FallbackFileColumns: []string{"files"}}, s.remote, s.fetcher)
	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func (s *SyncerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestSyncerTestSuite(t *testing.T) {
	suite.Run(t, new(SyncerTestSuite))
}

func ticket(images ...string) model.TicketDetail {
	return model.TicketDetail{
		ID:           "t1",
		TicketNumber: "REP-123456-ABCDEF",
		Title:        "Screen flicker",
		Description:  "จอกระพริบ",
		Status:       model.StatusPending,
		Priority:     model.PriorityMedium,
		Images:       images,
		User:         model.TicketUser{Name: "Nok", Email: "nok@example.com"},
	}
}

func (s *SyncerTestSuite) TestCreateRemoteItem() {
	fileColumns := monday.Board{Columns: []monday.Column{{ID: "files_a", Title: "Files", Type: "file"}}}

	testCases := []struct {
		name      string
		ticket    model.TicketDetail
		setupMock func()
		expected  *string
	}{
		{
			name:   "created without attachments skips discovery",
			ticket: ticket(),
			setupMock: func() {
				s.remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p monday.Payload) (string, *monday.AttemptError) {
						s.False(p.HasAttachments())
						return "100", nil
					})
			},
			expected: ptr("100"),
		},
		{
			name:   "created with attachments",
			ticket: ticket("img1", "img2"),
			setupMock: func() {
				s.remote.EXPECT().BoardColumns(gomock.Any()).Return(fileColumns, nil)
				s.remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p monday.Payload) (string, *monday.AttemptError) {
						s.True(p.HasAttachments())
						s.Len(p.FileColumns["files_a"], 2)
						return "101", nil
					})
			},
			expected: ptr("101"),
		},
		{
			name:   "field rejection with attachments retries once without them",
			ticket: ticket("img1"),
			setupMock: func() {
				s.remote.EXPECT().BoardColumns(gomock.Any()).Return(fileColumns, nil)
				gomock.InOrder(
					s.remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).
						Return("", &monday.AttemptError{Kind: monday.ErrorKindFieldRejected, Messages: []string{"bad file"}}),
					s.remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, p monday.Payload) (string, *monday.AttemptError) {
							s.False(p.HasAttachments())
							s.Empty(p.FileColumns)
							s.NotContains(p.Values, monday.RoleAttachmentLinks)
							return "102", nil
						}),
				)
			},
			expected: ptr("102"),
		},
		{
			name:   "retry result is propagated when it also fails",
			ticket: ticket("img1"),
			setupMock: func() {
				s.remote.EXPECT().BoardColumns(gomock.Any()).Return(monday.Board{}, errors.New("timeout"))
				s.remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).
					Return("", &monday.AttemptError{Kind: monday.ErrorKindTransport, Err: errors.New("connection reset")}).
					Times(2)
			},
			expected: nil,
		},
		{
			name:   "field rejection without attachments does not retry",
			ticket: ticket(),
			setupMock: func() {
				s.remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).
					Return("", &monday.AttemptError{Kind: monday.ErrorKindFieldRejected}).
					Times(1)
			},
			expected: nil,
		},
		{
			name:   "missing item id with attachments does not retry",
			ticket: ticket("img1"),
			setupMock: func() {
				s.remote.EXPECT().BoardColumns(gomock.Any()).Return(fileColumns, nil)
				s.remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).
					Return("", &monday.AttemptError{Kind: monday.ErrorKindFatal, Err: errors.New("create_item returned no item id")}).
					Times(1)
			},
			expected: nil,
		},
		{
			name:   "inline data attachments alone do not trigger retry",
			ticket: ticket("data:image/png;base64,AAAA"),
			setupMock: func() {
				s.remote.EXPECT().BoardColumns(gomock.Any()).Return(fileColumns, nil)
				s.remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).
					Return("", &monday.AttemptError{Kind: monday.ErrorKindFieldRejected}).
					Times(1)
			},
			expected: nil,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			tc.setupMock()

			result := s.syncer.CreateRemoteItem(context.Background(), tc.ticket)

			if tc.expected == nil {
				s.Nil(result)
			} else {
				s.Require().NotNil(result)
				s.Equal(*tc.expected, *result)
			}
		})
	}
}

func (s *SyncerTestSuite) TestCreateRemoteItemUploadsFiles() {
	s.syncer.UploadFiles = true

	s.remote.EXPECT().BoardColumns(gomock.Any()).Return(monday.Board{}, nil)
	s.remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).Return("200", nil)
	s.fetcher.EXPECT().Fetch(gomock.Any(), "img1").Return("img1.jpg", []byte("jpg"), nil)
	s.fetcher.EXPECT().Fetch(gomock.Any(), "data:text/plain;base64,aGk=").Return("file.txt", []byte("hi"), nil)
	s.remote.EXPECT().UploadFile(gomock.Any(), "200", "files", "img1.jpg", []byte("jpg")).Return(nil)
	s.remote.EXPECT().UploadFile(gomock.Any(), "200", "files", "file.txt", []byte("hi")).Return(nil)

	result := s.syncer.CreateRemoteItem(context.Background(), ticket("img1", "data:text/plain;base64,aGk="))

	s.Require().NotNil(result)
	s.Equal("200", *result)
}

func (s *SyncerTestSuite) TestCreateRemoteItemCascadesFallbackColumns() {
	s.syncer = monday.NewSyncer(monday.Config{FallbackFileColumns: []string{"file_a", " ", "file_b", "file_c"}}, s.remote, s.fetcher)

	s.remote.EXPECT().BoardColumns(gomock.Any()).Return(monday.Board{}, errors.New("timeout"))
	gomock.InOrder(
		s.remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p monday.Payload) (string, *monday.AttemptError) {
				s.Contains(p.FileColumns, "file_a")
				return "", &monday.AttemptError{Kind: monday.ErrorKindFieldRejected, Messages: []string{"invalid column"}}
			}),
		s.remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p monday.Payload) (string, *monday.AttemptError) {
				s.NotContains(p.FileColumns, "file_a")
				s.Len(p.FileColumns["file_b"], 1)
				return "400", nil
			}),
	)

	result := s.syncer.CreateRemoteItem(context.Background(), ticket("img1"))

	s.Require().NotNil(result)
	s.Equal("400", *result)
}

func (s *SyncerTestSuite) TestCreateRemoteItemFallbackColumnsExhausted() {
	s.syncer = monday.NewSyncer(monday.Config{FallbackFileColumns: []string{"file_a", "file_b"}}, s.remote, s.fetcher)

	s.remote.EXPECT().BoardColumns(gomock.Any()).Return(monday.Board{}, errors.New("timeout"))
	gomock.InOrder(
		s.remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).
			Return("", &monday.AttemptError{Kind: monday.ErrorKindFieldRejected}),
		s.remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p monday.Payload) (string, *monday.AttemptError) {
				s.Contains(p.FileColumns, "file_b")
				return "", &monday.AttemptError{Kind: monday.ErrorKindFieldRejected}
			}),
		s.remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p monday.Payload) (string, *monday.AttemptError) {
				s.False(p.HasAttachments())
				return "401", nil
			}),
	)

	result := s.syncer.CreateRemoteItem(context.Background(), ticket("img1"))

	s.Require().NotNil(result)
	s.Equal("401", *result)
}

func (s *SyncerTestSuite) TestCreateRemoteItemTransportErrorSkipsCascade() {
	s.syncer = monday.NewSyncer(monday.Config{FallbackFileColumns: []string{"file_a", "file_b"}}, s.remote, s.fetcher)

	s.remote.EXPECT().BoardColumns(gomock.Any()).Return(monday.Board{}, errors.New("timeout"))
	gomock.InOrder(
		s.remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).
			Return("", &monday.AttemptError{Kind: monday.ErrorKindTransport, Err: errors.New("connection reset")}),
		s.remote.EXPECT().Attempt(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p monday.Payload) (string, *monday.AttemptError) {
				s.False(p.HasAttachments())
				return "402", nil
			}),
	)

	result := s.syncer.CreateRemoteItem(context.Background(), ticket("img1"))

	s.Require().NotNil(result)
	s.Equal("402", *result)
}

func (s *SyncerTestSuite) TestUpdateRemoteStatus() {
	s.remote.EXPECT().ChangeStatus(gomock.Any(), "300", model.StatusCompleted).Return(nil)
	s.True(s.syncer.UpdateRemoteStatus(context.Background(), "300", model.StatusCompleted))

	s.remote.EXPECT().ChangeStatus(gomock.Any(), "301", model.StatusCancelled).Return(errors.New("boom"))
	s.False(s.syncer.UpdateRemoteStatus(context.Background(), "301", model.StatusCancelled))

	s.False(s.syncer.UpdateRemoteStatus(context.Background(), " ", model.StatusCancelled))
}

func (s *SyncerTestSuite) TestUploadAttachments() {
	s.fetcher.EXPECT().Fetch(gomock.Any(), "a").Return("a.png", []byte("a"), nil)
	s.fetcher.EXPECT().Fetch(gomock.Any(), "b").Return("", nil, errors.New("not found"))
	s.remote.EXPECT().UploadFile(gomock.Any(), "1", "files", "a.png", []byte("a")).Return(nil)

	s.False(s.syncer.UploadAttachments(context.Background(), "1", "files", []string{"a", "b", "c"}))
	s.False(s.syncer.UploadAttachments(context.Background(), "1", "", []string{"a"}))
}

func ptr(v string) *string {
	return &v
}
