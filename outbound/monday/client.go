package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"net/http"
	"repair-ticket/common/constant"
	"repair-ticket/common/errs"
	"repair-ticket/model"
	"strconv"
)

const (
	createItemMutation = `mutation ($boardId: ID!, $itemName: String!, $columnValues: JSON!) { create_item (board_id: $boardId, item_name: $itemName, column_values: $columnValues) { id } }`

	changeColumnsMutation = `mutation ($boardId: ID!, $itemId: ID!, $columnValues: JSON!) { change_multiple_column_values (board_id: $boardId, item_id: $itemId, column_values: $columnValues) { id } }`

	boardColumnsQuery = `query ($boardId: [ID!]) { boards (ids: $boardId) { name columns { id title type } } }`

	meQuery = `query { me { id name email } }`

	addFileMutation = `mutation ($file: File!) { add_file_to_column (item_id: %d, column_id: %q, file: $file) { id } }`
)

type ErrorKind int

const (
	ErrorKindFieldRejected ErrorKind = iota + 1
	ErrorKindTransport
	ErrorKindFatal
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindFieldRejected:
		return "field_rejected"
	case ErrorKindTransport:
		return "transport"
	default:
		return "fatal"
	}
}

type AttemptError struct {
	Kind       ErrorKind
	StatusCode int
	Messages   []string
	Err        error
}

func (e *AttemptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("monday %s: %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("monday %s (status %d): %v", e.Kind, e.StatusCode, e.Messages)
}

func (e *AttemptError) Unwrap() error {
	return e.Err
}

func (e *AttemptError) Retryable() bool {
	return e.Kind == ErrorKindFieldRejected || e.Kind == ErrorKindTransport
}

type Board struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse[T any] struct {
	Data         T              `json:"data"`
	Errors       []graphQLError `json:"errors"`
	ErrorCode    string         `json:"error_code"`
	ErrorMessage string         `json:"error_message"`
}

type itemID struct {
	ID string `json:"id"`
}

type Client struct {
	cfg     Config
	http    *resty.Client
	columns *cache.Cache
}

func NewClient(cfg Config) *Client {
	httpClient := resty.New().
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", cfg.Token)
	if cfg.APIVersion != "" {
		httpClient.SetHeader("API-Version", cfg.APIVersion)
	}

	client := &Client{cfg: cfg, http: httpClient}
	if cfg.ColumnsCacheTTL > 0 {
		client.columns = cache.New(cfg.ColumnsCacheTTL, 2*cfg.ColumnsCacheTTL)
	}

	return client
}

// Attempt sends a single create_item mutation and returns the new item id.
func (c *Client) Attempt(ctx context.Context, payload Payload) (string, *AttemptError) {
	if !c.cfg.Enabled() {
		return "", &AttemptError{Kind: ErrorKindFatal, Err: errs.ErrNotConfigured}
	}

	columnValues, err := payload.MarshalColumnValues(c.cfg.Columns)
	if err != nil {
		return "", &AttemptError{Kind: ErrorKindFatal, Err: err}
	}

	data, attemptErr := execute[struct {
		CreateItem *itemID `json:"create_item"`
	}](ctx, c, createItemMutation, map[string]any{
		"boardId":      c.cfg.BoardID,
		"itemName":     payload.ItemName,
		"columnValues": columnValues,
	})
	if attemptErr != nil {
		return "", attemptErr
	}

	if data.CreateItem == nil || data.CreateItem.ID == "" {
		return "", &AttemptError{Kind: ErrorKindFatal, Err: errors.New("create_item returned no item id")}
	}

	return data.CreateItem.ID, nil
}

// ChangeStatus writes the board label for status onto the status column of itemID.
func (c *Client) ChangeStatus(ctx context.Context, itemID string, status model.TicketStatus) error {
	if !c.cfg.Enabled() {
		return errs.ErrNotConfigured
	}

	columnValues, err := json.Marshal(map[string]any{
		c.cfg.StatusColumn(): Label(ToExternal(status)).wireValue(),
	})
	if err != nil {
		return err
	}

	data, attemptErr := execute[struct {
		ChangeMultipleColumnValues *itemID `json:"change_multiple_column_values"`
	}](ctx, c, changeColumnsMutation, map[string]any{
		"boardId":      c.cfg.BoardID,
		"itemId":       itemID,
		"columnValues": string(columnValues),
	})
	if attemptErr != nil {
		return attemptErr
	}

	if data.ChangeMultipleColumnValues == nil || data.ChangeMultipleColumnValues.ID == "" {
		return &AttemptError{Kind: ErrorKindFatal, Err: errors.New("change_multiple_column_values returned no item id")}
	}

	return nil
}

// BoardColumns discovers the configured board's columns, memoized for ColumnsCacheTTL.
func (c *Client) BoardColumns(ctx context.Context) (Board, error) {
	if !c.cfg.Enabled() {
		return Board{}, errs.ErrNotConfigured
	}

	key := fmt.Sprintf(constant.BoardColumnsMemoKey, c.cfg.BoardID)
	if c.columns != nil {
		if cached, ok := c.columns.Get(key); ok {
			return cached.(Board), nil
		}
	}

	data, attemptErr := execute[struct {
		Boards []Board `json:"boards"`
	}](ctx, c, boardColumnsQuery, map[string]any{
		"boardId": []string{c.cfg.BoardID},
	})
	if attemptErr != nil {
		return Board{}, attemptErr
	}

	if len(data.Boards) == 0 {
		return Board{}, fmt.Errorf("board %s not found", c.cfg.BoardID)
	}

	board := data.Boards[0]
	if c.columns != nil {
		c.columns.Set(key, board, cache.DefaultExpiration)
	}

	return board, nil
}

// Me resolves the account behind the configured token.
func (c *Client) Me(ctx context.Context) (User, error) {
	if c.cfg.Token == "" {
		return User{}, errs.ErrNotConfigured
	}

	data, attemptErr := execute[struct {
		Me *User `json:"me"`
	}](ctx, c, meQuery, nil)
	if attemptErr != nil {
		return User{}, attemptErr
	}

	if data.Me == nil {
		return User{}, errors.New("me query returned no user")
	}

	return *data.Me, nil
}

// UploadFile posts one file to the file endpoint, attaching it to columnID of itemID.
func (c *Client) UploadFile(ctx context.Context, itemID string, columnID string, name string, content []byte) error {
	if !c.cfg.Enabled() {
		return errs.ErrNotConfigured
	}

	id, err := strconv.ParseUint(itemID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid item id %q: %w", itemID, err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetMultipartFormData(map[string]string{
			"query": fmt.Sprintf(addFileMutation, id, columnID),
		}).
		SetMultipartField("variables[file]", name, http.DetectContentType(content), bytes.NewReader(content)).
		Post(c.cfg.FileURL)
	if err != nil {
		return &AttemptError{Kind: ErrorKindTransport, Err: err}
	}

	var out graphQLResponse[struct {
		AddFileToColumn *itemID `json:"add_file_to_column"`
	}]
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return &AttemptError{Kind: ErrorKindTransport, StatusCode: resp.StatusCode(), Err: err}
	}

	if attemptErr := classify(resp.StatusCode(), out.Errors, out.ErrorCode, out.ErrorMessage); attemptErr != nil {
		return attemptErr
	}

	if out.Data.AddFileToColumn == nil {
		return &AttemptError{Kind: ErrorKindFatal, Err: errors.New("add_file_to_column returned no asset id")}
	}

	return nil
}

func execute[T any](ctx context.Context, c *Client, query string, variables map[string]any) (T, *AttemptError) {
	var out graphQLResponse[T]

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(graphQLRequest{Query: query, Variables: variables}).
		Post(c.cfg.APIURL)
	if err != nil {
		return out.Data, &AttemptError{Kind: ErrorKindTransport, Err: err}
	}

	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return out.Data, &AttemptError{Kind: ErrorKindTransport, StatusCode: resp.StatusCode(), Err: err}
	}

	return out.Data, classify(resp.StatusCode(), out.Errors, out.ErrorCode, out.ErrorMessage)
}

// classify maps a parsed board response to an attempt error. Every rejected
// response stays retryable; only local preconditions and missing ids are fatal.
func classify(status int, gqlErrors []graphQLError, code string, message string) *AttemptError {
	messages := make([]string, 0, len(gqlErrors)+1)
	for _, e := range gqlErrors {
		messages = append(messages, e.Message)
	}
	if message != "" {
		messages = append(messages, message)
	}

	switch {
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return &AttemptError{Kind: ErrorKindTransport, StatusCode: status, Messages: messages}
	case len(gqlErrors) > 0 || code != "":
		return &AttemptError{Kind: ErrorKindFieldRejected, StatusCode: status, Messages: messages}
	case status >= http.StatusBadRequest:
		return &AttemptError{Kind: ErrorKindTransport, StatusCode: status, Messages: messages}
	}

	return nil
}
