package line

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"net/http"
	"regexp"
	"repair-ticket/common/errs"
	"strings"
	"time"
)

const DefaultPushURL = "https://api.line.me/v2/bot/message/push"

var ErrNotConfigured = fmt.Errorf("line: %w", errs.ErrNotConfigured)

var userIDPattern = regexp.MustCompile(`(?i)^U[0-9a-f]{32}$`)

type Config struct {
	PushURL            string
	ChannelAccessToken string
	ChannelSecret      string
	GroupID            string
	LiffID             string
	Timeout            time.Duration
}

func NewConfig(cfg *viper.Viper) Config {
	c := Config{
		PushURL:            cfg.GetString("line.push_url"),
		ChannelAccessToken: cfg.GetString("line.channel_access_token"),
		ChannelSecret:      cfg.GetString("line.channel_secret"),
		GroupID:            cfg.GetString("line.group_id"),
		LiffID:             cfg.GetString("line.liff_id"),
		Timeout:            cfg.GetDuration("line.timeout"),
	}

	if c.PushURL == "" {
		c.PushURL = DefaultPushURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}

	return c
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []textMessage `json:"messages"`
}

type Client struct {
	cfg  Config
	http *resty.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		http: resty.New().
			SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
			SetTimeout(cfg.Timeout).
			SetAuthToken(cfg.ChannelAccessToken),
	}
}

// Push sends one text message to a user, group or room id.
func (c *Client) Push(ctx context.Context, to string, text string) error {
	if c.cfg.ChannelAccessToken == "" {
		return ErrNotConfigured
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(pushRequest{To: to, Messages: []textMessage{{Type: "text", Text: text}}}).
		Post(c.cfg.PushURL)
	if err != nil {
		return fmt.Errorf("line push request failed: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("line push error: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	return nil
}

// PushGroup sends text to the configured staff group.
func (c *Client) PushGroup(ctx context.Context, text string) error {
	if c.cfg.GroupID == "" {
		return ErrNotConfigured
	}

	return c.Push(ctx, c.cfg.GroupID, text)
}

func IsValidUserID(id string) bool {
	return userIDPattern.MatchString(id)
}

// VerifySignature checks the base64 HMAC-SHA256 of body sent in x-line-signature.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}
