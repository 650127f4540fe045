package drive

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/viper"
	"github.com/vincent-petithory/dataurl"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"repair-ticket/common/errs"
	"strings"
	"time"
)

var ErrTooLarge = errors.New("attachment exceeds size limit")

type Config struct {
	CredentialsFile string
	CredentialsJSON string
	Endpoint        string
	MaxBytes        int64
	Timeout         time.Duration
}

func NewConfig(cfg *viper.Viper) Config {
	c := Config{
		CredentialsFile: cfg.GetString("drive.credentials_file"),
		CredentialsJSON: cfg.GetString("drive.credentials_json"),
		Endpoint:        cfg.GetString("drive.endpoint"),
		MaxBytes:        cfg.GetInt64("drive.max_bytes"),
		Timeout:         cfg.GetDuration("drive.timeout"),
	}

	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 << 20
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}

	return c
}

// Fetcher loads attachment bytes from inline data URLs, plain http(s) URLs or Google Drive file ids.
type Fetcher struct {
	cfg   Config
	http  *resty.Client
	files *drivev3.FilesService
}

func NewFetcher(ctx context.Context, cfg Config) (*Fetcher, error) {
	f := &Fetcher{
		cfg: cfg,
		http: resty.New().
			SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
			SetTimeout(cfg.Timeout).
			SetDoNotParseResponse(true),
	}

	opts, err := driveOptions(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		return f, nil
	}

	service, err := drivev3.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	f.files = service.Files

	return f, nil
}

func driveOptions(ctx context.Context, cfg Config) ([]option.ClientOption, error) {
	credentials := []byte(cfg.CredentialsJSON)
	if len(credentials) == 0 && cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read drive credentials: %w", err)
		}
		credentials = data
	}

	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	switch {
	case len(credentials) > 0:
		creds, err := google.CredentialsFromJSON(ctx, credentials, drivev3.DriveReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse drive credentials: %w", err)
		}

		base := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport), Timeout: cfg.Timeout}
		client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, base), creds.TokenSource)
		return append(opts, option.WithHTTPClient(client)), nil
	case cfg.Endpoint != "":
		return append(opts, option.WithoutAuthentication()), nil
	}

	return nil, nil
}

func (f *Fetcher) Fetch(ctx context.Context, id string) (string, []byte, error) {
	id = strings.TrimSpace(id)

	switch {
	case strings.HasPrefix(id, "data:"):
		return f.fetchDataURL(id)
	case strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://"):
		return f.fetchURL(ctx, id)
	default:
		return f.fetchDriveFile(ctx, id)
	}
}

func (f *Fetcher) fetchDataURL(id string) (string, []byte, error) {
	decoded, err := dataurl.DecodeString(id)
	if err != nil {
		return "", nil, fmt.Errorf("invalid data url: %w", err)
	}

	if int64(len(decoded.Data)) > f.cfg.MaxBytes {
		return "", nil, ErrTooLarge
	}

	name := "attachment"
	if exts, _ := mime.ExtensionsByType(decoded.MediaType.ContentType()); len(exts) > 0 {
		name += exts[0]
	}

	return name, decoded.Data, nil
}

func (f *Fetcher) fetchURL(ctx context.Context, rawURL string) (string, []byte, error) {
	resp, err := f.http.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return "", nil, fmt.Errorf("failed to download %s: status %d", rawURL, resp.StatusCode())
	}

	content, err := f.readLimited(body)
	if err != nil {
		return "", nil, err
	}

	name := "attachment"
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			name = base
		}
	}

	return name, content, nil
}

func (f *Fetcher) fetchDriveFile(ctx context.Context, id string) (string, []byte, error) {
	if f.files == nil {
		return "", nil, fmt.Errorf("drive: %w", errs.ErrNotConfigured)
	}

	meta, err := f.files.Get(id).Fields("name", "mimeType", "size").Context(ctx).Do()
	if err != nil {
		return "", nil, fmt.Errorf("failed to get drive file %s: %w", id, err)
	}

	if meta.Size > f.cfg.MaxBytes {
		return "", nil, ErrTooLarge
	}

	resp, err := f.files.Get(id).Context(ctx).Download()
	if err != nil {
		return "", nil, fmt.Errorf("failed to download drive file %s: %w", id, err)
	}
	defer resp.Body.Close()

	content, err := f.readLimited(resp.Body)
	if err != nil {
		return "", nil, err
	}

	name := meta.Name
	if name == "" {
		name = id
	}

	return name, content, nil
}

func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	content, err := io.ReadAll(io.LimitReader(r, f.cfg.MaxBytes+1))
	if err != nil {
		return nil, err
	}

	if int64(len(content)) > f.cfg.MaxBytes {
		return nil, ErrTooLarge
	}

	return content, nil
}
