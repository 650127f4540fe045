package monday

import (
	"github.com/spf13/viper"
	"time"
)

const (
	DefaultAPIURL  = "https://api.monday.com/v2"
	DefaultFileURL = "https://api.monday.com/v2/file"
)

var defaultColumns = ColumnMap{
	RoleTicketNumber:         "text_ticket_number",
	RoleStatus:               "status",
	RolePriority:             "priority",
	RoleDescription:          "long_text",
	RoleDevice:               "text_device",
	RoleCompany:              "text_company",
	RoleDepartment:           "text_department",
	RoleBrand:                "text_brand",
	RoleModel:                "text_model",
	RoleSerialNumber:         "text_serial_number",
	RoleContactName:          "text_contact_name",
	RoleContactPhone:         "phone",
	RoleReporterEmail:        "email",
	RoleAttachmentLinks:      "long_text_attachments",
	RoleAttachmentShareLinks: "long_text_share_links",
}

type Config struct {
	APIURL        string
	FileURL       string
	APIVersion    string
	Token         string
	BoardID       string
	WebhookSecret string
	Timeout       time.Duration

	Columns             ColumnMap
	FallbackFileColumns []string
	ColumnsCacheTTL     time.Duration
	UploadFiles         bool
}

func NewConfig(cfg *viper.Viper) Config {
	c := Config{
		APIURL:              cfg.GetString("monday.api_url"),
		FileURL:             cfg.GetString("monday.file_url"),
		APIVersion:          cfg.GetString("monday.api_version"),
		Token:               cfg.GetString("monday.api_token"),
		BoardID:             cfg.GetString("monday.board_id"),
		WebhookSecret:       cfg.GetString("monday.webhook_secret"),
		Timeout:             cfg.GetDuration("monday.timeout"),
		FallbackFileColumns: cfg.GetStringSlice("monday.fallback_file_columns"),
		ColumnsCacheTTL:     cfg.GetDuration("monday.columns_cache_ttl"),
		UploadFiles:         cfg.GetBool("monday.upload_files"),
		Columns:             make(ColumnMap, len(defaultColumns)),
	}

	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.FileURL == "" {
		c.FileURL = DefaultFileURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if len(c.FallbackFileColumns) == 0 {
		c.FallbackFileColumns = []string{"files"}
	}

	for role, id := range defaultColumns {
		c.Columns[role] = id
		if override := cfg.GetString("monday.columns." + string(role)); override != "" {
			c.Columns[role] = override
		}
	}

	return c
}

func (c Config) Enabled() bool {
	return c.Token != "" && c.BoardID != ""
}

func (c Config) StatusColumn() string {
	return c.Columns[RoleStatus]
}
