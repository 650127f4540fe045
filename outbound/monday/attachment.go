package monday

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

const (
	driveDirectURL = "https://drive.google.com/uc?export=view&id=%s"
	driveShareURL  = "https://drive.google.com/file/d/%s/view?usp=sharing"
	driveBoardURL  = "https://drive.google.com/uc?export=download&id=%s"

	attachmentUsageNote = "\n\n📎 ไฟล์แนบ (เปิดดูผ่านลิงก์):\n%s\n\nหากไฟล์ไม่แสดงในคอลัมน์ไฟล์ ให้เปิดจากลิงก์ด้านบน"
)

// mediaColumnKeywords are matched case-insensitively against board column titles.
var mediaColumnKeywords = []string{"รูป/วีดิโอประกอบ", "รูป", "วีดิโอ", "วิดีโอ", "image", "video", "photo"}

// Column is a board column as reported by column discovery.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// AttachmentRef is one attachment identifier in the three URL flavors the board may need.
type AttachmentRef struct {
	Source    string
	Name      string
	DirectURL string
	ShareURL  string
	BoardURL  string
}

type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyMediaColumn
	StrategySingleColumn
	StrategyDistributed
	StrategyFallback
)

func (s Strategy) String() string {
	switch s {
	case StrategyMediaColumn:
		return "media_column"
	case StrategySingleColumn:
		return "single_column"
	case StrategyDistributed:
		return "distributed"
	case StrategyFallback:
		return "fallback"
	default:
		return "none"
	}
}

type ColumnAssignment struct {
	ColumnID string
	Refs     []AttachmentRef
}

// AttachmentPlan is everything attachments contribute to a payload.
type AttachmentPlan struct {
	Refs        []AttachmentRef
	Strategy    Strategy
	Assignments []ColumnAssignment
}

func (p AttachmentPlan) Empty() bool {
	return len(p.Refs) == 0
}

func (p AttachmentPlan) DirectLinks() string {
	links := make([]string, 0, len(p.Refs))
	for _, ref := range p.Refs {
		links = append(links, ref.DirectURL)
	}

	return strings.Join(links, "\n")
}

func (p AttachmentPlan) ShareLinks() string {
	links := make([]string, 0, len(p.Refs))
	for _, ref := range p.Refs {
		links = append(links, ref.ShareURL)
	}

	return strings.Join(links, "\n")
}

// DescriptionNote is appended to the item description so links stay visible
// even when the file columns do not render remote URLs.
func (p AttachmentPlan) DescriptionNote() string {
	if p.Empty() {
		return ""
	}

	return fmt.Sprintf(attachmentUsageNote, p.ShareLinks())
}

// UploadColumn is the column the direct upload path writes to.
func (p AttachmentPlan) UploadColumn() string {
	if len(p.Assignments) == 0 {
		return ""
	}

	return p.Assignments[0].ColumnID
}

type Resolver struct {
	FallbackColumns []string
}

// Resolve turns attachment identifiers into references and decides which
// file columns receive them. columns is the discovery result and may be nil.
func (r Resolver) Resolve(ids []string, columns []Column) AttachmentPlan {
	refs := ResolveRefs(ids)
	if len(refs) == 0 {
		return AttachmentPlan{}
	}

	plan := AttachmentPlan{Refs: refs}

	fileCols := fileColumns(columns)
	for _, col := range fileCols {
		if isMediaColumn(col.Title) {
			plan.Strategy = StrategyMediaColumn
			plan.Assignments = []ColumnAssignment{{ColumnID: col.ID, Refs: refs}}
			return plan
		}
	}

	switch {
	case len(fileCols) == 1:
		plan.Strategy = StrategySingleColumn
		plan.Assignments = []ColumnAssignment{{ColumnID: fileCols[0].ID, Refs: refs}}
	case len(fileCols) > 1:
		plan.Strategy = StrategyDistributed
		for i, chunk := range distribute(refs, len(fileCols)) {
			if len(chunk) == 0 {
				continue
			}
			plan.Assignments = append(plan.Assignments, ColumnAssignment{ColumnID: fileCols[i].ID, Refs: chunk})
		}
	default:
		for _, id := range r.FallbackColumns {
			if id = strings.TrimSpace(id); id == "" {
				continue
			}
			plan.Strategy = StrategyFallback
			plan.Assignments = []ColumnAssignment{{ColumnID: id, Refs: refs}}
			break
		}
	}

	return plan
}

// ResolveRefs skips blank identifiers and inline data URLs, which have no
// dereferenceable form and only travel through the upload path.
func ResolveRefs(ids []string) []AttachmentRef {
	refs := make([]AttachmentRef, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || strings.HasPrefix(id, "data:") {
			continue
		}

		refs = append(refs, resolveRef(id, len(refs)+1))
	}

	return refs
}

func resolveRef(id string, position int) AttachmentRef {
	if strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://") {
		name := fmt.Sprintf("attachment-%d", position)
		if u, err := url.Parse(id); err == nil {
			if base := path.Base(u.Path); base != "." && base != "/" && base != "" {
				name = base
			}
		}

		return AttachmentRef{Source: id, Name: name, DirectURL: id, ShareURL: id, BoardURL: id}
	}

	escaped := url.QueryEscape(id)
	return AttachmentRef{
		Source:    id,
		Name:      fmt.Sprintf("attachment-%d", position),
		DirectURL: fmt.Sprintf(driveDirectURL, escaped),
		ShareURL:  fmt.Sprintf(driveShareURL, url.PathEscape(id)),
		BoardURL:  fmt.Sprintf(driveBoardURL, escaped),
	}
}

// distribute splits refs into m chunks of ceil(n/m) in order; trailing chunks may be short or empty.
func distribute(refs []AttachmentRef, m int) [][]AttachmentRef {
	if m <= 0 {
		return nil
	}

	size := (len(refs) + m - 1) / m
	chunks := make([][]AttachmentRef, m)
	for i := range chunks {
		start := min(i*size, len(refs))
		end := min(start+size, len(refs))
		chunks[i] = refs[start:end]
	}

	return chunks
}

func fileColumns(columns []Column) []Column {
	out := make([]Column, 0, len(columns))
	for _, col := range columns {
		if col.Type == "file" {
			out = append(out, col)
		}
	}

	return out
}

func isMediaColumn(title string) bool {
	title = strings.ToLower(title)
	for _, keyword := range mediaColumnKeywords {
		if strings.Contains(title, keyword) {
			return true
		}
	}

	return false
}
