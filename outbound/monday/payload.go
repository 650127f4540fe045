package monday

import (
	"encoding/json"
	"fmt"
	"repair-ticket/common/constant"
	"repair-ticket/model"
	"strings"
)

type ColumnRole string

const (
	RoleTicketNumber  ColumnRole = "ticket_number"
	RoleStatus        ColumnRole = "status"
	RolePriority      ColumnRole = "priority"
	RoleDescription   ColumnRole = "description"
	RoleDevice        ColumnRole = "device"
	RoleCompany       ColumnRole = "company"
	RoleDepartment    ColumnRole = "department"
	RoleBrand         ColumnRole = "brand"
	RoleModel         ColumnRole = "model"
	RoleSerialNumber  ColumnRole = "serial_number"
	RoleContactName   ColumnRole = "contact_name"
	RoleContactPhone  ColumnRole = "contact_phone"
	RoleReporterEmail ColumnRole = "reporter_email"

	RoleAttachmentLinks      ColumnRole = "attachment_links"
	RoleAttachmentShareLinks ColumnRole = "attachment_share_links"
)

// FixedRoles are present in every create payload.
var FixedRoles = []ColumnRole{
	RoleTicketNumber,
	RoleStatus,
	RolePriority,
	RoleDescription,
	RoleDevice,
	RoleCompany,
	RoleDepartment,
	RoleBrand,
	RoleModel,
	RoleSerialNumber,
	RoleContactName,
	RoleContactPhone,
	RoleReporterEmail,
}

var AttachmentRoles = []ColumnRole{RoleAttachmentLinks, RoleAttachmentShareLinks}

// ColumnMap translates column roles into the board's column ids.
type ColumnMap map[ColumnRole]string

// ColumnValue is one of Text, Label or Files.
type ColumnValue interface {
	wireValue() any
}

type Text string

func (t Text) wireValue() any { return string(t) }

type Label string

func (l Label) wireValue() any { return map[string]string{"label": string(l)} }

type FileRef struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

type Files []FileRef

func (f Files) wireValue() any { return []FileRef(f) }

type Payload struct {
	ItemName    string
	Values      map[ColumnRole]ColumnValue
	FileColumns map[string]Files
	Attachments AttachmentPlan
}

func (p Payload) HasAttachments() bool {
	return !p.Attachments.Empty()
}

// ColumnValues keys the payload by board column id.
func (p Payload) ColumnValues(columns ColumnMap) (map[string]any, error) {
	out := make(map[string]any, len(p.Values)+len(p.FileColumns))
	for _, role := range FixedRoles {
		if _, ok := p.Values[role]; !ok {
			return nil, fmt.Errorf("payload missing value for column role %q", role)
		}
	}

	for role, value := range p.Values {
		id := columns[role]
		if id == "" {
			if isFixedRole(role) {
				return nil, fmt.Errorf("no board column mapped for role %q", role)
			}
			continue
		}
		out[id] = value.wireValue()
	}

	for id, files := range p.FileColumns {
		out[id] = files.wireValue()
	}

	return out, nil
}

// MarshalColumnValues renders the JSON string the create mutation expects.
func (p Payload) MarshalColumnValues(columns ColumnMap) (string, error) {
	values, err := p.ColumnValues(columns)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

type Builder struct {
	Resolver Resolver
}

// Build assembles the full create payload. boardColumns is the column
// discovery result, nil when discovery was skipped or failed.
func (b Builder) Build(ticket model.TicketDetail, boardColumns []Column) Payload {
	payload := b.build(ticket)

	plan := b.Resolver.Resolve(ticket.Images, boardColumns)
	if plan.Empty() {
		return payload
	}

	payload.Attachments = plan
	for _, assignment := range plan.Assignments {
		files := make(Files, 0, len(assignment.Refs))
		for _, ref := range assignment.Refs {
			files = append(files, FileRef{URL: ref.BoardURL, Name: ref.Name})
		}
		payload.FileColumns[assignment.ColumnID] = files
	}

	payload.Values[RoleAttachmentLinks] = Text(plan.DirectLinks())
	payload.Values[RoleAttachmentShareLinks] = Text(plan.ShareLinks())
	payload.Values[RoleDescription] = Text(ticket.Description + plan.DescriptionNote())

	return payload
}

// BuildWithoutAttachments is Build with every attachment contribution left out.
func (b Builder) BuildWithoutAttachments(ticket model.TicketDetail) Payload {
	return b.build(ticket)
}

func (b Builder) build(ticket model.TicketDetail) Payload {
	fields := ExtractFields(ticket.Description)

	phone := ""
	if ticket.User.Phone != nil {
		phone = *ticket.User.Phone
	}

	values := map[ColumnRole]ColumnValue{
		RoleTicketNumber:  Text(ticket.TicketNumber),
		RoleStatus:        Label(ToExternal(ticket.Status)),
		RolePriority:      Label(PriorityLabel(ticket.Priority)),
		RoleDescription:   Text(ticket.Description),
		RoleDevice:        Text(ExtractDeviceInfo(ticket.Description)),
		RoleCompany:       Text(fields.Get(FieldCompany, ticket.Device.CompanyName)),
		RoleDepartment:    Text(fields.Get(FieldDepartment)),
		RoleBrand:         Text(fields.Get(FieldBrand, ticket.Device.BrandName)),
		RoleModel:         Text(fields.Get(FieldModel, ticket.Device.ModelName)),
		RoleSerialNumber:  Text(fields.Get(FieldSerialNumber, ticket.Device.SerialNumber)),
		RoleContactName:   Text(fields.Get(FieldContactName, ticket.User.Name)),
		RoleContactPhone:  Text(fields.Get(FieldContactPhone, phone)),
		RoleReporterEmail: Text(orPlaceholder(ticket.User.Email)),
	}

	return Payload{
		ItemName:    ItemName(ticket),
		Values:      values,
		FileColumns: map[string]Files{},
	}
}

func ItemName(ticket model.TicketDetail) string {
	return ticket.TicketNumber + " - " + ticket.Title
}

func orPlaceholder(value string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}

	return constant.NotSpecified
}

func isFixedRole(role ColumnRole) bool {
	for _, r := range FixedRoles {
		if r == role {
			return true
		}
	}

	return false
}
