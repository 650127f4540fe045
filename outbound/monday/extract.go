package monday

import (
	"repair-ticket/common/constant"
	"strings"
)

type FormField string

const (
	FieldCompany      FormField = "company"
	FieldDepartment   FormField = "department"
	FieldBrand        FormField = "brand"
	FieldModel        FormField = "model"
	FieldSerialNumber FormField = "serial_number"
	FieldContactName  FormField = "contact_name"
	FieldContactPhone FormField = "contact_phone"
	FieldDevice       FormField = "device"
)

type fieldRule struct {
	field      FormField
	label      string
	terminator string
}

// formFieldRules lists the "<label>: value" lines intake channels write into a
// ticket description. Labels must match byte for byte.
var formFieldRules = []fieldRule{
	{field: FieldCompany, label: "บริษัท/หน่วยงาน", terminator: "\n"},
	{field: FieldDepartment, label: "แผนก", terminator: "\n"},
	{field: FieldBrand, label: "ยี่ห้อ", terminator: "\n"},
	{field: FieldModel, label: "รุ่น", terminator: "\n"},
	{field: FieldSerialNumber, label: "หมายเลขเครื่อง", terminator: "\n"},
	{field: FieldContactName, label: "ชื่อผู้ติดต่อ", terminator: "\n"},
	{field: FieldContactPhone, label: "เบอร์ติดต่อ", terminator: "\n"},
}

var deviceRules = []fieldRule{
	{field: FieldDevice, label: "อุปกรณ์", terminator: "\n"},
	{field: FieldDevice, label: "device", terminator: "\n"},
	{field: FieldDevice, label: "Device", terminator: "\n"},
}

type ExtractedFields map[FormField]string

// ExtractFields pulls every known labelled line out of description. Fields that
// are missing or blank are left out of the result.
func ExtractFields(description string) ExtractedFields {
	fields := make(ExtractedFields, len(formFieldRules))
	for _, rule := range formFieldRules {
		if value, ok := rule.match(description); ok {
			fields[rule.field] = value
		}
	}

	return fields
}

// ExtractDeviceInfo returns the explicit device line of description, or the placeholder.
func ExtractDeviceInfo(description string) string {
	for _, rule := range deviceRules {
		if value, ok := rule.match(description); ok {
			return value
		}
	}

	return constant.NotSpecified
}

// Get returns the extracted value for field, else the first non-blank fallback,
// else the placeholder.
func (f ExtractedFields) Get(field FormField, fallbacks ...string) string {
	if value, ok := f[field]; ok {
		return value
	}

	for _, fallback := range fallbacks {
		if v := strings.TrimSpace(fallback); v != "" {
			return v
		}
	}

	return constant.NotSpecified
}

// FormLine renders a description line that ExtractFields reads back as field.
func FormLine(field FormField, value string) string {
	for _, rule := range formFieldRules {
		if rule.field == field {
			return rule.label + ": " + strings.TrimSpace(value) + rule.terminator
		}
	}

	return ""
}

func (r fieldRule) match(text string) (string, bool) {
	prefix := r.label + ": "

	start := strings.Index(text, prefix)
	if start < 0 {
		return "", false
	}

	rest := text[start+len(prefix):]
	if end := strings.Index(rest, r.terminator); end >= 0 {
		rest = rest[:end]
	}

	value := strings.TrimSpace(rest)
	if value == "" {
		return "", false
	}

	return value, true
}
