package constant

const (
	NotSpecified = "ไม่ระบุ"

	HistoryNoteCreated           = "สร้างการแจ้งซ่อมใหม่"
	HistoryNoteCreatedFromForms  = "สร้างรายการแจ้งซ่อมจาก Google Forms"
	HistoryNoteUpdatedFromMonday = "Updated from Monday.com"
	HistoryNoteUpdatedByStaff    = "อัปเดตสถานะโดยเจ้าหน้าที่"

	GoogleFormsCompany      = "Google Forms"
	GoogleFormsBrand        = "General"
	GoogleFormsModel        = "Google Form Submission"
	GoogleFormsSerialPrefix = "GOOGLE_FORM_"
)
