package constant

const (
	MsgUnauthorized     = "ไม่ได้รับอนุญาต"
	MsgForbidden        = "ไม่มีสิทธิ์ดำเนินการ"
	MsgInvalidSignature = "Invalid signature"

	MsgRequiredFields  = "กรุณากรอกข้อมูลที่จำเป็น"
	MsgInvalidEmail    = "รูปแบบอีเมลไม่ถูกต้อง"
	MsgInvalidPhone    = "รูปแบบเบอร์โทรศัพท์ไม่ถูกต้อง"
	MsgEmailTaken      = "อีเมลนี้ถูกใช้งานแล้ว"
	MsgLineIDTaken     = "LINE User ID นี้ถูกเชื่อมโยงแล้ว"
	MsgRegisterSuccess = "ลงทะเบียนสำเร็จ"
	MsgLogoutSuccess   = "ออกจากระบบสำเร็จ"

	MsgDeviceNotFound   = "ไม่พบข้อมูลอุปกรณ์"
	MsgTicketNotFound   = "ไม่พบรายการแจ้งซ่อม"
	MsgFormMissing      = "Missing required fields"
	MsgFormCreated      = "สร้างรายการแจ้งซ่อมสำเร็จ"
	MsgCompanyNameEmpty = "กรุณาระบุชื่อบริษัท"

	MsgLineUIDRequired     = "LINE UID is required"
	MsgLineUIDLinkedOther  = "LINE UID นี้ถูกเชื่อมต่อกับบัญชีอื่นแล้ว"
	MsgLineLinked          = "LINE UID เชื่อมต่อสำเร็จ"
	MsgLineUnlinked        = "ยกเลิกการเชื่อมต่อ LINE UID สำเร็จ"
	MsgUserNotFound        = "User not found"
	MsgLineUserNotFound    = "User not found with this LINE UID"
	MsgMondayConnected     = "Monday.com API connection successful"
	MsgMondayNotConfigured = "Monday.com is not configured"
)
