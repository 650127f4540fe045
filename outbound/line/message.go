package line

import (
	"fmt"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"repair-ticket/model"
	"strings"
	"time"
)

const (
	HelpMessage = "🔧 คำสั่งที่ใช้ได้:\n\n" +
		"/link your@email.com - เชื่อมต่อบัญชีกับ LINE\n" +
		"/repair หรือ แจ้งซ่อม - เปิดฟอร์มแจ้งซ่อม\n" +
		"/status - ดูสถานะการซ่อมทั้งหมด\n" +
		"/help - แสดงคำสั่งที่ใช้ได้\n\n" +
		"📝 วิธีใช้งาน:\n" +
		"1. สมัครสมาชิกในระบบก่อน\n" +
		"2. ใช้คำสั่ง /link เพื่อเชื่อมต่อบัญชี\n" +
		"3. ใช้คำสั่ง /repair เพื่อแจ้งซ่อม\n" +
		"4. รับการแจ้งเตือนผ่าน LINE"

	LinkInvalidEmailMessage = "รูปแบบอีเมลไม่ถูกต้อง\nกรุณาใช้รูปแบบ: /link your@email.com"
	LinkUserNotFoundMessage = "ไม่พบบัญชีผู้ใช้ด้วยอีเมลนี้\nกรุณาตรวจสอบอีเมลหรือสมัครสมาชิกก่อน"
	LinkFailedMessage       = "เกิดข้อผิดพลาดในการเชื่อมต่อบัญชี กรุณาลองใหม่อีกครั้ง"
	RepairNotLinkedMessage  = "ยังไม่ได้เชื่อมต่อบัญชี ❌\nกรุณาใช้คำสั่ง /link your@email.com เพื่อเชื่อมต่อบัญชีก่อน"
	RepairFailedMessage     = "เกิดข้อผิดพลาดในการส่งลิงก์ฟอร์ม กรุณาลองใหม่อีกครั้ง"
	StatusNotLinkedMessage  = "ยังไม่ได้เชื่อมต่อบัญชี\nกรุณาใช้คำสั่ง /link your@email.com เพื่อเชื่อมต่อบัญชี"
	StatusEmptyMessage      = "ยังไม่มีรายการแจ้งซ่อม"
	StatusFailedMessage     = "เกิดข้อผิดพลาดในการดึงข้อมูล กรุณาลองใหม่อีกครั้ง"
)

var statusEmoji = map[model.TicketStatus]string{
	model.StatusPending:      "⏳",
	model.StatusInProgress:   "🔧",
	model.StatusWaitingParts: "⏱️",
	model.StatusCompleted:    "✅",
	model.StatusCancelled:    "❌",
}

// noticeEmoji is used by the per-ticket notice, which marks parts waits with a parcel.
var noticeEmoji = map[model.TicketStatus]string{
	model.StatusPending:      "⏳",
	model.StatusInProgress:   "🔧",
	model.StatusWaitingParts: "📦",
	model.StatusCompleted:    "✅",
	model.StatusCancelled:    "❌",
}

var statusText = map[model.TicketStatus]string{
	model.StatusPending:      "รอดำเนินการ",
	model.StatusInProgress:   "กำลังซ่อม",
	model.StatusWaitingParts: "รออะไหล่",
	model.StatusCompleted:    "ซ่อมเสร็จแล้ว",
	model.StatusCancelled:    "ยกเลิก",
}

var priorityEmoji = map[model.TicketPriority]string{
	model.PriorityLow:    "🟢",
	model.PriorityMedium: "🟡",
	model.PriorityHigh:   "🟠",
	model.PriorityUrgent: "🔴",
}

var bangkok = time.FixedZone("ICT", 7*60*60)

func StatusEmoji(status model.TicketStatus) string {
	if emoji, ok := statusEmoji[status]; ok {
		return emoji
	}
	return statusEmoji[model.StatusPending]
}

func StatusText(status model.TicketStatus) string {
	if text, ok := statusText[status]; ok {
		return text
	}
	return statusText[model.StatusPending]
}

func PriorityEmoji(priority model.TicketPriority) string {
	if emoji, ok := priorityEmoji[priority]; ok {
		return emoji
	}
	return "⚪"
}

// Formatter renders the notices pushed to users and the staff group.
type Formatter struct {
	Printer *message.Printer
	LiffID  string
}

func NewFormatter(liffID string) *Formatter {
	return &Formatter{
		Printer: message.NewPrinter(language.Thai),
		LiffID:  liffID,
	}
}

// ThaiDate formats t as d/m/yyyy in the Buddhist era, Bangkok time.
func (f *Formatter) ThaiDate(t time.Time) string {
	t = t.In(bangkok)
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year()+543)
}

func (f *Formatter) ThaiDateTime(t time.Time) string {
	t = t.In(bangkok)
	return f.ThaiDate(t) + " " + t.Format(time.TimeOnly)
}

func (f *Formatter) StatusChange(ticket model.TicketDetail) string {
	return f.Printer.Sprintf("🔧 แจ้งเตือนการซ่อม\n\n%s\n\nอุปกรณ์: %s\nสถานะใหม่: %s %s\nTicket: %s\n\nขอบคุณที่ใช้บริการ",
		ticket.Title,
		ticket.DeviceLabel(),
		StatusEmoji(ticket.Status),
		StatusText(ticket.Status),
		ticket.TicketNumber,
	)
}

// TicketNotice is sent to the reporter when a ticket is filed for them.
func (f *Formatter) TicketNotice(ticket model.TicketDetail, now time.Time) string {
	emoji, ok := noticeEmoji[ticket.Status]
	if !ok {
		emoji = "📋"
	}

	var b strings.Builder
	b.WriteString(f.Printer.Sprintf("%s แจ้งเตือนสถานะการซ่อม\n\n", emoji))
	b.WriteString(f.Printer.Sprintf("📋 หมายเลข: %s\n", ticket.TicketNumber))
	b.WriteString(f.Printer.Sprintf("🏷️ หัวข้อ: %s\n", ticket.Title))
	b.WriteString(f.Printer.Sprintf("📊 สถานะ: %s\n", ticket.Status))
	if ticket.Priority != "" {
		b.WriteString(f.Printer.Sprintf("%s ความสำคัญ: %s\n", PriorityEmoji(ticket.Priority), ticket.Priority))
	}
	if ticket.Description != "" {
		b.WriteString(f.Printer.Sprintf("📝 รายละเอียด: %s\n", ticket.Description))
	}
	b.WriteString(f.Printer.Sprintf("\n🕐 เวลา: %s", f.ThaiDateTime(now)))

	return b.String()
}

func (f *Formatter) GroupNewRepair(ticket model.TicketDetail) string {
	reporter := ticket.User.Name
	if reporter == "" {
		reporter = "N/A"
	}

	return f.Printer.Sprintf("🔧 การแจ้งซ่อมใหม่\n\nTicket: %s\nชื่อผู้แจ้ง: %s\nปัญหา: %s\n\nรายละเอียด: %s",
		ticket.TicketNumber,
		reporter,
		ticket.Title,
		ticket.Description,
	)
}

// StatusSummary lists the given tickets, newest first as passed in.
func (f *Formatter) StatusSummary(tickets []model.TicketDetail) string {
	if len(tickets) == 0 {
		return StatusEmptyMessage
	}

	var b strings.Builder
	b.WriteString("📋 สถานะการซ่อมของคุณ:\n\n")
	for i, ticket := range tickets {
		b.WriteString(f.Printer.Sprintf("%d. %s\n", i+1, ticket.Title))
		b.WriteString(f.Printer.Sprintf("   อุปกรณ์: %s\n", ticket.DeviceLabel()))
		b.WriteString(f.Printer.Sprintf("   สถานะ: %s %s\n", StatusEmoji(ticket.Status), StatusText(ticket.Status)))
		b.WriteString(f.Printer.Sprintf("   วันที่: %s\n\n", f.ThaiDate(ticket.CreatedAt)))
	}

	return b.String()
}

func (f *Formatter) RepairForm(name string) string {
	if name == "" {
		name = "คุณ"
	}

	return f.Printer.Sprintf("🔧 ฟอร์มแจ้งซ่อมออนไลน์\n\nสวัสดี %s! 👋\n\nคลิกลิงก์ด้านล่างเพื่อเปิดฟอร์มแจ้งซ่อม:\nhttps://liff.line.me/%s\n\n"+
		"📋 ข้อมูลของคุณจะถูกใส่ไว้ในฟอร์มแล้ว\n🔔 คุณจะได้รับการแจ้งเตือนเมื่อมีการอัปเดต\n⚡ การซ่อมจะดำเนินการผ่าน Monday.com",
		name, f.LiffID)
}

func (f *Formatter) LinkSuccess(email string) string {
	return f.Printer.Sprintf("ยินดีต้อนรับ! 🎉\n\nคุณได้เชื่อมต่อ LINE กับระบบแจ้งซ่อมเรียบร้อยแล้ว\nบัญชี: %s\nจากนี้คุณจะได้รับการแจ้งเตือนเมื่อสถานะการซ่อมเปลี่ยนแปลง", email)
}

func (f *Formatter) Welcome(name string) string {
	return f.Printer.Sprintf("สวัสดี %s!\nการลงทะเบียนเสร็จสิ้นแล้ว 🎉\n\nคุณสามารถใช้งานระบบแจ้งซ่อมผ่านเมนูด้านล่างได้เลย", name)
}
