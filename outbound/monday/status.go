package monday

import "repair-ticket/model"

var statusLabels = map[model.TicketStatus]string{
	model.StatusPending:      "รอดำเนินการ",
	model.StatusInProgress:   "กำลังดำเนินการ",
	model.StatusWaitingParts: "รออะไหล่",
	model.StatusCompleted:    "เสร็จสิ้น",
	model.StatusCancelled:    "ยกเลิก",
}

// statusAliases is the inverse table. Several board labels fold onto one status,
// so it is maintained by hand rather than derived from statusLabels.
var statusAliases = map[string]model.TicketStatus{
	"รอดำเนินการ":    model.StatusPending,
	"กำลังดำเนินการ": model.StatusInProgress,
	"นัดหมายแล้ว":    model.StatusInProgress,
	"ล่าช้า":         model.StatusInProgress,
	"รออะไหล่":       model.StatusWaitingParts,
	"เสร็จสิ้น":      model.StatusCompleted,
	"ยกเลิก":         model.StatusCancelled,

	"Pending":       model.StatusPending,
	"In Progress":   model.StatusInProgress,
	"Working on it": model.StatusInProgress,
	"Scheduled":     model.StatusInProgress,
	"Delayed":       model.StatusInProgress,
	"Waiting Parts": model.StatusWaitingParts,
	"Completed":     model.StatusCompleted,
	"Done":          model.StatusCompleted,
	"Cancelled":     model.StatusCancelled,
}

var priorityLabels = map[model.TicketPriority]string{
	model.PriorityLow:    "ต่ำ",
	model.PriorityMedium: "ปานกลาง",
	model.PriorityHigh:   "สูง",
	model.PriorityUrgent: "เร่งด่วน",
}

// ToExternal returns the board label for status. Unknown statuses get the PENDING label.
func ToExternal(status model.TicketStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}

	return statusLabels[model.StatusPending]
}

// LookupStatus reports the status a board label stands for. Matching is exact and case-sensitive.
func LookupStatus(label string) (model.TicketStatus, bool) {
	status, ok := statusAliases[label]
	return status, ok
}

// ToInternal is LookupStatus with unrecognized labels folded to PENDING.
func ToInternal(label string) model.TicketStatus {
	if status, ok := LookupStatus(label); ok {
		return status
	}

	return model.StatusPending
}

func PriorityLabel(priority model.TicketPriority) string {
	if label, ok := priorityLabels[priority]; ok {
		return label
	}

	return priorityLabels[model.PriorityMedium]
}
