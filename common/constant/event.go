package constant

const (
	QueueStreamName = "repair_ticket_queue_stream"
)

const (
	AllWildcard          = "events.>"
	NotificationWildcard = "events.notification.>"

	SubjectLinePush      = "events.notification.line_push"
	SubjectLineGroupPush = "events.notification.line_group_push"
)
