package constant

import "time"

const (
	SessionKey          = "session:%s"
	MondayWebhookLock   = "monday:webhook_lock:%s:%s:%s"
	BoardColumnsMemoKey = "board:%s:columns"
	SyncCronLock        = "cron:monday_sync_lock"
)

const (
	MondayWebhookLockDefaultTTL = 30 * time.Second
)
