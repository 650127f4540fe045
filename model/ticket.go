package model

import "time"

type TicketStatus string

const (
	StatusPending      TicketStatus = "PENDING"
	StatusInProgress   TicketStatus = "IN_PROGRESS"
	StatusWaitingParts TicketStatus = "WAITING_PARTS"
	StatusCompleted    TicketStatus = "COMPLETED"
	StatusCancelled    TicketStatus = "CANCELLED"
)

var TicketStatuses = []TicketStatus{
	StatusPending,
	StatusInProgress,
	StatusWaitingParts,
	StatusCompleted,
	StatusCancelled,
}

type TicketPriority string

const (
	PriorityLow    TicketPriority = "LOW"
	PriorityMedium TicketPriority = "MEDIUM"
	PriorityHigh   TicketPriority = "HIGH"
	PriorityUrgent TicketPriority = "URGENT"
)

type TicketUser struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone"`
	LineUserID *string `json:"-"`
}

type TicketDevice struct {
	ID           string `json:"id"`
	SerialNumber string `json:"serialNumber"`
	ModelName    string `json:"modelName"`
	BrandName    string `json:"brandName"`
	CompanyName  string `json:"companyName"`
}

// TicketDetail is a repair ticket with its owner and device chain resolved.
type TicketDetail struct {
	ID             string         `json:"id"`
	TicketNumber   string         `json:"ticketNumber"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Status         TicketStatus   `json:"status"`
	Priority       TicketPriority `json:"priority"`
	Images         []string       `json:"images"`
	MondayTicketID *string        `json:"mondayTicketId"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	User           TicketUser     `json:"user"`
	Device         TicketDevice   `json:"device"`
}

func (t TicketDetail) DeviceLabel() string {
	return t.Device.CompanyName + " " + t.Device.BrandName + " " + t.Device.ModelName
}

type StatusHistoryResponse struct {
	ID         string        `json:"id"`
	FromStatus *TicketStatus `json:"fromStatus"`
	ToStatus   TicketStatus  `json:"toStatus"`
	Note       string        `json:"note"`
	CreatedAt  time.Time     `json:"createdAt"`
}

type CreateTicketRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	DeviceId    string         `json:"deviceId"`
	Priority    TicketPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Images      []string       `json:"images" validate:"max=20"`
}

type UpdateTicketStatusRequest struct {
	Status TicketStatus `json:"status" validate:"required,oneof=PENDING IN_PROGRESS WAITING_PARTS COMPLETED CANCELLED"`
	Note   string       `json:"note" validate:"max=500"`
}

type ListTicketsResponse struct {
	Tickets    []TicketDetail `json:"tickets"`
	Pagination Pagination     `json:"pagination"`
}

type TicketDetailResponse struct {
	Ticket  TicketDetail            `json:"ticket"`
	History []StatusHistoryResponse `json:"history"`
}

type UpdateTicketStatusResponse struct {
	Success bool         `json:"success"`
	Status  TicketStatus `json:"status"`
	Synced  bool         `json:"synced"`
}
