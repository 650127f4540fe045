package model

type GoogleFormRequest struct {
	Timestamp    string         `json:"timestamp"`
	Email        string         `json:"email"`
	Name         string         `json:"name"`
	UserId       string         `json:"userId"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Priority     TicketPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	DeviceInfo   string         `json:"deviceInfo"`
	Images       []string       `json:"images"`
	Phone        string         `json:"phone"`
	Company      string         `json:"company"`
	Department   string         `json:"department"`
	Brand        string         `json:"brand"`
	Model        string         `json:"model"`
	SerialNumber string         `json:"serialNumber"`
}

type GoogleFormResponse struct {
	Success      bool   `json:"success"`
	TicketId     string `json:"ticketId"`
	TicketNumber string `json:"ticketNumber"`
	Message      string `json:"message"`
}
