package sqlgen

import (
	"time"
)

type Brand struct {
	ID        string
	Name      string
	CompanyID string
	CreatedAt time.Time
}

type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type Device struct {
	ID           string
	SerialNumber string
	ModelID      string
	CreatedAt    time.Time
}

type Model struct {
	ID        string
	Name      string
	BrandID   string
	CreatedAt time.Time
}

type RepairStatusHistory struct {
	ID             string
	RepairTicketID string
	FromStatus     *string
	ToStatus       string
	Note           string
	CreatedAt      time.Time
}

type RepairTicket struct {
	ID             string
	TicketNumber   string
	Title          string
	Description    string
	Status         string
	Priority       string
	UserID         string
	DeviceID       string
	Images         []string
	MondayTicketID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type User struct {
	ID         string
	Email      string
	Name       string
	Phone      *string
	Password   *string
	Role       string
	LineUserID *string
	Image      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
