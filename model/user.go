package model

import "time"

type UserRole string

const (
	RoleUser       UserRole = "USER"
	RoleTechnician UserRole = "TECHNICIAN"
	RoleAdmin      UserRole = "ADMIN"
)

type Session struct {
	UserID string   `json:"userId"`
	Role   UserRole `json:"role"`
}

type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Phone      *string   `json:"phone"`
	Role       UserRole  `json:"role"`
	LineUserID *string   `json:"lineUserId"`
	Image      *string   `json:"image"`
	CreatedAt  time.Time `json:"createdAt"`
}

type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password" validate:"omitempty,min=6,max=72"`
	Name       string `json:"name" validate:"max=100"`
	Phone      string `json:"phone"`
	LineUserId string `json:"lineUserId"`
}

type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"max=72"`
	LineUid  string `json:"lineUid" validate:"max=64"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type LinkLineRequest struct {
	LineUid     string `json:"lineUid"`
	DisplayName string `json:"displayName"`
	PictureUrl  string `json:"pictureUrl"`
}

type LinkedLineUser struct {
	ID         string  `json:"id"`
	LineUserID *string `json:"lineUserId"`
	Name       string  `json:"name,omitempty"`
	Image      *string `json:"image,omitempty"`
}

type LinkLineResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	User    LinkedLineUser `json:"user"`
}

type LineStatusUser struct {
	ID         string  `json:"id"`
	LineUserID *string `json:"lineUserId"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Image      *string `json:"image"`
}

type LineStatusResponse struct {
	User     LineStatusUser `json:"user"`
	IsLinked bool           `json:"isLinked"`
}

type CheckLineUser struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	LineUserID   *string   `json:"lineUserId"`
	RegisteredAt time.Time `json:"registeredAt"`
}

type CheckLineResponse struct {
	Exists  bool           `json:"exists"`
	User    *CheckLineUser `json:"user,omitempty"`
	Message string         `json:"message,omitempty"`
}
