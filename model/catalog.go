package model

import "time"

type CompanyResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	BrandCount int64     `json:"brandCount"`
}

type CreateCompanyRequest struct {
	Name string `json:"name" validate:"max=100"`
}

type BrandResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CompanyID string    `json:"companyId"`
	CreatedAt time.Time `json:"createdAt"`
}

type ModelResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BrandID   string    `json:"brandId"`
	CreatedAt time.Time `json:"createdAt"`
}

type DeviceResponse struct {
	ID           string    `json:"id"`
	SerialNumber string    `json:"serialNumber"`
	ModelID      string    `json:"modelId"`
	CreatedAt    time.Time `json:"createdAt"`
}
