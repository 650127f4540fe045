// source: query.sql

package sqlgen

import (
	"context"
	"time"
)

const createBrand = `-- name: CreateBrand :one
INSERT INTO brands (id, name, company_id) VALUES ($1, $2, $3)
RETURNING id, name, company_id, created_at
`

type CreateBrandParams struct {
	ID        string
	Name      string
	CompanyID string
}

func (q *Queries) CreateBrand(ctx context.Context, arg CreateBrandParams) (Brand, error) {
	row := q.db.QueryRow(ctx, createBrand, arg.ID, arg.Name, arg.CompanyID)
	var i Brand
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.CompanyID,
		&i.CreatedAt,
	)
	return i, err
}

const createCompany = `-- name: CreateCompany :one
INSERT INTO companies (id, name) VALUES ($1, $2)
RETURNING id, name, created_at
`

type CreateCompanyParams struct {
	ID   string
	Name string
}

func (q *Queries) CreateCompany(ctx context.Context, arg CreateCompanyParams) (Company, error) {
	row := q.db.QueryRow(ctx, createCompany, arg.ID, arg.Name)
	var i Company
	err := row.Scan(&i.ID, &i.Name, &i.CreatedAt)
	return i, err
}

const createDevice = `-- name: CreateDevice :one
INSERT INTO devices (id, serial_number, model_id) VALUES ($1, $2, $3)
RETURNING id, serial_number, model_id, created_at
`

type CreateDeviceParams struct {
	ID           string
	SerialNumber string
	ModelID      string
}

func (q *Queries) CreateDevice(ctx context.Context, arg CreateDeviceParams) (Device, error) {
	row := q.db.QueryRow(ctx, createDevice, arg.ID, arg.SerialNumber, arg.ModelID)
	var i Device
	err := row.Scan(
		&i.ID,
		&i.SerialNumber,
		&i.ModelID,
		&i.CreatedAt,
	)
	return i, err
}

const createModel = `-- name: CreateModel :one
INSERT INTO models (id, name, brand_id) VALUES ($1, $2, $3)
RETURNING id, name, brand_id, created_at
`

type CreateModelParams struct {
	ID      string
	Name    string
	BrandID string
}

func (q *Queries) CreateModel(ctx context.Context, arg CreateModelParams) (Model, error) {
	row := q.db.QueryRow(ctx, createModel, arg.ID, arg.Name, arg.BrandID)
	var i Model
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.BrandID,
		&i.CreatedAt,
	)
	return i, err
}

const getBrandByName = `-- name: GetBrandByName :one
SELECT id, name, company_id, created_at FROM brands WHERE name = $1 AND company_id = $2 LIMIT 1
`

type GetBrandByNameParams struct {
	Name      string
	CompanyID string
}

func (q *Queries) GetBrandByName(ctx context.Context, arg GetBrandByNameParams) (Brand, error) {
	row := q.db.QueryRow(ctx, getBrandByName, arg.Name, arg.CompanyID)
	var i Brand
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.CompanyID,
		&i.CreatedAt,
	)
	return i, err
}

const getCompanyByName = `-- name: GetCompanyByName :one
SELECT id, name, created_at FROM companies WHERE name = $1 LIMIT 1
`

func (q *Queries) GetCompanyByName(ctx context.Context, name string) (Company, error) {
	row := q.db.QueryRow(ctx, getCompanyByName, name)
	var i Company
	err := row.Scan(&i.ID, &i.Name, &i.CreatedAt)
	return i, err
}

const getDeviceBySerialNumber = `-- name: GetDeviceBySerialNumber :one
SELECT id, serial_number, model_id, created_at FROM devices WHERE serial_number = $1 LIMIT 1
`

func (q *Queries) GetDeviceBySerialNumber(ctx context.Context, serialNumber string) (Device, error) {
	row := q.db.QueryRow(ctx, getDeviceBySerialNumber, serialNumber)
	var i Device
	err := row.Scan(
		&i.ID,
		&i.SerialNumber,
		&i.ModelID,
		&i.CreatedAt,
	)
	return i, err
}

const getDeviceDetail = `-- name: GetDeviceDetail :one
SELECT d.id, d.serial_number, m.name AS model_name, b.name AS brand_name, c.name AS company_name
FROM devices d
JOIN models m ON m.id = d.model_id
JOIN brands b ON b.id = m.brand_id
JOIN companies c ON c.id = b.company_id
WHERE d.id = $1
`

type GetDeviceDetailRow struct {
	ID           string
	SerialNumber string
	ModelName    string
	BrandName    string
	CompanyName  string
}

func (q *Queries) GetDeviceDetail(ctx context.Context, id string) (GetDeviceDetailRow, error) {
	row := q.db.QueryRow(ctx, getDeviceDetail, id)
	var i GetDeviceDetailRow
	err := row.Scan(
		&i.ID,
		&i.SerialNumber,
		&i.ModelName,
		&i.BrandName,
		&i.CompanyName,
	)
	return i, err
}

const getModelByName = `-- name: GetModelByName :one
SELECT id, name, brand_id, created_at FROM models WHERE name = $1 AND brand_id = $2 LIMIT 1
`

type GetModelByNameParams struct {
	Name    string
	BrandID string
}

func (q *Queries) GetModelByName(ctx context.Context, arg GetModelByNameParams) (Model, error) {
	row := q.db.QueryRow(ctx, getModelByName, arg.Name, arg.BrandID)
	var i Model
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.BrandID,
		&i.CreatedAt,
	)
	return i, err
}

const listBrandsByCompany = `-- name: ListBrandsByCompany :many
SELECT id, name, company_id, created_at FROM brands WHERE company_id = $1 ORDER BY name ASC
`

func (q *Queries) ListBrandsByCompany(ctx context.Context, companyID string) ([]Brand, error) {
	rows, err := q.db.Query(ctx, listBrandsByCompany, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Brand
	for rows.Next() {
		var i Brand
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.CompanyID,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listCompanies = `-- name: ListCompanies :many
SELECT c.id, c.name, c.created_at, COUNT(b.id) AS brand_count
FROM companies c
LEFT JOIN brands b ON b.company_id = c.id
GROUP BY c.id
ORDER BY c.name ASC
`

type ListCompaniesRow struct {
	ID         string
	Name       string
	CreatedAt  time.Time
	BrandCount int64
}

func (q *Queries) ListCompanies(ctx context.Context) ([]ListCompaniesRow, error) {
	rows, err := q.db.Query(ctx, listCompanies)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListCompaniesRow
	for rows.Next() {
		var i ListCompaniesRow
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.CreatedAt,
			&i.BrandCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listDevicesByModel = `-- name: ListDevicesByModel :many
SELECT id, serial_number, model_id, created_at FROM devices WHERE model_id = $1 ORDER BY serial_number ASC
`

func (q *Queries) ListDevicesByModel(ctx context.Context, modelID string) ([]Device, error) {
	rows, err := q.db.Query(ctx, listDevicesByModel, modelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Device
	for rows.Next() {
		var i Device
		if err := rows.Scan(
			&i.ID,
			&i.SerialNumber,
			&i.ModelID,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listModelsByBrand = `-- name: ListModelsByBrand :many
SELECT id, name, brand_id, created_at FROM models WHERE brand_id = $1 ORDER BY name ASC
`

func (q *Queries) ListModelsByBrand(ctx context.Context, brandID string) ([]Model, error) {
	rows, err := q.db.Query(ctx, listModelsByBrand, brandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Model
	for rows.Next() {
		var i Model
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.BrandID,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
