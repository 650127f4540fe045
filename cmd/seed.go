package cmd

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
	"log"
	"log/slog"
	"repair-ticket/common/constant"
	"repair-ticket/model"
	"repair-ticket/outbound/sqlgen"
	"strings"
	"time"
)

const seedPassword = "password123"

type seedUser struct {
	Email string
	Name  string
	Phone string
	Role  model.UserRole
}

type seedBrand struct {
	Name   string
	Models []string
}

type seedCompany struct {
	Name   string
	Brands []seedBrand
}

var seedUsers = []seedUser{
	{Email: "admin@example.com", Name: "Administrator", Phone: "081-234-5678", Role: model.RoleAdmin},
	{Email: "user@example.com", Name: "Test User", Phone: "089-876-5432", Role: model.RoleUser},
}

var seedCatalog = []seedCompany{
	{Name: "Apple", Brands: []seedBrand{
		{Name: "iPhone", Models: []string{"iPhone 15 Pro", "iPhone 15", "iPhone 14"}},
		{Name: "MacBook", Models: []string{"MacBook Pro M3", "MacBook Air M2"}},
	}},
	{Name: "Samsung", Brands: []seedBrand{
		{Name: "Galaxy", Models: []string{"Galaxy S24 Ultra", "Galaxy S24"}},
		{Name: "Galaxy Tab", Models: []string{"Galaxy Tab S9", "Galaxy Tab A8"}},
	}},
	{Name: "Dell", Brands: []seedBrand{
		{Name: "Inspiron", Models: []string{"Inspiron 15 3000", "Inspiron 14 5000"}},
		{Name: "XPS", Models: []string{"XPS 13", "XPS 15"}},
	}},
	{Name: "HP", Brands: []seedBrand{
		{Name: "LaserJet", Models: []string{"LaserJet Pro M404", "LaserJet M110w"}},
	}},
	{Name: "Lenovo", Brands: []seedBrand{
		{Name: "ThinkPad", Models: []string{"ThinkPad T14", "ThinkPad X1 Carbon"}},
	}},
}

// Seeder inserts sample users and catalog rows. Existing rows are left alone so
// it can run repeatedly.
type Seeder struct {
	Querier         *sqlgen.Queries
	BcryptCost      int
	DevicesPerModel int
}

func (s Seeder) Run(ctx context.Context) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), s.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	password := string(hashed)

	for _, u := range seedUsers {
		if err := s.user(ctx, u, &password); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}

	for _, c := range seedCatalog {
		if err := s.company(ctx, c); err != nil {
			return fmt.Errorf("seed company %s: %w", c.Name, err)
		}
	}

	return nil
}

func (s Seeder) user(ctx context.Context, u seedUser, password *string) error {
	_, err := s.Querier.GetUserByEmail(ctx, u.Email)
	if err == nil {
		slog.InfoContext(ctx, "user exists", slog.String("email", u.Email))
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	phone := u.Phone
	_, err = s.Querier.CreateUser(ctx, sqlgen.CreateUserParams{
		ID:       uuid.NewString(),
		Email:    u.Email,
		Name:     u.Name,
		Phone:    &phone,
		Password: password,
		Role:     string(u.Role),
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "user created", slog.String("email", u.Email), slog.String("role", string(u.Role)))
	return nil
}

func (s Seeder) company(ctx context.Context, c seedCompany) error {
	company, err := s.Querier.GetCompanyByName(ctx, c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		company, err = s.Querier.CreateCompany(ctx, sqlgen.CreateCompanyParams{ID: uuid.NewString(), Name: c.Name})
	}
	if err != nil {
		return err
	}

	for _, b := range c.Brands {
		brand, err := s.Querier.GetBrandByName(ctx, sqlgen.GetBrandByNameParams{Name: b.Name, CompanyID: company.ID})
		if errors.Is(err, pgx.ErrNoRows) {
			brand, err = s.Querier.CreateBrand(ctx, sqlgen.CreateBrandParams{ID: uuid.NewString(), Name: b.Name, CompanyID: company.ID})
		}
		if err != nil {
			return err
		}

		for _, name := range b.Models {
			deviceModel, err := s.Querier.GetModelByName(ctx, sqlgen.GetModelByNameParams{Name: name, BrandID: brand.ID})
			if errors.Is(err, pgx.ErrNoRows) {
				deviceModel, err = s.Querier.CreateModel(ctx, sqlgen.CreateModelParams{ID: uuid.NewString(), Name: name, BrandID: brand.ID})
			}
			if err != nil {
				return err
			}

			if err := s.devices(ctx, deviceModel); err != nil {
				return err
			}
		}
	}

	slog.InfoContext(ctx, "company seeded", slog.String("company", c.Name))
	return nil
}

func (s Seeder) devices(ctx context.Context, deviceModel sqlgen.Model) error {
	for i := 1; i <= s.DevicesPerModel; i++ {
		serial := seedSerial(deviceModel.Name, i)

		_, err := s.Querier.GetDeviceBySerialNumber(ctx, serial)
		if err == nil {
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		if _, err = s.Querier.CreateDevice(ctx, sqlgen.CreateDeviceParams{ID: uuid.NewString(), SerialNumber: serial, ModelID: deviceModel.ID}); err != nil {
			return err
		}
	}

	return nil
}

// seedSerial turns "MacBook Pro M3" and 2 into "MACBOOKPROM3-002".
func seedSerial(modelName string, n int) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(modelName) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	return fmt.Sprintf("%s-%03d", b.String(), n)
}

func runSeedCmd(ctx context.Context) {
	cfg := newCfg("env")

	ctx, cancel := context.WithTimeout(ctx, cfg.GetDuration("seed.timeout"))
	defer cancel()

	db := newDb(cfg)
	defer db.Close()

	seeder := Seeder{
		Querier:         sqlgen.New(db),
		BcryptCost:      cfg.GetInt("auth.bcrypt_cost"),
		DevicesPerModel: cfg.GetInt("seed.devices_per_model"),
	}

	start := time.Now()
	if err := seeder.Run(ctx); err != nil {
		slog.ErrorContext(ctx, "seed failed", slog.Any(constant.LogFieldErr, err))
		log.Fatalln(err)
	}

	slog.InfoContext(ctx, "seed finished", slog.Duration("took", time.Since(start)))
}
