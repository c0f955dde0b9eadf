package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/rl1809/invenedu/internal/adapter/storage"
	"github.com/rl1809/invenedu/internal/config"
	"github.com/rl1809/invenedu/internal/core/domain"
	"github.com/rl1809/invenedu/internal/core/service"
	"github.com/rl1809/invenedu/internal/logger"
)

type seedItem struct {
	name, description string
	quantity, minimum int
}

type seedCategory struct {
	name, description string
	items             []seedItem
}

var users = []domain.UserInput{
	{FirstName: "System", LastName: "Administrator", Email: "admin@invenedu.com", Role: domain.RoleAdmin, IsActive: true},
	{FirstName: "John", LastName: "Doe", Email: "john.doe@university.edu", Role: domain.RoleUser, IsActive: true},
	{FirstName: "Jane", LastName: "Smith", Email: "jane.smith@university.edu", Role: domain.RoleUser, IsActive: true},
	{FirstName: "Mike", LastName: "Wilson", Email: "mike.wilson@university.edu", Role: domain.RoleUser, IsActive: true},
	{FirstName: "Sarah", LastName: "Johnson", Email: "sarah.johnson@university.edu", Role: domain.RoleUser, IsActive: true},
}

var catalog = []seedCategory{
	{name: "Office Supplies", description: "General office supplies and stationery", items: []seedItem{
		{"A4 Paper Ream", "500 sheets white A4 paper", 150, 20},
		{"Blue Pens", "Ballpoint pens, blue ink", 300, 50},
		{"Black Markers", "Permanent markers, black", 75, 15},
		{"Staplers", "Standard office staplers", 25, 5},
		{"File Folders", "Manila file folders", 200, 30},
		{"Notebooks", "A5 spiral notebooks, 100 pages", 120, 25},
	}},
	{name: "Electronics", description: "Electronic devices and equipment", items: []seedItem{
		{"Projectors", "LCD projectors for classrooms", 15, 3},
		{"Calculators", "Scientific calculators", 45, 10},
		{"USB Flash Drives 32GB", "32GB USB 3.0 flash drives", 60, 15},
		{"Extension Cords", "6-outlet extension cords", 30, 8},
	}},
	{name: "Furniture", description: "Office and classroom furniture", items: []seedItem{
		{"Student Desks", "Single student desks", 50, 10},
		{"Office Chairs", "Ergonomic office chairs", 25, 5},
		{"Whiteboards", "Wall-mounted whiteboards", 10, 2},
	}},
	{name: "Laboratory Equipment", description: "Scientific and laboratory equipment", items: []seedItem{
		{"Microscopes", "Compound microscopes", 12, 3},
		{"Safety Goggles", "Lab safety goggles", 50, 15},
		{"Test Tubes", "Glass test tubes, 16mm", 200, 40},
		{"Lab Coats", "White laboratory coats", 18, 5},
	}},
	{name: "Books & Publications", description: "Books, journals, and publications"},
	{name: "Sports Equipment", description: "Sports and physical education equipment", items: []seedItem{
		{"Basketballs", "Official size basketballs", 20, 5},
		{"Soccer Balls", "Size 5 soccer balls", 15, 5},
		{"Yoga Mats", "Non-slip yoga mats", 30, 10},
	}},
	{name: "IT Equipment", description: "Computers, peripherals, and IT hardware", items: []seedItem{
		{"Laptop Computers", "Dell Latitude laptops", 8, 5},
		{"Wireless Mice", "Wireless optical mice", 35, 10},
		{"Keyboards", "USB wired keyboards", 40, 10},
		{"HDMI Cables", "6ft HDMI cables", 25, 8},
		{"Webcams", "HD USB webcams", 5, 3},
	}},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := run(context.Background(), cfg); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	dialect, err := storage.ParseDialect(cfg.DBDriver)
	if err != nil {
		return err
	}
	store, err := storage.Open(ctx, dialect, cfg.DBDSN, cfg.DBMaxOpenConns)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	directory := service.NewDirectoryService(store)
	for _, in := range users {
		u, err := directory.CreateUser(ctx, in)
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			slog.Info("user already exists", "email", in.Email)
		case err != nil:
			return err
		default:
			slog.Info("created user", "id", u.ID, "email", u.Email, "role", u.Role)
		}
	}

	categories := service.NewCategoryService(store)
	existing, err := categories.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		slog.Info("catalog already seeded", "categories", len(existing))
		return nil
	}

	ledger := service.NewLedgerService(store)
	for _, sc := range catalog {
		c, err := categories.CreateCategory(ctx, domain.CategoryInput{Name: sc.name, Description: sc.description})
		if err != nil {
			return err
		}
		for _, si := range sc.items {
			_, err := ledger.CreateItem(ctx, domain.ItemInput{
				Name:         si.name,
				Description:  si.description,
				Quantity:     si.quantity,
				CategoryID:   c.ID,
				MinimumStock: si.minimum,
			})
			if err != nil {
				return err
			}
		}
		slog.Info("seeded category", "name", c.Name, "items", len(sc.items))
	}
	return nil
}
