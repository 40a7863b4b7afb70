package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"eataliano-backend/models"

	"github.com/google/uuid"
)

type MenuItemInput struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Price         *float64  `json:"price"`
	CategoryID    *string   `json:"category_id"`
	ImageURL      *string   `json:"image_url"`
	Allergens     *[]string `json:"allergens"`
	DietaryLabels *[]string `json:"dietary_labels"`
	IsAvailable   *bool     `json:"is_available"`
	IsFeatured    *bool     `json:"is_featured"`
	SortOrder     *int      `json:"sort_order"`
}

type CategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	SortOrder   int     `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

// MenuService serves the public menu from the restricted handle and edits it through the privileged one.
type MenuService struct {
	public MenuStore
	admin  MenuStore
	logger *slog.Logger
}

func NewMenuService(public, admin MenuStore, logger *slog.Logger) *MenuService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MenuService{public: public, admin: admin, logger: logger.With("component", "menu_service")}
}

func (s *MenuService) List(ctx context.Context, categoryID string) ([]models.MenuItem, error) {
	filter := MenuFilter{AvailableOnly: true}
	if categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			return []models.MenuItem{}, nil
		}
		filter.CategoryID = &id
	}
	items, err := s.public.ListMenuItems(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list menu", "error", err)
		return nil, ErrPersistenceFailure.withMessage("Failed to fetch menu").wrap(err)
	}
	return items, nil
}

func (s *MenuService) Get(ctx context.Context, rawID string) (*models.MenuItem, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrMenuItemNotFound
	}
	item, err := s.public.GetMenuItem(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrMenuItemNotFound
	}
	if err != nil {
		return nil, ErrPersistenceFailure.withMessage("Failed to fetch menu item").wrap(err)
	}
	return item, nil
}

func (s *MenuService) Categories(ctx context.Context) ([]models.MenuCategory, error) {
	categories, err := s.public.ListCategories(ctx, true)
	if err != nil {
		return nil, ErrPersistenceFailure.withMessage("Failed to fetch categories").wrap(err)
	}
	return categories, nil
}

// AdminList includes unavailable items.
func (s *MenuService) AdminList(ctx context.Context, p *Principal) ([]models.MenuItem, error) {
	if p == nil {
		return nil, ErrUnauthorized
	}
	items, err := s.admin.ListMenuItems(ctx, MenuFilter{})
	if err != nil {
		return nil, ErrPersistenceFailure.withMessage("Failed to fetch menu").wrap(err)
	}
	return items, nil
}

func (s *MenuService) CreateItem(ctx context.Context, p *Principal, in MenuItemInput) (*models.MenuItem, error) {
	if p == nil {
		return nil, ErrUnauthorized
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, ErrInvalidInput.withMessage("Name is required and must be a non-empty string")
	}
	if in.Price == nil || *in.Price <= 0 {
		return nil, ErrInvalidInput.withMessage("Price is required and must be a positive number")
	}
	if in.CategoryID == nil {
		return nil, ErrInvalidInput.withMessage("category_id is required and must be a valid UUID")
	}
	categoryID, err := s.category(ctx, *in.CategoryID)
	if err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		CategoryID:    categoryID,
		Name:          strings.TrimSpace(*in.Name),
		Description:   in.Description,
		Price:         *in.Price,
		ImageURL:      in.ImageURL,
		Allergens:     models.StringList{},
		DietaryLabels: models.StringList{},
		IsAvailable:   true,
	}
	if in.Allergens != nil {
		item.Allergens = *in.Allergens
	}
	if in.DietaryLabels != nil {
		item.DietaryLabels = *in.DietaryLabels
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	if in.IsFeatured != nil {
		item.IsFeatured = *in.IsFeatured
	}
	if in.SortOrder != nil {
		item.SortOrder = *in.SortOrder
	}

	if err := s.admin.CreateMenuItem(ctx, item); err != nil {
		s.logger.Error("failed to create menu item", "error", err)
		return nil, ErrPersistenceFailure.withMessage("Failed to create menu item").wrap(err)
	}
	s.logger.Info("menu item created", "menu_item_id", item.ID, "by", p.Email)
	return s.admin.GetMenuItem(ctx, item.ID)
}

func (s *MenuService) UpdateItem(ctx context.Context, p *Principal, rawID string, in MenuItemInput) (*models.MenuItem, error) {
	if p == nil {
		return nil, ErrUnauthorized
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrMenuItemNotFound
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrInvalidInput.withMessage("Name must be a non-empty string")
		}
		fields["name"] = name
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, ErrInvalidInput.withMessage("Price must be a positive number")
		}
		fields["price"] = *in.Price
	}
	if in.CategoryID != nil {
		categoryID, err := s.category(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		fields["category_id"] = categoryID
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}
	if in.Allergens != nil {
		fields["allergens"] = models.StringList(*in.Allergens)
	}
	if in.DietaryLabels != nil {
		fields["dietary_labels"] = models.StringList(*in.DietaryLabels)
	}
	if in.IsAvailable != nil {
		fields["is_available"] = *in.IsAvailable
	}
	if in.IsFeatured != nil {
		fields["is_featured"] = *in.IsFeatured
	}
	if in.SortOrder != nil {
		fields["sort_order"] = *in.SortOrder
	}
	if len(fields) == 0 {
		return nil, ErrInvalidInput.withMessage("No valid fields provided for update")
	}

	if err := s.admin.UpdateMenuItem(ctx, id, fields); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, ErrPersistenceFailure.withMessage("Failed to update menu item").wrap(err)
	}
	return s.admin.GetMenuItem(ctx, id)
}

// DeleteItem hides the item from the menu. The row stays so past orders still resolve.
func (s *MenuService) DeleteItem(ctx context.Context, p *Principal, rawID string) error {
	if p == nil {
		return ErrUnauthorized
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return ErrMenuItemNotFound
	}
	if err := s.admin.UpdateMenuItem(ctx, id, map[string]interface{}{"is_available": false}); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrMenuItemNotFound
		}
		return ErrPersistenceFailure.withMessage("Failed to delete menu item").wrap(err)
	}
	s.logger.Info("menu item withdrawn", "menu_item_id", id, "by", p.Email)
	return nil
}

func (s *MenuService) CreateCategory(ctx context.Context, p *Principal, in CategoryInput) (*models.MenuCategory, error) {
	if p == nil {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrInvalidInput.withMessage("Name is required and must be a non-empty string")
	}
	category := &models.MenuCategory{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		SortOrder:   in.SortOrder,
		IsActive:    true,
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}
	if err := s.admin.CreateCategory(ctx, category); err != nil {
		return nil, ErrPersistenceFailure.withMessage("Failed to create category").wrap(err)
	}
	return category, nil
}

func (s *MenuService) category(ctx context.Context, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, ErrInvalidInput.withMessage("category_id is required and must be a valid UUID")
	}
	if _, err := s.admin.GetCategory(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return uuid.Nil, ErrCategoryNotFound
		}
		return uuid.Nil, ErrPersistenceFailure.withMessage("Failed to fetch category").wrap(err)
	}
	return id, nil
}
