package service

import (
	"context"
	"strings"

	"blogify/internal/cache"
	"blogify/internal/models"
	"blogify/internal/repository"
	"blogify/internal/validation"
)

type CategoryService struct {
	categories repository.CategoryRepository
	cache      *cache.Cache
}

type CategoryInput struct {
	Name        string
	Description string
}

func NewCategoryService(categories repository.CategoryRepository, c *cache.Cache) *CategoryService {
	return &CategoryService{categories: categories, cache: c}
}

func (s *CategoryService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	category := &models.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
	}
	if err := validation.ValidateCategory(category.Name, category.Description); err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.CategoriesKey)
	return category, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.categories.GetByID(ctx, id)
}

// ListCategories is served from the cache when Redis is available.
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.cache.Aside(ctx, cache.CategoriesKey, &categories, cache.CategoriesTTL, func() error {
		var err error
		categories, err = s.categories.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateCategory changes the non-empty fields of in.
func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		category.Name = name
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		category.Description = desc
	}
	if err := validation.ValidateCategory(category.Name, category.Description); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.CategoriesKey)
	return category, nil
}

// DeleteCategory removes the category only. Posts that reference it keep
// the dangling category ID.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categories.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.CategoriesKey)
	return category, nil
}
