package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

// Cache TTL constants
const (
	productCacheTTL  = 5 * time.Minute
	categoryCacheTTL = 30 * time.Minute // categories rarely change
)

const categoryListCacheKey = "catalog:categories"

// CatalogRepository persists catalog entities. Reads of hot entities go
// through Redis when a client is configured; a nil client disables caching.
type CatalogRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewCatalogRepository(db *gorm.DB, redisClient *redis.Client) *CatalogRepository {
	return &CatalogRepository{
		db:    db,
		redis: redisClient,
	}
}

func productCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("catalog:product:%s", id)
}

func (r *CatalogRepository) invalidateCategoryCache(ctx context.Context) {
	if r.redis == nil {
		return
	}
	_ = r.redis.Del(ctx, categoryListCacheKey).Err()
}

func (r *CatalogRepository) invalidateProductCache(ctx context.Context, id uuid.UUID) {
	if r.redis == nil {
		return
	}
	_ = r.redis.Del(ctx, productCacheKey(id)).Err()
}

// Category operations

// ListCategories returns all categories. The import pipeline calls this once
// per run to seed its category cache.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	if r.redis != nil {
		if data, err := r.redis.Get(ctx, categoryListCacheKey).Bytes(); err == nil {
			var cached []models.Category
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		}
	}

	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(categories); err == nil {
			_ = r.redis.Set(ctx, categoryListCacheKey, data, categoryCacheTTL).Err()
		}
	}
	return categories, nil
}

// CreateCategory creates a new category
func (r *CatalogRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()

	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return err
	}
	r.invalidateCategoryCache(ctx)
	return nil
}

// GetCategoryByID retrieves a category by id
func (r *CatalogRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory applies non-nil fields of updates to a category
func (r *CatalogRepository) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateCategoryCache(ctx)
	return nil
}

// DeleteCategory soft-deletes a category
func (r *CatalogRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateCategoryCache(ctx)
	return nil
}

// Product operations

// GetProductByHandle retrieves a product by its business key. Returns
// (nil, nil) when no product has the handle.
func (r *CatalogRepository) GetProductByHandle(ctx context.Context, handle string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("handle = ?", handle).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct creates a new product
func (r *CatalogRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(product).Error
}

// UpdateProduct replaces the mutable fields of an existing product. Used by
// the import pipeline to upsert by handle.
func (r *CatalogRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Model(&models.Product{ID: product.ID}).
		Select("Title", "Description", "Vendor", "ProductType", "Tags", "SKU",
			"Published", "Price", "CompareAtPrice", "CategoryID", "ImageURL",
			"SeoTitle", "SeoDescription", "UpdatedAt").
		Updates(product).Error
	if err != nil {
		return err
	}
	r.invalidateProductCache(ctx, product.ID)
	return nil
}

// GetProductByID retrieves a product by id, through the cache when possible
func (r *CatalogRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if r.redis != nil {
		if data, err := r.redis.Get(ctx, productCacheKey(id)).Bytes(); err == nil {
			var cached models.Product
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		}
	}

	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(&product); err == nil {
			_ = r.redis.Set(ctx, productCacheKey(id), data, productCacheTTL).Err()
		}
	}
	return &product, nil
}

// GetProducts returns a page of products, newest first, optionally filtered
// by a case-insensitive title/handle search term.
func (r *CatalogRepository) GetProducts(ctx context.Context, page, limit int, search string) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR handle ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// UpdateProductFields applies a partial update to a product
func (r *CatalogRepository) UpdateProductFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateProductCache(ctx, id)
	return nil
}

// DeleteProduct soft-deletes a product
func (r *CatalogRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateProductCache(ctx, id)
	return nil
}

// BulkDeleteProducts soft-deletes a set of products and returns the count
// actually deleted. This is the admin bulk operation, separate from the
// import pipeline which never deletes.
func (r *CatalogRepository) BulkDeleteProducts(ctx context.Context, ids []uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id IN ?", ids)
	if result.Error != nil {
		return 0, result.Error
	}
	for _, id := range ids {
		r.invalidateProductCache(ctx, id)
	}
	return result.RowsAffected, nil
}

// Variant operations

// CreateVariant creates a new product variant
func (r *CatalogRepository) CreateVariant(ctx context.Context, variant *models.Variant) error {
	if variant.ID == uuid.Nil {
		variant.ID = uuid.New()
	}
	variant.CreatedAt = time.Now()
	variant.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(variant).Error
}

// GetVariantsByProduct returns all variants of a product
func (r *CatalogRepository) GetVariantsByProduct(ctx context.Context, productID uuid.UUID) ([]models.Variant, error) {
	var variants []models.Variant
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at ASC").Find(&variants).Error
	return variants, err
}

// DeleteVariant soft-deletes a variant of a product
func (r *CatalogRepository) DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.Variant{}, "id = ?", variantID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Image operations

// CreateImage creates a new product image
func (r *CatalogRepository) CreateImage(ctx context.Context, image *models.Image) error {
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	if image.Position == 0 {
		image.Position = 1
	}
	image.CreatedAt = time.Now()
	image.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(image).Error
}

// GetImagesByProduct returns all images of a product in position order
func (r *CatalogRepository) GetImagesByProduct(ctx context.Context, productID uuid.UUID) ([]models.Image, error) {
	var images []models.Image
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("position ASC").Find(&images).Error
	return images, err
}

// DeleteImage soft-deletes an image of a product
func (r *CatalogRepository) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.Image{}, "id = ?", imageID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
