package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category represents a product category. Categories are created lazily
// during catalog imports when a new category name is first encountered.
type Category struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string          `json:"name" gorm:"not null;uniqueIndex:idx_categories_name"`
	Slug        string          `json:"slug" gorm:"not null;uniqueIndex:idx_categories_slug"`
	Description *string         `json:"description,omitempty"`
	ImageURL    *string         `json:"imageUrl,omitempty" gorm:"column:image_url"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// Product represents a catalog product. Handle is the business key that
// identifies a product across all rows of an import file.
type Product struct {
	ID             uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Handle         string          `json:"handle" gorm:"not null;uniqueIndex:idx_products_handle"`
	Title          string          `json:"title" gorm:"not null"`
	Description    *string         `json:"description,omitempty" gorm:"type:text"`
	Vendor         *string         `json:"vendor,omitempty"`
	ProductType    *string         `json:"productType,omitempty" gorm:"column:product_type"`
	Tags           *string         `json:"tags,omitempty"`
	SKU            *string         `json:"sku,omitempty"`
	Published      bool            `json:"published" gorm:"not null;default:false"`
	Price          string          `json:"price" gorm:"not null;default:'0'"`
	CompareAtPrice *string         `json:"compareAtPrice,omitempty" gorm:"column:compare_at_price"`
	CategoryID     *uuid.UUID      `json:"categoryId,omitempty" gorm:"type:uuid;index"`
	ImageURL       *string         `json:"imageUrl,omitempty" gorm:"column:image_url"`
	SeoTitle       *string         `json:"seoTitle,omitempty" gorm:"column:seo_title;type:text"`
	SeoDescription *string         `json:"seoDescription,omitempty" gorm:"column:seo_description;type:text"`
	Variants       []*Variant      `json:"variants,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images         []*Image        `json:"images,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	DeletedAt      *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// Variant represents a purchasable option combination belonging to a product.
// A variant carries up to three option name/value pairs; Option1 is mandatory.
type Variant struct {
	ID             uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID      uuid.UUID       `json:"productId" gorm:"type:uuid;not null;index"`
	SKU            string          `json:"sku" gorm:"not null;uniqueIndex:idx_variants_sku"`
	Title          string          `json:"title" gorm:"not null"`
	Option1Name    string          `json:"option1Name" gorm:"column:option1_name;not null"`
	Option1Value   string          `json:"option1Value" gorm:"column:option1_value;not null"`
	Option2Name    *string         `json:"option2Name,omitempty" gorm:"column:option2_name"`
	Option2Value   *string         `json:"option2Value,omitempty" gorm:"column:option2_value"`
	Option3Name    *string         `json:"option3Name,omitempty" gorm:"column:option3_name"`
	Option3Value   *string         `json:"option3Value,omitempty" gorm:"column:option3_value"`
	Price          string          `json:"price" gorm:"not null;default:'0'"`
	CompareAtPrice *string         `json:"compareAtPrice,omitempty" gorm:"column:compare_at_price"`
	InventoryQty   int             `json:"inventoryQty" gorm:"column:inventory_qty;not null;default:0"`
	ImageURL       *string         `json:"imageUrl,omitempty" gorm:"column:image_url"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	DeletedAt      *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// Image represents a product image.
type Image struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID uuid.UUID       `json:"productId" gorm:"type:uuid;not null;index"`
	URL       string          `json:"url" gorm:"not null"`
	Position  int             `json:"position" gorm:"not null;default:1"`
	AltText   string          `json:"altText" gorm:"column:alt_text"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// TableName returns the table name for the Variant model
func (Variant) TableName() string {
	return "product_variants"
}

// TableName returns the table name for the Image model
func (Image) TableName() string {
	return "product_images"
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Handle         *string `json:"handle,omitempty"`
	Title          string  `json:"title" binding:"required"`
	Description    *string `json:"description,omitempty"`
	Vendor         *string `json:"vendor,omitempty"`
	ProductType    *string `json:"productType,omitempty"`
	Tags           *string `json:"tags,omitempty"`
	SKU            *string `json:"sku,omitempty"`
	Published      bool    `json:"published"`
	Price          *string `json:"price,omitempty"`
	CompareAtPrice *string `json:"compareAtPrice,omitempty"`
	CategoryID     *string `json:"categoryId,omitempty"`
	ImageURL       *string `json:"imageUrl,omitempty"`
	SeoTitle       *string `json:"seoTitle,omitempty"`
	SeoDescription *string `json:"seoDescription,omitempty"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	Vendor         *string `json:"vendor,omitempty"`
	ProductType    *string `json:"productType,omitempty"`
	Tags           *string `json:"tags,omitempty"`
	SKU            *string `json:"sku,omitempty"`
	Published      *bool   `json:"published,omitempty"`
	Price          *string `json:"price,omitempty"`
	CompareAtPrice *string `json:"compareAtPrice,omitempty"`
	CategoryID     *string `json:"categoryId,omitempty"`
	ImageURL       *string `json:"imageUrl,omitempty"`
	SeoTitle       *string `json:"seoTitle,omitempty"`
	SeoDescription *string `json:"seoDescription,omitempty"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// CreateVariantRequest represents a request to create a product variant
type CreateVariantRequest struct {
	SKU            *string `json:"sku,omitempty"`
	Option1Name    string  `json:"option1Name" binding:"required"`
	Option1Value   string  `json:"option1Value" binding:"required"`
	Option2Name    *string `json:"option2Name,omitempty"`
	Option2Value   *string `json:"option2Value,omitempty"`
	Option3Name    *string `json:"option3Name,omitempty"`
	Option3Value   *string `json:"option3Value,omitempty"`
	Price          *string `json:"price,omitempty"`
	CompareAtPrice *string `json:"compareAtPrice,omitempty"`
	InventoryQty   *int    `json:"inventoryQty,omitempty"`
	ImageURL       *string `json:"imageUrl,omitempty"`
}

// AddImageRequest represents a request to add a product image
type AddImageRequest struct {
	URL      string  `json:"url" binding:"required"`
	Position *int    `json:"position,omitempty"`
	AltText  *string `json:"altText,omitempty"`
}

// BulkDeleteProductsRequest represents bulk delete request for products
type BulkDeleteProductsRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1,max=100"`
}

// BulkDeleteProductsResponse represents bulk delete response for products
type BulkDeleteProductsResponse struct {
	Success      bool     `json:"success"`
	TotalCount   int      `json:"totalCount"`
	DeletedCount int      `json:"deletedCount"`
	FailedIDs    []string `json:"failedIds,omitempty"`
}

// Response types
type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

type ProductResponse struct {
	Success bool     `json:"success"`
	Data    *Product `json:"data"`
	Message *string  `json:"message,omitempty"`
}

type ProductListResponse struct {
	Success    bool            `json:"success"`
	Data       []Product       `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

type CategoryResponse struct {
	Success bool      `json:"success"`
	Data    *Category `json:"data"`
	Message *string   `json:"message,omitempty"`
}

type CategoryListResponse struct {
	Success bool       `json:"success"`
	Data    []Category `json:"data"`
}

type VariantListResponse struct {
	Success bool      `json:"success"`
	Data    []Variant `json:"data"`
}

type ImageListResponse struct {
	Success bool    `json:"success"`
	Data    []Image `json:"data"`
}

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}
