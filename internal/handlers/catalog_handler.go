package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog-service/internal/events"
	"catalog-service/internal/importer"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type CatalogHandler struct {
	repo      *repository.CatalogRepository
	publisher *events.Publisher
}

func NewCatalogHandler(repo *repository.CatalogRepository, publisher *events.Publisher) *CatalogHandler {
	return &CatalogHandler{
		repo:      repo,
		publisher: publisher,
	}
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: code, Message: message},
	})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: "NOT_FOUND", Message: message},
	})
}

func internalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: "INTERNAL_ERROR", Message: err.Error()},
	})
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "INVALID_ID", "Invalid UUID in path parameter '"+name+"'")
		return uuid.Nil, false
	}
	return id, true
}

// GetProducts returns a page of products
// GET /api/v1/products
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	search := c.Query("search")

	products, total, err := h.repo.GetProducts(c.Request.Context(), page, limit, search)
	if err != nil {
		internalError(c, err)
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, models.ProductListResponse{
		Success: true,
		Data:    products,
		Pagination: &models.PaginationInfo{
			Page:        page,
			Limit:       limit,
			Total:       total,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
			HasPrevious: page > 1,
		},
	})
}

// GetProduct returns a single product
// GET /api/v1/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.repo.GetProductByID(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(c, "Product not found")
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ProductResponse{Success: true, Data: product})
}

// CreateProduct creates a new product
// POST /api/v1/products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "VALIDATION_ERROR", err.Error())
		return
	}

	handle := ""
	if req.Handle != nil {
		handle = *req.Handle
	}
	if handle == "" {
		handle = importer.Slugify(req.Title)
	}

	existing, err := h.repo.GetProductByHandle(c.Request.Context(), handle)
	if err != nil {
		internalError(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "DUPLICATE_HANDLE", Message: "A product with this handle already exists", Field: "handle"},
		})
		return
	}

	price := "0"
	if req.Price != nil && *req.Price != "" {
		price = *req.Price
	}

	product := &models.Product{
		Handle:         handle,
		Title:          req.Title,
		Description:    req.Description,
		Vendor:         req.Vendor,
		ProductType:    req.ProductType,
		Tags:           req.Tags,
		SKU:            req.SKU,
		Published:      req.Published,
		Price:          price,
		CompareAtPrice: req.CompareAtPrice,
		ImageURL:       req.ImageURL,
		SeoTitle:       req.SeoTitle,
		SeoDescription: req.SeoDescription,
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			badRequest(c, "VALIDATION_ERROR", "categoryId must be a UUID")
			return
		}
		product.CategoryID = &categoryID
	}

	if err := h.repo.CreateProduct(c.Request.Context(), product); err != nil {
		internalError(c, err)
		return
	}

	h.publisher.PublishProductCreated(c.Request.Context(), product)
	c.JSON(http.StatusCreated, models.ProductResponse{Success: true, Data: product})
}

// UpdateProduct applies a partial update to a product
// PUT /api/v1/products/:id
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "VALIDATION_ERROR", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Vendor != nil {
		updates["vendor"] = *req.Vendor
	}
	if req.ProductType != nil {
		updates["product_type"] = *req.ProductType
	}
	if req.Tags != nil {
		updates["tags"] = *req.Tags
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.Published != nil {
		updates["published"] = *req.Published
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.CompareAtPrice != nil {
		updates["compare_at_price"] = *req.CompareAtPrice
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			badRequest(c, "VALIDATION_ERROR", "categoryId must be a UUID")
			return
		}
		updates["category_id"] = categoryID
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.SeoTitle != nil {
		updates["seo_title"] = *req.SeoTitle
	}
	if req.SeoDescription != nil {
		updates["seo_description"] = *req.SeoDescription
	}
	if len(updates) == 0 {
		badRequest(c, "VALIDATION_ERROR", "No fields to update")
		return
	}

	err := h.repo.UpdateProductFields(c.Request.Context(), id, updates)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(c, "Product not found")
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	product, err := h.repo.GetProductByID(c.Request.Context(), id)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ProductResponse{Success: true, Data: product})
}

// DeleteProduct deletes a product
// DELETE /api/v1/products/:id
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := h.repo.DeleteProduct(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(c, "Product not found")
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	h.publisher.PublishProductDeleted(c.Request.Context(), id)
	message := "Product deleted"
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: &message})
}

// BulkDeleteProducts deletes a set of products in one call. This admin
// operation is unrelated to the import pipeline, which never deletes.
// DELETE /api/v1/products/bulk
func (h *CatalogHandler) BulkDeleteProducts(c *gin.Context) {
	var req models.BulkDeleteProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "VALIDATION_ERROR", err.Error())
		return
	}

	deleted, err := h.repo.BulkDeleteProducts(c.Request.Context(), req.IDs)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.BulkDeleteProductsResponse{
		Success:      true,
		TotalCount:   len(req.IDs),
		DeletedCount: int(deleted),
	})
}

// GetVariants returns the variants of a product
// GET /api/v1/products/:id/variants
func (h *CatalogHandler) GetVariants(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	variants, err := h.repo.GetVariantsByProduct(c.Request.Context(), id)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.VariantListResponse{Success: true, Data: variants})
}

// CreateVariant adds a variant to a product
// POST /api/v1/products/:id/variants
func (h *CatalogHandler) CreateVariant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "VALIDATION_ERROR", err.Error())
		return
	}

	title := req.Option1Value
	if req.Option2Value != nil && *req.Option2Value != "" {
		title += " / " + *req.Option2Value
	}
	if req.Option3Value != nil && *req.Option3Value != "" {
		title += " / " + *req.Option3Value
	}

	sku := title
	if req.SKU != nil && *req.SKU != "" {
		sku = *req.SKU
	}
	price := "0"
	if req.Price != nil && *req.Price != "" {
		price = *req.Price
	}
	qty := 0
	if req.InventoryQty != nil {
		qty = *req.InventoryQty
	}

	variant := &models.Variant{
		ProductID:      id,
		SKU:            sku,
		Title:          title,
		Option1Name:    req.Option1Name,
		Option1Value:   req.Option1Value,
		Option2Name:    req.Option2Name,
		Option2Value:   req.Option2Value,
		Option3Name:    req.Option3Name,
		Option3Value:   req.Option3Value,
		Price:          price,
		CompareAtPrice: req.CompareAtPrice,
		InventoryQty:   qty,
		ImageURL:       req.ImageURL,
	}
	if err := h.repo.CreateVariant(c.Request.Context(), variant); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.SuccessResponse{Success: true, Data: variant})
}

// DeleteVariant removes a variant from a product
// DELETE /api/v1/products/:id/variants/:variantId
func (h *CatalogHandler) DeleteVariant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	variantID, ok := parseIDParam(c, "variantId")
	if !ok {
		return
	}

	err := h.repo.DeleteVariant(c.Request.Context(), id, variantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(c, "Variant not found")
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	message := "Variant deleted"
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: &message})
}

// GetImages returns the images of a product
// GET /api/v1/products/:id/images
func (h *CatalogHandler) GetImages(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	images, err := h.repo.GetImagesByProduct(c.Request.Context(), id)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ImageListResponse{Success: true, Data: images})
}

// AddImage adds an image to a product
// POST /api/v1/products/:id/images
func (h *CatalogHandler) AddImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "VALIDATION_ERROR", err.Error())
		return
	}

	image := &models.Image{
		ProductID: id,
		URL:       req.URL,
		Position:  1,
	}
	if req.Position != nil {
		image.Position = *req.Position
	}
	if req.AltText != nil {
		image.AltText = *req.AltText
	}

	if err := h.repo.CreateImage(c.Request.Context(), image); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.SuccessResponse{Success: true, Data: image})
}

// DeleteImage removes an image from a product
// DELETE /api/v1/products/:id/images/:imageId
func (h *CatalogHandler) DeleteImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseIDParam(c, "imageId")
	if !ok {
		return
	}

	err := h.repo.DeleteImage(c.Request.Context(), id, imageID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(c, "Image not found")
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	message := "Image deleted"
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: &message})
}

// GetCategories returns all categories
// GET /api/v1/categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.repo.ListCategories(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CategoryListResponse{Success: true, Data: categories})
}

// GetCategory returns a single category
// GET /api/v1/categories/:id
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := h.repo.GetCategoryByID(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(c, "Category not found")
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CategoryResponse{Success: true, Data: category})
}

// CreateCategory creates a new category
// POST /api/v1/categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "VALIDATION_ERROR", err.Error())
		return
	}

	slug := importer.Slugify(req.Name)
	if req.Slug != nil && *req.Slug != "" {
		slug = *req.Slug
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := h.repo.CreateCategory(c.Request.Context(), category); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.CategoryResponse{Success: true, Data: category})
}

// UpdateCategory applies a partial update to a category
// PUT /api/v1/categories/:id
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "VALIDATION_ERROR", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
		updates["slug"] = importer.Slugify(*req.Name)
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if len(updates) == 0 {
		badRequest(c, "VALIDATION_ERROR", "No fields to update")
		return
	}

	err := h.repo.UpdateCategory(c.Request.Context(), id, updates)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(c, "Category not found")
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	category, err := h.repo.GetCategoryByID(c.Request.Context(), id)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CategoryResponse{Success: true, Data: category})
}

// DeleteCategory deletes a category
// DELETE /api/v1/categories/:id
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := h.repo.DeleteCategory(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(c, "Category not found")
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	message := "Category deleted"
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: &message})
}
