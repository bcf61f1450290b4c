package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
)

// MockStore implements Store and records every entity written through it,
// so tests can assert on the exact shape of persisted records.
type MockStore struct {
	mock.Mock

	createdCategories []*models.Category
	createdProducts   []*models.Product
	updatedProducts   []*models.Product
	createdVariants   []*models.Variant
	createdImages     []*models.Image
}

func newMockStore() *MockStore {
	return new(MockStore)
}

func (m *MockStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockStore) CreateCategory(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	if args.Error(0) == nil {
		if category.ID == uuid.Nil {
			category.ID = uuid.New()
		}
		m.createdCategories = append(m.createdCategories, category)
	}
	return args.Error(0)
}

func (m *MockStore) GetProductByHandle(ctx context.Context, handle string) (*models.Product, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockStore) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	if args.Error(0) == nil {
		if product.ID == uuid.Nil {
			product.ID = uuid.New()
		}
		m.createdProducts = append(m.createdProducts, product)
	}
	return args.Error(0)
}

func (m *MockStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	if args.Error(0) == nil {
		m.updatedProducts = append(m.updatedProducts, product)
	}
	return args.Error(0)
}

func (m *MockStore) CreateVariant(ctx context.Context, variant *models.Variant) error {
	args := m.Called(ctx, variant)
	if args.Error(0) == nil {
		m.createdVariants = append(m.createdVariants, variant)
	}
	return args.Error(0)
}

func (m *MockStore) CreateImage(ctx context.Context, image *models.Image) error {
	args := m.Called(ctx, image)
	if args.Error(0) == nil {
		m.createdImages = append(m.createdImages, image)
	}
	return args.Error(0)
}

func (m *MockStore) expectCreateCategory() {
	m.On("CreateCategory", mock.Anything, mock.Anything).Return(nil)
}

// expectEmptyCatalog wires the read side for a store with no prior data.
func (m *MockStore) expectEmptyCatalog() {
	m.On("ListCategories", mock.Anything).Return([]models.Category{}, nil)
	m.On("GetProductByHandle", mock.Anything, mock.Anything).Return(nil, nil)
}

func (m *MockStore) expectWrites() {
	m.expectCreateCategory()
	m.On("CreateProduct", mock.Anything, mock.Anything).Return(nil)
	m.On("UpdateProduct", mock.Anything, mock.Anything).Return(nil)
	m.On("CreateVariant", mock.Anything, mock.Anything).Return(nil)
	m.On("CreateImage", mock.Anything, mock.Anything).Return(nil)
}

func newTestImporter(store Store) *Importer {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(store, logger)
}

func TestImportRowsEmptyInput(t *testing.T) {
	imp := newTestImporter(newMockStore())

	result := imp.ImportRows(context.Background(), nil)
	assert.False(t, result.Success)
	assert.Equal(t, "CSV file contains no valid product records", result.Message)
}

func TestImportRowsListCategoriesFailure(t *testing.T) {
	store := newMockStore()
	store.On("ListCategories", mock.Anything).Return(nil, errors.New("connection refused"))
	imp := newTestImporter(store)

	result := imp.ImportRows(context.Background(), []Row{
		makeRow(2, map[string]string{"handle": "shirt-1", "title": "Shirt"}),
	})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "failed to load categories")
}

func TestImportSingleProductWithVariantsAndImages(t *testing.T) {
	store := newMockStore()
	store.expectEmptyCatalog()
	store.expectWrites()
	imp := newTestImporter(store)

	rows := []Row{
		makeRow(2, map[string]string{
			"handle": "shirt-1", "title": "Shirt", "vendor": "Acme",
			"published": "TRUE", "variant price": "19.99",
			"option1 name": "Size", "option1 value": "M",
			"image src": "https://cdn/a.jpg",
		}),
		makeRow(3, map[string]string{
			"handle":       "shirt-1",
			"option1 name": "Size", "option1 value": "L",
			"variant sku": "SHIRT-L", "variant price": "21.99",
		}),
		makeRow(4, map[string]string{
			"handle":    "shirt-1",
			"image src": "https://cdn/b.jpg", "image position": "2",
		}),
	}

	result := imp.ImportRows(context.Background(), rows)
	require.True(t, result.Success)
	assert.Equal(t, 1, result.ProductsCreated)
	assert.Equal(t, 0, result.ProductsUpdated)
	assert.Equal(t, 1, result.VariantsCreated)
	assert.Equal(t, 2, result.ImagesCreated)
	assert.Equal(t, 0, result.SkippedRows)
	assert.Equal(t, 0, result.FailedGroups)
	assert.Equal(t, "1 new products, 0 updated products, 1 variants, 2 images", result.Message)

	require.Len(t, store.createdProducts, 1)
	product := store.createdProducts[0]
	assert.Equal(t, "shirt-1", product.Handle)
	assert.Equal(t, "Shirt", product.Title)
	assert.True(t, product.Published)
	assert.Equal(t, "19.99", product.Price)
	require.NotNil(t, product.CategoryID)

	// no category or type on the row lands the product in the fallback
	require.Len(t, store.createdCategories, 1)
	assert.Equal(t, "General", store.createdCategories[0].Name)
	assert.Equal(t, *product.CategoryID, store.createdCategories[0].ID)

	require.Len(t, store.createdVariants, 1)
	variant := store.createdVariants[0]
	assert.Equal(t, "SHIRT-L", variant.SKU)
	assert.Equal(t, "L", variant.Title)
	assert.Equal(t, "21.99", variant.Price)
	assert.Equal(t, product.ID, variant.ProductID)

	require.Len(t, store.createdImages, 2)
	assert.Equal(t, "https://cdn/a.jpg", store.createdImages[0].URL)
	assert.Equal(t, 1, store.createdImages[0].Position)
	assert.Equal(t, "https://cdn/b.jpg", store.createdImages[1].URL)
	assert.Equal(t, 2, store.createdImages[1].Position)
}

func TestImportUpdatesExistingProductByHandle(t *testing.T) {
	existing := &models.Product{Handle: "shirt-1", Title: "Old Shirt"}
	existing.ID = uuid.New()

	store := newMockStore()
	store.On("ListCategories", mock.Anything).Return([]models.Category{}, nil)
	store.On("GetProductByHandle", mock.Anything, "shirt-1").Return(existing, nil)
	store.expectWrites()
	imp := newTestImporter(store)

	result := imp.ImportRows(context.Background(), []Row{
		makeRow(2, map[string]string{"handle": "shirt-1", "title": "New Shirt"}),
	})
	require.True(t, result.Success)
	assert.Equal(t, 0, result.ProductsCreated)
	assert.Equal(t, 1, result.ProductsUpdated)

	store.AssertNotCalled(t, "CreateProduct")
	require.Len(t, store.updatedProducts, 1)
	assert.Equal(t, existing.ID, store.updatedProducts[0].ID)
	assert.Equal(t, "New Shirt", store.updatedProducts[0].Title)
}

func TestImportCreatesEachCategoryOnce(t *testing.T) {
	store := newMockStore()
	store.expectEmptyCatalog()
	store.expectWrites()
	imp := newTestImporter(store)

	var rows []Row
	for i := 0; i < 50; i++ {
		rows = append(rows, makeRow(i+2, map[string]string{
			"handle":           fmt.Sprintf("product-%d", i),
			"title":            fmt.Sprintf("Product %d", i),
			"product category": "Apparel",
		}))
	}

	result := imp.ImportRows(context.Background(), rows)
	require.True(t, result.Success)
	assert.Equal(t, 50, result.ProductsCreated)
	store.AssertNumberOfCalls(t, "CreateCategory", 1)
}

func TestImportVariantRequiresOptionNameAndValue(t *testing.T) {
	store := newMockStore()
	store.expectEmptyCatalog()
	store.expectWrites()
	imp := newTestImporter(store)

	rows := []Row{
		makeRow(2, map[string]string{"handle": "shirt-1", "title": "Shirt"}),
		makeRow(3, map[string]string{"handle": "shirt-1", "option1 name": "Size"}),
		makeRow(4, map[string]string{"handle": "shirt-1", "option1 value": "L"}),
	}

	result := imp.ImportRows(context.Background(), rows)
	require.True(t, result.Success)
	assert.Equal(t, 0, result.VariantsCreated)
	store.AssertNotCalled(t, "CreateVariant")
}

func TestImportCoercionDefaults(t *testing.T) {
	store := newMockStore()
	store.expectEmptyCatalog()
	store.expectWrites()
	imp := newTestImporter(store)

	rows := []Row{
		makeRow(2, map[string]string{"handle": "shirt-1", "title": "Shirt"}),
		makeRow(3, map[string]string{
			"handle":       "shirt-1",
			"option1 name": "Size", "option1 value": "M",
			"option2 value":         "Red",
			"variant inventory qty": "abc",
		}),
		makeRow(4, map[string]string{
			"handle":    "shirt-1",
			"image src": "https://cdn/a.jpg", "image position": "",
		}),
	}

	result := imp.ImportRows(context.Background(), rows)
	require.True(t, result.Success)

	require.Len(t, store.createdVariants, 1)
	variant := store.createdVariants[0]
	assert.Equal(t, 0, variant.InventoryQty)
	assert.Equal(t, "0", variant.Price)
	// title joins the option values, and stands in for a missing SKU
	assert.Equal(t, "M / Red", variant.Title)
	assert.Equal(t, "M / Red", variant.SKU)

	require.Len(t, store.createdImages, 1)
	assert.Equal(t, 1, store.createdImages[0].Position)
}

func TestImportGroupFailureDoesNotAbortRun(t *testing.T) {
	store := newMockStore()
	store.expectEmptyCatalog()
	store.expectCreateCategory()
	store.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
		return p.Handle == "bad"
	})).Return(errors.New("duplicate key value violates unique constraint"))
	store.On("CreateProduct", mock.Anything, mock.Anything).Return(nil)
	store.On("CreateVariant", mock.Anything, mock.Anything).Return(nil)
	store.On("CreateImage", mock.Anything, mock.Anything).Return(nil)
	imp := newTestImporter(store)

	rows := []Row{
		makeRow(2, map[string]string{"handle": "bad", "title": "Bad"}),
		makeRow(3, map[string]string{
			"handle":       "bad",
			"option1 name": "Size", "option1 value": "M",
		}),
		makeRow(4, map[string]string{"handle": "good", "title": "Good"}),
	}

	result := imp.ImportRows(context.Background(), rows)
	require.True(t, result.Success)
	assert.Equal(t, 1, result.ProductsCreated)
	assert.Equal(t, 1, result.FailedGroups)
	// the failed group contributes nothing to the counters
	assert.Equal(t, 0, result.VariantsCreated)

	require.Len(t, store.createdProducts, 1)
	assert.Equal(t, "good", store.createdProducts[0].Handle)
}

func TestImportFromFileMissing(t *testing.T) {
	imp := newTestImporter(newMockStore())

	result := imp.ImportFromFile(context.Background(), "/nonexistent/import.csv")
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "failed to read file")
}

func TestImportFromFileEndToEnd(t *testing.T) {
	store := newMockStore()
	store.expectEmptyCatalog()
	store.expectWrites()
	imp := newTestImporter(store)

	path := writeTempCSV(t,
		"Handle,Title,Product Category,Option1 Name,Option1 Value,Image Src\n"+
			"shirt-1,Shirt,Apparel,,,https://cdn/a.jpg\n"+
			"shirt-1,,,Size,L,\n"+
			",Orphan row,,,,\n"+
			"mug-1,Mug,Kitchen,,,\n")

	result := imp.ImportFromFile(context.Background(), path)
	require.True(t, result.Success)
	assert.Equal(t, 2, result.ProductsCreated)
	assert.Equal(t, 1, result.VariantsCreated)
	assert.Equal(t, 1, result.ImagesCreated)
	assert.Equal(t, 1, result.SkippedRows)
	assert.Equal(t, 0, result.FailedGroups)
	assert.Len(t, store.createdCategories, 2)
}
