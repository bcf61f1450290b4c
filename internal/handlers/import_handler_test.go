package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"catalog-service/internal/importer"
	"catalog-service/internal/models"
)

// fakeStore is an in-memory importer.Store for exercising the upload
// endpoints through a real pipeline.
type fakeStore struct {
	categories []models.Category
	products   []*models.Product
	variants   []*models.Variant
	images     []*models.Image
}

func (s *fakeStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories, nil
}

func (s *fakeStore) CreateCategory(ctx context.Context, category *models.Category) error {
	category.ID = uuid.New()
	s.categories = append(s.categories, *category)
	return nil
}

func (s *fakeStore) GetProductByHandle(ctx context.Context, handle string) (*models.Product, error) {
	for _, p := range s.products {
		if p.Handle == handle {
			return p, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) CreateProduct(ctx context.Context, product *models.Product) error {
	product.ID = uuid.New()
	s.products = append(s.products, product)
	return nil
}

func (s *fakeStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	return nil
}

func (s *fakeStore) CreateVariant(ctx context.Context, variant *models.Variant) error {
	s.variants = append(s.variants, variant)
	return nil
}

func (s *fakeStore) CreateImage(ctx context.Context, image *models.Image) error {
	s.images = append(s.images, image)
	return nil
}

func newImportTestRouter() (*gin.Engine, *fakeStore) {
	gin.SetMode(gin.TestMode)

	store := &fakeStore{}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	handler := NewImportHandler(importer.New(store, logger), nil, logger)

	router := gin.New()
	router.POST("/products/import", handler.ImportCatalog)
	router.GET("/products/import/template", handler.GetImportTemplate)
	return router, store
}

func uploadBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestImportCatalogRequiresFile(t *testing.T) {
	router, _ := newImportTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/products/import", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "FILE_REQUIRED", resp.Error.Code)
}

func TestImportCatalogRejectsUnknownExtension(t *testing.T) {
	router, _ := newImportTestRouter()

	body, contentType := uploadBody(t, "products.txt", []byte("Handle,Title\na,A\n"))
	req := httptest.NewRequest(http.MethodPost, "/products/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_FORMAT", resp.Error.Code)
}

func TestImportCatalogCSV(t *testing.T) {
	router, store := newImportTestRouter()

	csvContent := "Handle,Title,Product Category,Option1 Name,Option1 Value,Image Src\n" +
		"shirt-1,Shirt,Apparel,,,https://cdn/a.jpg\n" +
		"shirt-1,,,Size,L,\n"
	body, contentType := uploadBody(t, "products.csv", []byte(csvContent))

	req := httptest.NewRequest(http.MethodPost, "/products/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.ProductsCreated)
	assert.Equal(t, 1, result.VariantsCreated)
	assert.Equal(t, 1, result.ImagesCreated)

	require.Len(t, store.products, 1)
	assert.Equal(t, "shirt-1", store.products[0].Handle)
	require.Len(t, store.categories, 1)
	assert.Equal(t, "Apparel", store.categories[0].Name)
}

func TestImportCatalogEmptyCSV(t *testing.T) {
	router, _ := newImportTestRouter()

	body, contentType := uploadBody(t, "products.csv", []byte("Handle,Title\n"))
	req := httptest.NewRequest(http.MethodPost, "/products/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var result models.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "CSV file contains no valid product records", result.Message)
}

func TestImportCatalogXLSX(t *testing.T) {
	router, store := newImportTestRouter()

	f := excelize.NewFile()
	sheet := "Products"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Handle", "Title", "Type", "Option1 Name", "Option1 Value"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		f.SetCellValue(sheet, cell, h)
	}
	data := [][]string{
		{"mug-1", "Mug", "Kitchen", "", ""},
		{"mug-1", "", "", "Color", "Blue"},
	}
	for r, row := range data {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			require.NoError(t, err)
			f.SetCellValue(sheet, cell, value)
		}
	}
	xlsxBuf, err := f.WriteToBuffer()
	require.NoError(t, err)

	body, contentType := uploadBody(t, "products.xlsx", xlsxBuf.Bytes())
	req := httptest.NewRequest(http.MethodPost, "/products/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.ProductsCreated)
	assert.Equal(t, 1, result.VariantsCreated)

	require.Len(t, store.variants, 1)
	assert.Equal(t, "Blue", store.variants[0].Option1Value)
	require.Len(t, store.categories, 1)
	assert.Equal(t, "Kitchen", store.categories[0].Name)
}

func TestGetImportTemplateJSON(t *testing.T) {
	router, _ := newImportTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/products/import/template", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success  bool                  `json:"success"`
		Template models.ImportTemplate `json:"template"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotEmpty(t, resp.Template.Columns)
	assert.Equal(t, "Handle", resp.Template.Columns[0].Name)
}

func TestGetImportTemplateCSV(t *testing.T) {
	router, _ := newImportTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/products/import/template?format=csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "catalog_import_template.csv")

	firstLine := strings.SplitN(rec.Body.String(), "\n", 2)[0]
	assert.Contains(t, firstLine, "Handle")
	assert.Contains(t, firstLine, "Variant Price")
}
