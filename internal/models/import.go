package models

// ImportFormat represents the file format for import
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
)

// ImportResult is the single value returned to the caller of an import run.
// Message summarizes entity counts on success and states the fatal reason
// on failure. Per-group failures never surface here; they are logged and
// simply contribute nothing to the counts.
type ImportResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	ProductsCreated int    `json:"productsCreated"`
	ProductsUpdated int    `json:"productsUpdated"`
	VariantsCreated int    `json:"variantsCreated"`
	ImagesCreated   int    `json:"imagesCreated"`
	SkippedRows     int    `json:"skippedRows"`
	FailedGroups    int    `json:"failedGroups"`
}

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // string, number, boolean
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity  string                 `json:"entity"`
	Version string                 `json:"version"`
	Columns []ImportTemplateColumn `json:"columns"`
}

// CatalogImportColumns returns the recognized columns of the product export
// format. Unknown columns in an uploaded file are ignored.
func CatalogImportColumns() []ImportTemplateColumn {
	return []ImportTemplateColumn{
		{Name: "Handle", Description: "Business key shared by all rows of one product", Required: true, Type: "string", Example: "blue-cotton-tshirt"},
		{Name: "Title", Description: "Product title", Required: true, Type: "string", Example: "Blue Cotton T-Shirt"},
		{Name: "Body (HTML)", Description: "Product description (HTML allowed)", Required: false, Type: "string", Example: ""},
		{Name: "Vendor", Description: "Vendor name", Required: false, Type: "string", Example: "Demo Store"},
		{Name: "Product Category", Description: "Category name - auto-creates if not exists", Required: false, Type: "string", Example: "Apparel"},
		{Name: "Type", Description: "Product type, category fallback", Required: false, Type: "string", Example: "Shirts"},
		{Name: "Tags", Description: "Comma-separated tags", Required: false, Type: "string", Example: "cotton, summer"},
		{Name: "Published", Description: "TRUE to publish", Required: false, Type: "boolean", Example: "TRUE"},
		{Name: "Option1 Name", Description: "First option name, required for variant rows", Required: false, Type: "string", Example: "Size"},
		{Name: "Option1 Value", Description: "First option value, required for variant rows", Required: false, Type: "string", Example: "M"},
		{Name: "Option2 Name", Description: "Second option name", Required: false, Type: "string", Example: "Color"},
		{Name: "Option2 Value", Description: "Second option value", Required: false, Type: "string", Example: "Blue"},
		{Name: "Option3 Name", Description: "Third option name", Required: false, Type: "string", Example: ""},
		{Name: "Option3 Value", Description: "Third option value", Required: false, Type: "string", Example: ""},
		{Name: "Variant SKU", Description: "Variant SKU, defaults to joined option values", Required: false, Type: "string", Example: "TSH-BLU-M"},
		{Name: "Variant Price", Description: "Price, defaults to 0", Required: false, Type: "number", Example: "29.99"},
		{Name: "Variant Compare At Price", Description: "Compare-at price", Required: false, Type: "number", Example: "39.99"},
		{Name: "Variant Inventory Qty", Description: "Stock quantity, defaults to 0", Required: false, Type: "number", Example: "100"},
		{Name: "Image Src", Description: "Image URL, any row may carry one", Required: false, Type: "string", Example: "https://cdn.example.com/a.jpg"},
		{Name: "Image Position", Description: "Image position, defaults to 1", Required: false, Type: "number", Example: "1"},
		{Name: "Image Alt Text", Description: "Image alt text", Required: false, Type: "string", Example: ""},
		{Name: "SEO Title", Description: "SEO title", Required: false, Type: "string", Example: ""},
		{Name: "SEO Description", Description: "SEO description", Required: false, Type: "string", Example: ""},
	}
}

// CatalogImportTemplate returns the template definition for catalog imports
func CatalogImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "products",
		Version: "1.0",
		Columns: CatalogImportColumns(),
	}
}
