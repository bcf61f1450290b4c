package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// Store is the repository surface the pipeline consumes. The persistence
// mechanism behind it is out of scope here; see repository.CatalogRepository
// for the gorm-backed implementation.
type Store interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	// GetProductByHandle returns (nil, nil) when no product has the handle.
	GetProductByHandle(ctx context.Context, handle string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	CreateVariant(ctx context.Context, variant *models.Variant) error
	CreateImage(ctx context.Context, image *models.Image) error
}

// Importer runs synchronous, single-file catalog imports. One invocation
// processes one file; there is no internal parallelism and no transaction
// around a group, so a product can land while its variants fail.
type Importer struct {
	store  Store
	logger *logrus.Entry
}

func New(store Store, logger *logrus.Logger) *Importer {
	return &Importer{
		store:  store,
		logger: logger.WithField("component", "catalog-import"),
	}
}

// run holds per-invocation state: the category cache and the counters the
// reporter accumulates. It is constructed fresh for every import so the
// one-run-one-cache guarantee is explicit.
type run struct {
	cache    *categoryCache
	created  int
	updated  int
	variants int
	images   int
	failed   int
}

// ImportFromFile ingests the product export at path and reconciles it into
// categories, products, variants and images. The caller always receives a
// single result value; fatal pre-loop failures yield Success=false with the
// specific reason, per-group failures are logged and skipped.
func (imp *Importer) ImportFromFile(ctx context.Context, path string) *models.ImportResult {
	rows, err := ReadFile(path)
	if err != nil {
		return &models.ImportResult{Success: false, Message: err.Error()}
	}
	return imp.ImportRows(ctx, rows)
}

// ImportRows runs the pipeline over an already-parsed row sequence. The
// XLSX upload path converts sheet rows to the same shape and enters here.
func (imp *Importer) ImportRows(ctx context.Context, rows []Row) *models.ImportResult {
	if len(rows) == 0 {
		return &models.ImportResult{Success: false, Message: emptyInputMessage}
	}

	existing, err := imp.store.ListCategories(ctx)
	if err != nil {
		return &models.ImportResult{Success: false, Message: fmt.Sprintf("failed to load categories: %v", err)}
	}

	set := GroupRows(rows)
	r := &run{cache: newCategoryCache(existing)}

	for _, group := range set.Groups {
		if err := imp.importGroup(ctx, r, group); err != nil {
			r.failed++
			imp.logger.WithFields(logrus.Fields{
				"handle": group.Handle,
				"line":   group.Canonical.Line,
			}).WithError(err).Warn("product group failed, continuing import")
		}
	}

	return &models.ImportResult{
		Success: true,
		Message: fmt.Sprintf("%d new products, %d updated products, %d variants, %d images",
			r.created, r.updated, r.variants, r.images),
		ProductsCreated: r.created,
		ProductsUpdated: r.updated,
		VariantsCreated: r.variants,
		ImagesCreated:   r.images,
		SkippedRows:     set.SkippedRows,
		FailedGroups:    r.failed,
	}
}

// importGroup reconciles one handle group. Counters are added to the run
// only when the whole group lands, so a failed group contributes nothing.
func (imp *Importer) importGroup(ctx context.Context, r *run, group *Group) error {
	row := group.Canonical

	handle := group.Handle
	if handle == "" {
		handle = Slugify(row.Get(colTitle))
	}

	categoryID, err := r.cache.resolve(ctx, imp.store, row)
	if err != nil {
		return fmt.Errorf("resolve category for %q: %w", handle, err)
	}

	existing, err := imp.store.GetProductByHandle(ctx, handle)
	if err != nil {
		return fmt.Errorf("lookup product %q: %w", handle, err)
	}

	product := buildProduct(handle, row, &categoryID)

	var updated bool
	if existing != nil {
		product.ID = existing.ID
		if err := imp.store.UpdateProduct(ctx, product); err != nil {
			return fmt.Errorf("update product %q: %w", handle, err)
		}
		updated = true
	} else {
		if err := imp.store.CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("create product %q: %w", handle, err)
		}
	}

	variants, err := imp.importVariants(ctx, product, group.VariantRows)
	if err != nil {
		return err
	}
	images, err := imp.importImages(ctx, product, group.ImageRows)
	if err != nil {
		return err
	}

	if updated {
		r.updated++
	} else {
		r.created++
	}
	r.variants += variants
	r.images += images
	return nil
}

func (imp *Importer) importVariants(ctx context.Context, product *models.Product, rows []Row) (int, error) {
	created := 0
	for _, row := range rows {
		if row.Get(colOption1Name) == "" || row.Get(colOption1Value) == "" {
			continue
		}

		title := variantTitle(row)
		sku := row.Get(colVariantSKU)
		if sku == "" {
			sku = title
		}

		variant := &models.Variant{
			ProductID:      product.ID,
			SKU:            sku,
			Title:          title,
			Option1Name:    row.Get(colOption1Name),
			Option1Value:   row.Get(colOption1Value),
			Option2Name:    optional(row.Get(colOption2Name)),
			Option2Value:   optional(row.Get(colOption2Value)),
			Option3Name:    optional(row.Get(colOption3Name)),
			Option3Value:   optional(row.Get(colOption3Value)),
			Price:          fieldOr(row, colVariantPrice, "0"),
			CompareAtPrice: optional(row.Get(colComparePrice)),
			InventoryQty:   atoiOr(row.Get(colInventoryQty), 0),
			ImageURL:       optional(row.Get(colImageSrc)),
		}
		if err := imp.store.CreateVariant(ctx, variant); err != nil {
			return created, fmt.Errorf("create variant %q: %w", sku, err)
		}
		created++
	}
	return created, nil
}

func (imp *Importer) importImages(ctx context.Context, product *models.Product, rows []Row) (int, error) {
	created := 0
	for _, row := range rows {
		src := row.Get(colImageSrc)
		if src == "" {
			continue
		}

		image := &models.Image{
			ProductID: product.ID,
			URL:       src,
			Position:  atoiOr(row.Get(colImagePosition), 1),
			AltText:   row.Get(colImageAltText),
		}
		if err := imp.store.CreateImage(ctx, image); err != nil {
			return created, fmt.Errorf("create image %q: %w", src, err)
		}
		created++
	}
	return created, nil
}

func buildProduct(handle string, row Row, categoryID *uuid.UUID) *models.Product {
	return &models.Product{
		Handle:         handle,
		Title:          row.Get(colTitle),
		Description:    optional(row.Get(colBody)),
		Vendor:         optional(row.Get(colVendor)),
		ProductType:    optional(row.Get(colType)),
		Tags:           optional(row.Get(colTags)),
		SKU:            optional(row.Get(colVariantSKU)),
		Published:      parsePublished(row.Get(colPublished)),
		Price:          fieldOr(row, colVariantPrice, "0"),
		CompareAtPrice: optional(row.Get(colComparePrice)),
		CategoryID:     categoryID,
		ImageURL:       optional(row.Get(colImageSrc)),
		SeoTitle:       optional(row.Get(colSeoTitle)),
		SeoDescription: optional(row.Get(colSeoDescription)),
	}
}

// variantTitle joins the non-empty option values with " / ".
func variantTitle(row Row) string {
	var parts []string
	for _, col := range []string{colOption1Value, colOption2Value, colOption3Value} {
		if v := row.Get(col); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " / ")
}

// parsePublished recognizes the literal TRUE/true of the export format.
func parsePublished(value string) bool {
	return value == "TRUE" || value == "true"
}

func fieldOr(row Row, col, def string) string {
	if v := row.Get(col); v != "" {
		return v
	}
	return def
}

// atoiOr parses an integer field, falling back to def on any coercion
// failure rather than failing the row.
func atoiOr(value string, def int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return n
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
