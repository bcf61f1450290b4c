package importer

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"catalog-service/internal/models"
)

// defaultCategoryName is used when a row carries neither an explicit
// category nor a product type.
const defaultCategoryName = "General"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonWordChars  = regexp.MustCompile(`[^\w-]`)
)

// Slugify derives a URL slug: lower-cased, trimmed, whitespace runs
// replaced with "-", non-word characters stripped.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	return nonWordChars.ReplaceAllString(slug, "")
}

// categoryCache is a read-through, write-once name-to-id cache scoped to a
// single import run. It is seeded from existing storage records at run
// start, so at most one category is created per distinct resolved name
// within the run. Concurrent runs each carry their own cache and may race
// against the storage uniqueness constraint; that gap is accepted.
type categoryCache struct {
	ids map[string]uuid.UUID
}

func newCategoryCache(existing []models.Category) *categoryCache {
	cache := &categoryCache{ids: make(map[string]uuid.UUID, len(existing))}
	for _, cat := range existing {
		cache.ids[strings.ToLower(cat.Name)] = cat.ID
	}
	return cache
}

// resolveName picks the category label for a row: explicit category field,
// falling back to the product type, falling back to "General".
func resolveName(row Row) string {
	if name := row.Get(colCategory); name != "" {
		return name
	}
	if name := row.Get(colType); name != "" {
		return name
	}
	return defaultCategoryName
}

// resolve returns the id for the row's resolved category name, creating the
// category on first encounter.
func (c *categoryCache) resolve(ctx context.Context, store Store, row Row) (uuid.UUID, error) {
	name := resolveName(row)
	key := strings.ToLower(name)

	if id, ok := c.ids[key]; ok {
		return id, nil
	}

	category := &models.Category{
		Name: name,
		Slug: Slugify(name),
	}
	if err := store.CreateCategory(ctx, category); err != nil {
		return uuid.Nil, err
	}

	c.ids[key] = category.ID
	return category.ID, nil
}
