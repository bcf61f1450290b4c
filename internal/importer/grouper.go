package importer

// Group holds all rows belonging to one product handle. Canonical is the
// first row seen for the handle and supplies the product-level fields.
// Variant-ness and image-ness are independent predicates: a single row can
// seed the product, describe a variant and contribute an image at once.
type Group struct {
	Handle      string
	Canonical   Row
	VariantRows []Row
	ImageRows   []Row
}

// GroupSet is the ordered result of grouping an import file, in first-seen
// handle order. SkippedRows counts handle-less rows, which are dropped
// without being treated as errors.
type GroupSet struct {
	Groups      []*Group
	SkippedRows int
}

// GroupRows groups rows by handle in file order. Rows with an empty handle
// are skipped. The first row for a handle becomes the group's canonical row;
// every later row for the same handle is collected as a variant candidate.
// Independently, any row carrying an image source, the canonical row
// included, is collected as an image candidate.
func GroupRows(rows []Row) *GroupSet {
	set := &GroupSet{}
	byHandle := make(map[string]*Group)

	for _, row := range rows {
		handle := row.Get(colHandle)
		if handle == "" {
			set.SkippedRows++
			continue
		}

		group, ok := byHandle[handle]
		if !ok {
			row.IsCanonical = true
			group = &Group{Handle: handle, Canonical: row}
			byHandle[handle] = group
			set.Groups = append(set.Groups, group)
		} else {
			group.VariantRows = append(group.VariantRows, row)
		}

		if row.Get(colImageSrc) != "" {
			group.ImageRows = append(group.ImageRows, row)
		}
	}

	return set
}
