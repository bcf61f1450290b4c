package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"
)

// Recognized columns of the tabular product export. Headers are normalized
// to lower case before lookup, so these constants are the normalized forms.
const (
	colHandle         = "handle"
	colTitle          = "title"
	colBody           = "body (html)"
	colVendor         = "vendor"
	colCategory       = "product category"
	colType           = "type"
	colTags           = "tags"
	colPublished      = "published"
	colOption1Name    = "option1 name"
	colOption1Value   = "option1 value"
	colOption2Name    = "option2 name"
	colOption2Value   = "option2 value"
	colOption3Name    = "option3 name"
	colOption3Value   = "option3 value"
	colVariantSKU     = "variant sku"
	colVariantPrice   = "variant price"
	colComparePrice   = "variant compare at price"
	colInventoryQty   = "variant inventory qty"
	colImageSrc       = "image src"
	colImagePosition  = "image position"
	colImageAltText   = "image alt text"
	colSeoTitle       = "seo title"
	colSeoDescription = "seo description"
)

// Row is one data row of the import file, as a mapping from normalized
// column name to trimmed value. IsCanonical is assigned during grouping:
// true for the first row seen for a handle.
type Row struct {
	Line        int
	Fields      map[string]string
	IsCanonical bool
}

// Get returns the trimmed value of a column, or "" when the row does not
// carry it. Rows shorter than the header simply lack trailing columns.
func (r Row) Get(col string) string {
	return r.Fields[col]
}

// ReadFile reads a delimited export file into an ordered row sequence.
// The whole file is read into memory first; the upload size limit is
// enforced upstream. Rows with a different column count than the header
// are tolerated: extra values are dropped, missing ones read as "".
// Zero data rows is not an error at this layer.
func ReadFile(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}
	return parseRows(bytes.NewReader(data))
}

func parseRows(src io.Reader) ([]Row, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1 // column counts may vary row to row

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, asParseError(err)
	}
	for i := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(headers[i]))
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, asParseError(err)
		}
		line++

		fields := make(map[string]string, len(headers))
		for i, value := range record {
			if i < len(headers) {
				fields[headers[i]] = strings.TrimSpace(value)
			}
		}
		rows = append(rows, Row{Line: line, Fields: fields})
	}

	return rows, nil
}

func asParseError(err error) *ParseError {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		if errors.Is(csvErr.Err, csv.ErrFieldCount) {
			return &ParseError{Line: csvErr.Line, Err: errors.New(fieldCountMessage)}
		}
		return &ParseError{Line: csvErr.Line, Err: csvErr.Err}
	}
	return &ParseError{Err: err}
}
