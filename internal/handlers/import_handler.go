package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"catalog-service/internal/events"
	"catalog-service/internal/importer"
	"catalog-service/internal/models"
)

type ImportHandler struct {
	importer  *importer.Importer
	publisher *events.Publisher
	logger    *logrus.Entry
}

func NewImportHandler(imp *importer.Importer, publisher *events.Publisher, logger *logrus.Logger) *ImportHandler {
	return &ImportHandler{
		importer:  imp,
		publisher: publisher,
		logger:    logger.WithField("component", "import-handler"),
	}
}

// GetImportTemplate returns the import template definition or file
// GET /api/v1/products/import/template
func (h *ImportHandler) GetImportTemplate(c *gin.Context) {
	format := c.DefaultQuery("format", "json")

	template := models.CatalogImportTemplate()

	switch format {
	case "csv":
		h.generateCSVTemplate(c, template)
	case "xlsx":
		h.generateXLSXTemplate(c, template)
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"template": template,
		})
	}
}

// generateCSVTemplate generates and downloads a CSV template (headers only)
func (h *ImportHandler) generateCSVTemplate(c *gin.Context, template models.ImportTemplate) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=catalog_import_template.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	headers := make([]string, len(template.Columns))
	for i, col := range template.Columns {
		headers[i] = col.Name
	}
	writer.Write(headers)
}

// generateXLSXTemplate generates and downloads an Excel template
func (h *ImportHandler) generateXLSXTemplate(c *gin.Context, template models.ImportTemplate) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, col := range template.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col.Name)

		if col.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	// Instructions sheet documents the row format
	f.NewSheet("Instructions")
	f.SetCellValue("Instructions", "A1", "Catalog Import Instructions")
	f.SetCellValue("Instructions", "A3", "Rows sharing a Handle belong to one product. The first row supplies the")
	f.SetCellValue("Instructions", "A4", "product fields; later rows with Option1 Name/Value add variants. Any row")
	f.SetCellValue("Instructions", "A5", "with an Image Src contributes an image, including the first row.")
	f.SetCellValue("Instructions", "A6", "Categories are created automatically from Product Category (or Type).")

	f.SetCellValue("Instructions", "A8", "Column")
	f.SetCellValue("Instructions", "B8", "Description")
	f.SetCellValue("Instructions", "C8", "Required")
	f.SetCellValue("Instructions", "D8", "Type")
	f.SetCellValue("Instructions", "E8", "Example")

	for i, col := range template.Columns {
		row := i + 9
		f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), col.Name)
		f.SetCellValue("Instructions", fmt.Sprintf("B%d", row), col.Description)
		required := "Optional"
		if col.Required {
			required = "Required"
		}
		f.SetCellValue("Instructions", fmt.Sprintf("C%d", row), required)
		f.SetCellValue("Instructions", fmt.Sprintf("D%d", row), col.Type)
		f.SetCellValue("Instructions", fmt.Sprintf("E%d", row), col.Example)
	}

	f.SetColWidth("Instructions", "A", "A", 25)
	f.SetColWidth("Instructions", "B", "B", 60)
	f.SetColWidth("Instructions", "C", "C", 15)
	f.SetColWidth("Instructions", "D", "D", 15)
	f.SetColWidth("Instructions", "E", "E", 40)

	sheetIdx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIdx)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=catalog_import_template.xlsx")

	f.Write(c.Writer)
}

// ImportCatalog imports products from an uploaded CSV or Excel export.
// One synchronous run per request; the response is always the single
// import result value.
// POST /api/v1/products/import
func (h *ImportHandler) ImportCatalog(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_REQUIRED",
				Message: "Please upload a CSV or Excel file",
			},
		})
		return
	}
	defer file.Close()

	filename := strings.ToLower(header.Filename)
	var result *models.ImportResult

	switch {
	case strings.HasSuffix(filename, ".csv"):
		result = h.importCSV(c, file)
	case strings.HasSuffix(filename, ".xlsx"):
		result = h.importXLSX(c, file)
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_FORMAT",
				Message: "Only CSV and XLSX files are supported",
			},
		})
		return
	}
	if result == nil {
		return
	}

	if result.Success {
		h.logger.WithField("filename", header.Filename).Info(result.Message)
		h.publisher.PublishImportCompleted(c.Request.Context(), result)
		c.JSON(http.StatusOK, result)
		return
	}
	h.logger.WithField("filename", header.Filename).Warn(result.Message)
	c.JSON(http.StatusBadRequest, result)
}

// importCSV spools the upload to a temp file and hands the path to the
// pipeline, which owns reading and parsing.
func (h *ImportHandler) importCSV(c *gin.Context, file multipart.File) *models.ImportResult {
	tmp, err := os.CreateTemp("", "catalog-import-*.csv")
	if err != nil {
		internalError(c, err)
		return nil
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		internalError(c, err)
		return nil
	}
	tmp.Close()

	return h.importer.ImportFromFile(c.Request.Context(), tmp.Name())
}

// importXLSX converts the first sheet into the pipeline's row shape and
// runs the same import.
func (h *ImportHandler) importXLSX(c *gin.Context, file multipart.File) *models.ImportResult {
	rows, err := parseXLSX(file)
	if err != nil {
		return &models.ImportResult{Success: false, Message: err.Error()}
	}
	return h.importer.ImportRows(c.Request.Context(), rows)
}

// parseXLSX parses an Excel file into normalized import rows
func parseXLSX(file io.Reader) ([]importer.Row, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	sheetName := sheets[0]
	for _, name := range sheets {
		if strings.EqualFold(name, "Products") {
			sheetName = name
			break
		}
	}

	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(excelRows) < 2 {
		return nil, nil
	}

	headers := excelRows[0]
	for i := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(headers[i]))
	}

	var rows []importer.Row
	for rowIdx, excelRow := range excelRows[1:] {
		fields := make(map[string]string, len(headers))
		for i, value := range excelRow {
			if i < len(headers) {
				fields[headers[i]] = strings.TrimSpace(value)
			}
		}
		rows = append(rows, importer.Row{Line: rowIdx + 2, Fields: fields})
	}

	return rows, nil
}
