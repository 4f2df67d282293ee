package mockapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/gudang-labs/warehouse-dashboard/internal/models"
	"github.com/gudang-labs/warehouse-dashboard/pkg/export"
	"github.com/gudang-labs/warehouse-dashboard/pkg/response"
)

// ReportHandler wires the report preview and export endpoints.
type ReportHandler struct {
	service  *StatsService
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	validate *validator.Validate
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *StatsService) *ReportHandler {
	return &ReportHandler{
		service:  svc,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		validate: validator.New(),
	}
}

// Filter handles GET /api/reports/filter.
func (h *ReportHandler) Filter(c *gin.Context) {
	q, ok := h.reportQuery(c)
	if !ok {
		return
	}

	rows, err := h.service.Report(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", rows)
}

// Export handles GET /api/reports/export: the same aggregation as Filter,
// rendered to a downloadable file.
func (h *ReportHandler) Export(c *gin.Context) {
	q, ok := h.reportQuery(c)
	if !ok {
		return
	}
	format := models.FileFormat(c.Query("fileFormat"))
	if format != models.FormatCSV && format != models.FormatPDF {
		response.Fail(c, http.StatusBadRequest, "format file tidak dikenal")
		return
	}

	rows, err := h.service.Report(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	report := export.Report{
		Title:  fmt.Sprintf("Laporan Produktivitas %s", reportTitle(q.Type)),
		Period: fmt.Sprintf("%s s.d. %s", q.StartDate, q.EndDate),
	}
	for _, row := range rows {
		report.Rows = append(report.Rows, export.Row{
			Time:         row.Time,
			OperatorName: row.OperatorName,
			BinningCount: row.BinningCount,
			PickingCount: row.PickingCount,
			TotalItems:   row.TotalItems,
			Productivity: row.Productivity,
		})
	}

	var data []byte
	var contentType string
	switch format {
	case models.FormatCSV:
		contentType = "text/csv"
		data, err = h.csv.Render(report)
	default:
		contentType = "application/pdf"
		data, err = h.pdf.Render(report)
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "gagal membuat laporan")
		return
	}

	filename := fmt.Sprintf("report-%s_%s_%s.%s", q.Type, q.StartDate, q.EndDate, format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}

func (h *ReportHandler) reportQuery(c *gin.Context) (models.ReportQuery, bool) {
	q := models.ReportQuery{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Type:      models.ReportType(c.Query("type")),
		Search:    c.Query("search"),
	}
	if err := h.validate.Struct(q); err != nil {
		response.Fail(c, http.StatusBadRequest, "rentang tanggal dan jenis laporan wajib diisi")
		return q, false
	}
	return q, true
}

func reportTitle(t models.ReportType) string {
	switch t {
	case models.ReportWeekly:
		return "Mingguan"
	case models.ReportMonthly:
		return "Bulanan"
	default:
		return "Harian"
	}
}
