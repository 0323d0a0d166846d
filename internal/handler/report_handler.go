package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"babyboss-sales/internal/model"
	"babyboss-sales/internal/report"
	"babyboss-sales/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Overview returns the landing dashboard
// GET /api/v1/reports/overview?range=week|month|year
func (h *ReportHandler) Overview(c *fiber.Ctx) error {
	ov, err := h.reportService.Overview(c.UserContext(), currentUserID(c), c.Query("range"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ov)
}

// Analysis returns the market analysis
// GET /api/v1/reports/analysis?range=&branch=
func (h *ReportHandler) Analysis(c *fiber.Ctx) error {
	a, err := h.reportService.Analysis(c.UserContext(), currentUserID(c), c.Query("range"), model.Branch(c.Query("branch")))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(a)
}

// TotalSales returns the KPI strip and per-user table
// GET /api/v1/reports/total-sales?month=YYYY-MM&branch=
func (h *ReportHandler) TotalSales(c *fiber.Ctx) error {
	ts, err := h.reportService.TotalSales(c.UserContext(), currentUserID(c), c.Query("month"), model.Branch(c.Query("branch")))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ts)
}

func salesLogQuery(c *fiber.Ctx) report.SalesLogQuery {
	return report.SalesLogQuery{
		From:   c.Query("from"),
		To:     c.Query("to"),
		Filter: reportFilter(c),
	}
}

func customerQuery(c *fiber.Ctx) report.CustomerQuery {
	return report.CustomerQuery{
		Filter:        reportFilter(c),
		City:          c.Query("city"),
		FirstBuyMonth: c.Query("firstBuyMonth"),
		LastBuyMonth:  c.Query("lastBuyMonth"),
	}
}

// SalesLog lists orders in a date range
// GET /api/v1/reports/sales-log?from=&to=&branch=&userId=
func (h *ReportHandler) SalesLog(c *fiber.Ctx) error {
	rows, err := h.reportService.SalesLog(currentUserID(c), salesLogQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rows)
}

// Customers lists customers with their purchase window
// GET /api/v1/reports/customers?branch=&userId=&city=&firstBuyMonth=&lastBuyMonth=
func (h *ReportHandler) Customers(c *fiber.Ctx) error {
	rows, err := h.reportService.Customers(currentUserID(c), customerQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rows)
}

// ExportSalesLog downloads the sales log as XLSX
// GET /api/v1/reports/sales-log/export
func (h *ReportHandler) ExportSalesLog(c *fiber.Ctx) error {
	f, err := h.reportService.ExportSalesLog(currentUserID(c), salesLogQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return sendWorkbook(c, f, "sales-log")
}

// ExportCustomers downloads the customer list as XLSX
// GET /api/v1/reports/customers/export
func (h *ReportHandler) ExportCustomers(c *fiber.Ctx) error {
	f, err := h.reportService.ExportCustomers(currentUserID(c), customerQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return sendWorkbook(c, f, "customers")
}

func sendWorkbook(c *fiber.Ctx, f *excelize.File, name string) error {
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to render workbook"})
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.xlsx"`, name))
	return c.Send(buf.Bytes())
}
