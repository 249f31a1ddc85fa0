package api

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/salescope/salescope/internal/query"
	"github.com/salescope/salescope/internal/sales"
)

// SalesService is the orchestration surface the handlers depend on.
type SalesService interface {
	List(ctx context.Context, f query.Filters, page, limit int) (*sales.ListResult, error)
	Export(ctx context.Context, f query.Filters) ([]sales.Record, error)
	All(ctx context.Context, f query.Filters) ([]sales.Record, error)
	FilterOptions(ctx context.Context) (*sales.FilterOptions, bool, error)
}

// SalesHandler serves the sales read endpoints.
type SalesHandler struct {
	svc SalesService
}

// NewSalesHandler creates a sales handler.
func NewSalesHandler(svc SalesService) *SalesHandler {
	return &SalesHandler{svc: svc}
}

// HandleList serves GET /api/sales: one page of records plus summary and
// pagination metadata.
func (h *SalesHandler) HandleList(c fiber.Ctx) error {
	filters, fieldErrs := parseFilters(c)
	if len(fieldErrs) > 0 {
		return sendValidationError(c, fieldErrs)
	}
	page, limit := parsePageParams(c)

	result, err := h.svc.List(c.RequestCtx(), filters, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       result.Records,
		"summary":    result.Summary,
		"pagination": result.Pagination,
	})
}

// HandleExport serves GET /api/sales/export: the filtered set as a CSV
// attachment with a timestamped filename.
func (h *SalesHandler) HandleExport(c fiber.Ctx) error {
	filters, fieldErrs := parseFilters(c)
	if len(fieldErrs) > 0 {
		return sendValidationError(c, fieldErrs)
	}

	records, err := h.svc.Export(c.RequestCtx(), filters)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := sales.WriteCSV(&buf, records); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s", sales.ExportFilename(time.Now())))
	return c.Send(buf.Bytes())
}

// HandleAll serves GET /api/sales/all: the full filtered set for the
// client-side "view everything" mode.
func (h *SalesHandler) HandleAll(c fiber.Ctx) error {
	filters, fieldErrs := parseFilters(c)
	if len(fieldErrs) > 0 {
		return sendValidationError(c, fieldErrs)
	}

	records, err := h.svc.All(c.RequestCtx(), filters)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    records,
		"total":   len(records),
	})
}

// HandleFilterOptions serves GET /api/sales/filter-options with the cached
// flag reporting whether the snapshot came from the cache.
func (h *SalesHandler) HandleFilterOptions(c fiber.Ctx) error {
	opts, cached, err := h.svc.FilterOptions(c.RequestCtx())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    opts,
		"cached":  cached,
	})
}

func sendValidationError(c fiber.Ctx, fieldErrs []FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   "Validation failed",
		"details": fieldErrs,
	})
}
