package datasets

import (
	"fmt"
	"strconv"
	"strings"

	"fleetops-backend/internal/pkg/response"
	"fleetops-backend/internal/query"
	"fleetops-backend/internal/tabular"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles dataset endpoints with the service.
type Handlers struct {
	Service *Service
}

// List GET /api/v1/datasets — every dataset with row and column counts.
func (h *Handlers) List(c *fiber.Ctx) error {
	infos, err := h.Service.List(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, "Datasets retrieved", fiber.Map{"datasets": infos}, nil)
}

// Info GET /api/v1/datasets/:dataset — one dataset's shape.
func (h *Handlers) Info(c *fiber.Ctx) error {
	info, err := h.Service.Info(c.Context(), c.Params("dataset"))
	if err != nil {
		return err
	}
	return response.Success(c, "Dataset info retrieved", info, nil)
}

// Data GET /api/v1/datasets/:dataset/data — filtered, sorted, paginated rows.
// Filters come from query params; the POST variant takes the full request body.
func (h *Handlers) Data(c *fiber.Ctx) error {
	req, err := parseQueryParams(c)
	if err != nil {
		return err
	}
	return h.data(c, req)
}

// DataPost POST /api/v1/datasets/:dataset/data — same pipeline with a JSON
// body, for filter sets that do not fit in a query string.
func (h *Handlers) DataPost(c *fiber.Ctx) error {
	var req query.Request
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = query.DefaultPageSize
	}
	return h.data(c, req)
}

func (h *Handlers) data(c *fiber.Ctx, req query.Request) error {
	result, err := h.Service.Data(c.Context(), c.Params("dataset"), req)
	if err != nil {
		return err
	}
	return response.Success(c, "Data retrieved", fiber.Map{
		"rows":    result.Rows,
		"columns": result.Columns,
	}, fiber.Map{
		"pagination":               result.Pagination,
		"total_rows_before_filter": result.TotalRowsBeforeFilter,
		"total_rows_after_filter":  result.TotalRowsAfterFilter,
	})
}

// ColumnStats GET /api/v1/datasets/:dataset/columns/:column/stats.
func (h *Handlers) ColumnStats(c *fiber.Ctx) error {
	stats, err := h.Service.ColumnStats(c.Context(), c.Params("dataset"), c.Params("column"))
	if err != nil {
		return err
	}
	return response.Success(c, "Column statistics retrieved", stats, nil)
}

// parseQueryParams builds a query.Request from URL parameters. Column
// filters use filter[Column]=v (repeatable), numeric ranges min[Column]=
// and max[Column]=.
func parseQueryParams(c *fiber.Ctx) (query.Request, error) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		return query.Request{}, err
	}
	pageSize, err := intQuery(c, "page_size", query.DefaultPageSize)
	if err != nil {
		return query.Request{}, err
	}
	req := query.Request{
		Search:        c.Query("search"),
		SortColumn:    c.Query("sort_column"),
		SortDirection: c.Query("sort_direction"),
		Page:          page,
		PageSize:      pageSize,
	}

	args := c.Context().QueryArgs()
	var parseErr error
	args.VisitAll(func(key, value []byte) {
		k := string(key)
		switch {
		case strings.HasPrefix(k, "filter[") && strings.HasSuffix(k, "]"):
			col := k[len("filter[") : len(k)-1]
			if req.ColumnFilters == nil {
				req.ColumnFilters = make(map[string][]string)
			}
			req.ColumnFilters[col] = append(req.ColumnFilters[col], string(value))
		case strings.HasPrefix(k, "min[") && strings.HasSuffix(k, "]"):
			col := k[len("min[") : len(k)-1]
			v, err := strconv.ParseFloat(string(value), 64)
			if err != nil {
				parseErr = err
				return
			}
			if req.ValueFilters == nil {
				req.ValueFilters = make(map[string]query.Range)
			}
			r := req.ValueFilters[col]
			r.Min = &v
			req.ValueFilters[col] = r
		case strings.HasPrefix(k, "max[") && strings.HasSuffix(k, "]"):
			col := k[len("max[") : len(k)-1]
			v, err := strconv.ParseFloat(string(value), 64)
			if err != nil {
				parseErr = err
				return
			}
			if req.ValueFilters == nil {
				req.ValueFilters = make(map[string]query.Range)
			}
			r := req.ValueFilters[col]
			r.Max = &v
			req.ValueFilters[col] = r
		}
	})
	if parseErr != nil {
		return req, fmt.Errorf("%w: invalid numeric filter value", tabular.ErrInvalidArgument)
	}
	return req, nil
}

// intQuery parses an integer query parameter, rejecting non-integer values
// instead of silently falling back to the default.
func intQuery(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", tabular.ErrInvalidArgument, name)
	}
	return v, nil
}
