package router

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/DjordjeVuckovic/trec-hunter/internal/apperr"
	"github.com/DjordjeVuckovic/trec-hunter/internal/dataset"
	"github.com/DjordjeVuckovic/trec-hunter/internal/registry"
	"github.com/labstack/echo/v4"
)

const (
	defaultPreviewLimit = 10
	maxPreviewLimit     = 1000
)

type DatasetRouter struct {
	e   *echo.Echo
	reg registry.Registry
}

func NewDatasetRouter(e *echo.Echo, reg registry.Registry) *DatasetRouter {
	return &DatasetRouter{
		e:   e,
		reg: reg,
	}
}

func (r *DatasetRouter) Bind() {
	r.e.GET("/datasets", r.listHandler)
	r.e.GET("/datasets/:year/:mode/docs", r.docsHandler)
	r.e.GET("/datasets/:year/:mode/queries", r.queriesHandler)
	r.e.GET("/datasets/:year/:mode/qrels", r.qrelsHandler)
	r.e.GET("/datasets/:year/:mode/table", r.tableHandler)
}

func (r *DatasetRouter) listHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"datasets": r.reg.Identifiers()})
}

func (r *DatasetRouter) adapterFor(c echo.Context) (*dataset.Adapter, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return nil, apperr.NewValidationWrap("year must be a number", err)
	}
	return dataset.New(r.reg, year, dataset.Mode(c.Param("mode")))
}

func previewLimit(c echo.Context) int {
	limit := defaultPreviewLimit
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPreviewLimit {
		limit = maxPreviewLimit
	}
	return limit
}

func errStatus(c echo.Context, err error) error {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Message})
	}
	var nfe *apperr.NotFoundError
	if errors.As(err, &nfe) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": nfe.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func (r *DatasetRouter) docsHandler(c echo.Context) error {
	a, err := r.adapterFor(c)
	if err != nil {
		return errStatus(c, err)
	}
	return streamHandler(c, a.Name(), a.IterDocs)
}

func (r *DatasetRouter) queriesHandler(c echo.Context) error {
	a, err := r.adapterFor(c)
	if err != nil {
		return errStatus(c, err)
	}
	return streamHandler(c, a.Name(), a.IterQueries)
}

func (r *DatasetRouter) qrelsHandler(c echo.Context) error {
	a, err := r.adapterFor(c)
	if err != nil {
		return errStatus(c, err)
	}
	return streamHandler(c, a.Name(), a.IterQrels)
}

func streamHandler[T any](
	c echo.Context,
	name string,
	iter func(ctx context.Context, limit int) (<-chan registry.Result[T], error),
) error {
	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	ch, err := iter(ctx, previewLimit(c))
	if err != nil {
		return errStatus(c, err)
	}

	records := make([]T, 0, defaultPreviewLimit)
	for res := range ch {
		if res.Err != nil {
			return errStatus(c, res.Err)
		}
		records = append(records, res.Record)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"dataset": name,
		"items":   records,
		"count":   len(records),
	})
}

func (r *DatasetRouter) tableHandler(c echo.Context) error {
	a, err := r.adapterFor(c)
	if err != nil {
		return errStatus(c, err)
	}

	limit := previewLimit(c)
	bundle := a.Load(c.Request().Context(), limit)

	table, err := dataset.Flatten(bundle)
	if err != nil {
		return errStatus(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"dataset": a.Name(),
		"rows":    table.Rows,
		"count":   len(table.Rows),
	})
}
