package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// TableHandler exposes the read-only table catalog.
type TableHandler struct {
	Tables TableStore
}

func NewTableHandler(tables TableStore) *TableHandler {
	return &TableHandler{Tables: tables}
}

type tableResp struct {
	ID         uint64 `json:"id"`
	Capacity   uint32 `json:"capacity"`
	Descriptor string `json:"descriptor"`
}

// ListTables handles GET /tables. It returns every catalog table
// ordered by id ascending.
func (h *TableHandler) ListTables(c echo.Context) error {
	tables, err := h.Tables.List(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("tables: list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tables"})
	}
	out := make([]tableResp, 0, len(tables))
	for _, t := range tables {
		out = append(out, tableResp{ID: t.ID, Capacity: t.Capacity, Descriptor: t.TableType})
	}
	return c.JSON(http.StatusOK, out)
}
