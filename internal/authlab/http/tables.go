package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/authlab/internal/authlab/schema"
	"github.com/aussiebroadwan/authlab/internal/authlab/store"
	"github.com/aussiebroadwan/authlab/pkg/authsdk"
	"github.com/aussiebroadwan/authlab/pkg/httpx"
	"github.com/aussiebroadwan/authlab/pkg/slogx"
)

// Page size bounds for GET /v1/tables/{name}.
const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
)

type TablesHandler struct {
	Tables store.Tables
}

// HandleList lists the tables in the served file.
//
//	@Summary		List tables
//	@Description	Lists every table in the served file with its row count and declared columns.
//	@Description	Tables outside the documented five are included with documented=false.
//	@Tags			Tables
//	@Produce		json
//	@Success		200	{object}	authsdk.ListTablesResponse	"Tables"
//	@Failure		429	{object}	authsdk.ErrorResponse		"Rate limit exceeded"
//	@Failure		500	{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/tables [get].
func (h *TablesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	names, err := h.Tables.List(ctx)
	if err != nil {
		log.Error("failed to list tables", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, authsdk.ErrorCodeServerError, "Failed to list tables")
		return
	}

	response := authsdk.ListTablesResponse{Tables: make([]authsdk.TableInfo, 0, len(names))}
	for _, name := range names {
		cols, err := h.Tables.Columns(ctx, name)
		if err != nil {
			log.Error("failed to read columns", "table", name, "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, authsdk.ErrorCodeServerError, "Failed to list tables")
			return
		}
		n, err := h.Tables.Count(ctx, name)
		if err != nil {
			log.Error("failed to count rows", "table", name, "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, authsdk.ErrorCodeServerError, "Failed to list tables")
			return
		}
		_, documented := schema.Lookup(name)
		response.Tables = append(response.Tables, authsdk.TableInfo{
			Name:       name,
			Rows:       n,
			Columns:    cols,
			Documented: documented,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}

// HandleRead returns one page of raw rows.
//
//	@Summary		Read table rows
//	@Description	Returns rows in storage order exactly as stored. NULL cells are JSON null.
//	@Tags			Tables
//	@Produce		json
//	@Param			name	path		string	true	"Table name"
//	@Param			limit	query		int		false	"Page size (default 100, max 1000)"
//	@Param			offset	query		int		false	"Rows to skip"
//	@Success		200		{object}	authsdk.TableRowsResponse	"Rows"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Invalid limit or offset"
//	@Failure		404		{object}	authsdk.ErrorResponse		"Unknown table"
//	@Failure		429		{object}	authsdk.ErrorResponse		"Rate limit exceeded"
//	@Failure		500		{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/tables/{name} [get].
func (h *TablesHandler) HandleRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	name := r.PathValue("name")

	limit, ok := queryInt(r, "limit", DefaultPageLimit)
	if !ok || limit <= 0 || limit > MaxPageLimit {
		httpx.WriteError(w, http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest,
			"limit must be an integer between 1 and "+strconv.Itoa(MaxPageLimit))
		return
	}
	offset, ok := queryInt(r, "offset", 0)
	if !ok || offset < 0 {
		httpx.WriteError(w, http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "offset must be a non-negative integer")
		return
	}

	total, err := h.Tables.Count(ctx, name)
	if errors.Is(err, store.ErrUnknownTable) {
		httpx.WriteError(w, http.StatusNotFound, authsdk.ErrorCodeNotFound, "Unknown table: "+name)
		return
	}
	if err != nil {
		log.Error("failed to count rows", "table", name, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, authsdk.ErrorCodeServerError, "Failed to read table")
		return
	}

	rows, err := h.Tables.Read(ctx, name, store.Page{Limit: limit, Offset: offset})
	if err != nil {
		log.Error("failed to read rows", "table", name, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, authsdk.ErrorCodeServerError, "Failed to read table")
		return
	}

	response := authsdk.TableRowsResponse{
		Table:   name,
		Columns: rows.Columns,
		Rows:    make([][]*string, len(rows.Values)),
		Limit:   limit,
		Offset:  offset,
		Total:   total,
	}
	for i, row := range rows.Values {
		cells := make([]*string, len(row))
		for j, v := range row {
			if v.Valid {
				s := v.String
				cells[j] = &s
			}
		}
		response.Rows[i] = cells
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}

// queryInt reads an integer query parameter, returning def when it is absent.
func queryInt(r *http.Request, key string, def int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
