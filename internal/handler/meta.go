package handler

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goalkeeper/internal/model"
)

type MetaHandler struct {
	db *sqlx.DB
}

func NewMetaHandler(db *sqlx.DB) *MetaHandler {
	return &MetaHandler{db: db}
}

func (h *MetaHandler) Units(w http.ResponseWriter, r *http.Request) {
	units := model.Units()
	resp := make([]unitResponse, 0, len(units))
	for _, unit := range units {
		resp = append(resp, unitResponse{
			Unit:     unit,
			Label:    unit.Label(),
			Minimum:  unit.Minimum(),
			Exercise: unit.IsExercise(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *MetaHandler) Health(w http.ResponseWriter, r *http.Request) {
	err := h.db.PingContext(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
