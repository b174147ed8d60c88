package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/michaelscutari/filetally/internal/aggregate"
	"github.com/michaelscutari/filetally/internal/metrics"
	"github.com/michaelscutari/filetally/internal/record"
	"github.com/michaelscutari/filetally/internal/tree"
)

// DefaultK is used when /categories is called without k.
const DefaultK = 3

// Response is the JSON envelope of every API reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// LargestResult is the payload of /largest.
// Found is false when there are no records.
type LargestResult struct {
	Found     bool   `json:"found"`
	RecordID  int64  `json:"record_id"`
	Name      string `json:"name"`
	TotalSize int64  `json:"total_size"`
}

// RollupResult is the payload of /rollups/{id}.
type RollupResult struct {
	RecordID    int64  `json:"record_id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Size        int64  `json:"size"`
	TotalSize   int64  `json:"total_size"`
	Descendants int64  `json:"descendants"`
	Depth       int    `json:"depth"`
}

type handler struct {
	records []record.FileRecord
}

func sendJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func sendError(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, Response{Success: false, Message: message})
}

func sendData(w http.ResponseWriter, data any) {
	sendJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// sendBuildError maps tree construction failures to HTTP statuses.
func sendBuildError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tree.ErrMalformedHierarchy),
		errors.Is(err, tree.ErrDuplicateID),
		errors.Is(err, tree.ErrNegativeSize):
		sendError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		sendError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, Response{Success: true, Message: "ok", Data: map[string]int{"records": len(h.records)}})
}

func (h *handler) leaves(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	names, err := aggregate.LeafNamesOf(h.records)
	metrics.ObserveAggregate("leaves", start, err)
	if err != nil {
		sendBuildError(w, err)
		return
	}
	if r.URL.Query().Get("sort") == "name" {
		sort.Strings(names)
	}
	sendData(w, names)
}

func (h *handler) categories(w http.ResponseWriter, r *http.Request) {
	k := DefaultK
	if raw := r.URL.Query().Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			sendError(w, http.StatusBadRequest, "k must be an integer")
			return
		}
		k = n
	}

	start := time.Now()
	top, err := aggregate.KLargestCategories(h.records, k)
	metrics.ObserveAggregate("categories", start, err)
	if err != nil {
		if errors.Is(err, aggregate.ErrInvalidK) {
			sendError(w, http.StatusBadRequest, err.Error())
			return
		}
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sendData(w, top)
}

func (h *handler) largest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	t, err := tree.Build(h.records)
	if err != nil {
		metrics.ObserveAggregate("largest", start, err)
		sendBuildError(w, err)
		return
	}
	best, ok := aggregate.Largest(aggregate.Rollups(t))
	metrics.ObserveAggregate("largest", start, nil)

	result := LargestResult{}
	if ok {
		i, _ := t.Index(best.RecordID)
		result = LargestResult{Found: true, RecordID: best.RecordID, Name: t.Record(i).Name, TotalSize: best.TotalSize}
	}
	sendData(w, result)
}

func (h *handler) rollup(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	t, err := tree.Build(h.records)
	if err != nil {
		sendBuildError(w, err)
		return
	}
	i, ok := t.Index(id)
	if !ok {
		sendError(w, http.StatusNotFound, "record not found")
		return
	}

	for _, ru := range aggregate.Rollups(t) {
		if ru.RecordID != id {
			continue
		}
		rec := t.Record(i)
		sendData(w, RollupResult{
			RecordID:    id,
			Name:        rec.Name,
			Kind:        t.Kind(i).String(),
			Size:        rec.Size,
			TotalSize:   ru.TotalSize,
			Descendants: ru.Descendants,
			Depth:       ru.Depth,
		})
		return
	}
	sendError(w, http.StatusNotFound, "record not found")
}
