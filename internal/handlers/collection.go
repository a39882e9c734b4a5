package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ukydev/fleet-dashboard/internal/apperr"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"github.com/ukydev/fleet-dashboard/internal/syncer"
)

// Form is an editor's raw input that coerces into a record.
type Form[T models.Record] interface {
	Record() T
}

// inputChecker is implemented by forms with rules on the raw input.
type inputChecker interface {
	Validate() error
}

// CollectionHandler serves one synced collection and its editor.
type CollectionHandler[T models.Record, F Form[T]] struct {
	ctl     *syncer.Controller[T]
	blank   func() F
	prefill func(T) F
	timeout time.Duration
}

// NewCollectionHandler serves ctl. blank supplies the defaults of a new
// form, prefill fills a form from an existing record.
func NewCollectionHandler[T models.Record, F Form[T]](ctl *syncer.Controller[T], blank func() F, prefill func(T) F, timeout time.Duration) *CollectionHandler[T, F] {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CollectionHandler[T, F]{ctl: ctl, blank: blank, prefill: prefill, timeout: timeout}
}

// MutationResponse is returned after a confirmed write.
type MutationResponse[T models.Record] struct {
	Item  *T     `json:"item,omitempty"`
	Flash string `json:"flash,omitempty"`
}

// List returns the current view of the collection.
func (h *CollectionHandler[T, F]) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.ctl.Snapshot())
}

// Get returns one record from the local copy.
func (h *CollectionHandler[T, F]) Get(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.find(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// NewForm returns an empty form with defaults applied.
func (h *CollectionHandler[T, F]) NewForm(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.blank())
}

// EditForm returns a form pre-filled from an existing record.
func (h *CollectionHandler[T, F]) EditForm(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.find(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.prefill(rec))
}

// Reload re-reads the collection from the store.
func (h *CollectionHandler[T, F]) Reload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	if err := h.ctl.Load(ctx); err != nil {
		respondError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, h.ctl.Snapshot())
}

// Create submits a new record built from the posted form.
func (h *CollectionHandler[T, F]) Create(w http.ResponseWriter, r *http.Request) {
	form := h.blank()
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, err, nil)
		return
	}

	if err := checkInput(form); err != nil {
		respondError(w, err, form)
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	saved, err := h.ctl.Add(ctx, form.Record())
	if err != nil {
		respondError(w, err, form)
		return
	}
	respondJSON(w, http.StatusCreated, MutationResponse[T]{Item: &saved, Flash: h.ctl.Snapshot().Flash})
}

// Update submits the posted form as the new content of a record.
func (h *CollectionHandler[T, F]) Update(w http.ResponseWriter, r *http.Request) {
	var form F
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, err, nil)
		return
	}

	if err := checkInput(form); err != nil {
		respondError(w, err, form)
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	saved, err := h.ctl.Update(ctx, r.PathValue("id"), form.Record())
	if err != nil {
		respondError(w, err, form)
		return
	}
	respondJSON(w, http.StatusOK, MutationResponse[T]{Item: &saved, Flash: h.ctl.Snapshot().Flash})
}

// Delete removes a record. Deleting a record that is already gone succeeds.
func (h *CollectionHandler[T, F]) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	if err := h.ctl.Remove(ctx, r.PathValue("id")); err != nil {
		respondError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, MutationResponse[T]{Flash: h.ctl.Snapshot().Flash})
}

// Register mounts the collection under /api/<name>. Reads are wrapped with
// read and writes with write.
func (h *CollectionHandler[T, F]) Register(mux *http.ServeMux, read, write func(http.Handler) http.Handler) {
	base := "/api/" + h.ctl.Name()
	mux.Handle("GET "+base, read(http.HandlerFunc(h.List)))
	mux.Handle("GET "+base+"/form", read(http.HandlerFunc(h.NewForm)))
	mux.Handle("POST "+base+"/reload", read(http.HandlerFunc(h.Reload)))
	mux.Handle("GET "+base+"/{id}", read(http.HandlerFunc(h.Get)))
	mux.Handle("GET "+base+"/{id}/form", read(http.HandlerFunc(h.EditForm)))
	mux.Handle("POST "+base, write(http.HandlerFunc(h.Create)))
	mux.Handle("PUT "+base+"/{id}", write(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE "+base+"/{id}", write(http.HandlerFunc(h.Delete)))
}

func (h *CollectionHandler[T, F]) find(w http.ResponseWriter, r *http.Request) (T, bool) {
	id := r.PathValue("id")
	rec, ok := h.ctl.Find(id)
	if !ok {
		respondError(w, &apperr.NotFoundError{Entity: h.ctl.Name(), ID: id}, nil)
	}
	return rec, ok
}

func checkInput(form interface{}) error {
	if c, ok := form.(inputChecker); ok {
		return c.Validate()
	}
	return nil
}

func (h *CollectionHandler[T, F]) context(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}
