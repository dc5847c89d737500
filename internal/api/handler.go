package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/eugenenazirov/traitconf/internal/application"
	"github.com/eugenenazirov/traitconf/internal/component"
	"github.com/eugenenazirov/traitconf/internal/storage"
	"github.com/eugenenazirov/traitconf/internal/trait"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler exposes the trait store over HTTP.
type Handler struct {
	store storage.Storage

	clock func() time.Time

	mu        sync.RWMutex
	startedAt time.Time
	updatedAt map[component.Path]time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler over store.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		store: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
		updatedAt: make(map[component.Path]time.Time),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.startedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListTraits(w http.ResponseWriter, r *http.Request) {
	_ = r
	entries := h.store.Describe()
	values := h.store.Values()

	resp := traitsResponse{Traits: make([]entryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Traits = append(resp.Traits, entryResponse{
			Kind:    e.Kind.String(),
			Keys:    e.Keys,
			Path:    e.Path.String(),
			Type:    e.Type,
			Default: e.Default,
			Value:   values[e.Path.Component][e.Path.Trait],
			Sets:    e.Value,
			Help:    e.Help,
			Choices: e.Choices,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetTrait(w http.ResponseWriter, r *http.Request) {
	path := pathFromRequest(r)
	value, err := h.store.Get(path)
	if err != nil {
		writeStoreError(w, path, err)
		return
	}

	resp := traitResponse{
		Component: path.Component,
		Trait:     path.Trait,
		Value:     value,
		UpdatedAt: h.lastUpdated(path),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutTrait(w http.ResponseWriter, r *http.Request) {
	path := pathFromRequest(r)

	var req traitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "value is required")
		return
	}

	value, err := h.store.Set(path, req.Value)
	if err != nil && value == nil {
		writeStoreError(w, path, err)
		return
	}

	h.markUpdated(path)

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Observer failed", err.Error(),
			"The value was stored but a change observer reported an error")
		return
	}

	resp := traitResponse{
		Component: path.Component,
		Trait:     path.Trait,
		Value:     value,
		UpdatedAt: h.lastUpdated(path),
		Message:   "Trait updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) lastUpdated(path component.Path) time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if t, ok := h.updatedAt[path]; ok {
		return t
	}
	return h.startedAt
}

func (h *Handler) markUpdated(path component.Path) {
	h.mu.Lock()
	h.updatedAt[path] = h.clock()
	h.mu.Unlock()
}

func pathFromRequest(r *http.Request) component.Path {
	return component.Path{Component: r.PathValue("component"), Trait: r.PathValue("trait")}
}

func writeStoreError(w http.ResponseWriter, path component.Path, err error) {
	var verr *trait.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "Invalid value", verr.Error(), suggestionFor(verr))
	case errors.Is(err, storage.ErrNotConfigurable):
		writeError(w, http.StatusForbidden, "Trait is read-only", err.Error())
	case errors.Is(err, component.ErrUnknownTrait), errors.Is(err, application.ErrUnknownComponent):
		writeError(w, http.StatusNotFound, "Unknown trait", fmt.Sprintf("no trait %s", path))
	default:
		writeInternalError(w, err)
	}
}

func suggestionFor(verr *trait.ValidationError) string {
	if verr.Err != nil {
		return ""
	}
	return fmt.Sprintf("See GET /api/traits for the type of %s", verr.Path())
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type traitRequest struct {
	Value any `json:"value"`
}

type traitResponse struct {
	Component string    `json:"component"`
	Trait     string    `json:"trait"`
	Value     any       `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
	Message   string    `json:"message,omitempty"`
}

type entryResponse struct {
	Kind    string   `json:"kind"`
	Keys    []string `json:"keys"`
	Path    string   `json:"path"`
	Type    string   `json:"type"`
	Default any      `json:"default"`
	Value   any      `json:"value"`
	Sets    any      `json:"sets,omitempty"`
	Help    string   `json:"help,omitempty"`
	Choices []string `json:"choices,omitempty"`
}

type traitsResponse struct {
	Traits []entryResponse `json:"traits"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
