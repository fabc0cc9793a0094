// Package handlers implements the HTTP request handlers of the disc API.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/maruel/discdb/internal/discs"
	"github.com/maruel/discdb/internal/server/dto"
	"github.com/maruel/discdb/internal/server/reqctx"
	"github.com/maruel/discdb/internal/storage"
)

// WelcomeText is served on GET /.
const WelcomeText = "Welcome to the disc management API!"

// DiscHandler handles disc record requests.
type DiscHandler struct {
	store *storage.DiscStore
}

// NewDiscHandler creates a new disc handler.
func NewDiscHandler(store *storage.DiscStore) *DiscHandler {
	return &DiscHandler{store: store}
}

// Welcome writes the plain text greeting.
func (h *DiscHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(WelcomeText))
}

// ListDiscs returns every record in insertion order.
func (h *DiscHandler) ListDiscs(ctx context.Context, req *dto.ListDiscsRequest) (*dto.DiscListResponse, error) {
	records := h.store.List()
	out := make(dto.DiscListResponse, 0, len(records))
	for i := range records {
		out = append(out, discToResponse(&records[i]))
	}
	return &out, nil
}

// GetDisc returns the first record with the requested id.
func (h *DiscHandler) GetDisc(ctx context.Context, req *dto.GetDiscRequest) (*dto.DiscResponse, error) {
	r, ok := h.store.Get(req.ID)
	if !ok {
		return nil, dto.NotFound()
	}
	resp := discToResponse(&r)
	return &resp, nil
}

// CreateDisc stores a validated record and returns it with its assigned id.
func (h *DiscHandler) CreateDisc(ctx context.Context, req *dto.CreateDiscRequest) (*dto.CreatedDiscResponse, error) {
	r := h.store.Create(req.Candidate())
	slog.InfoContext(ctx, "Disc created", "id", r.ID, "film", r.FilmName, "rule", h.store.IDRule(), "rid", reqctx.RequestID(ctx))
	return &dto.CreatedDiscResponse{DiscResponse: discToResponse(&r)}, nil
}

// DeleteDisc removes every record with the requested id.
func (h *DiscHandler) DeleteDisc(ctx context.Context, req *dto.DeleteDiscRequest) (*dto.MessageResponse, error) {
	if !h.store.DeleteByID(req.ID) {
		return nil, dto.NoSuchID()
	}
	slog.InfoContext(ctx, "Disc deleted", "id", req.ID, "rid", reqctx.RequestID(ctx))
	return &dto.MessageResponse{Message: "disc deleted"}, nil
}

func discToResponse(r *discs.Record) dto.DiscResponse {
	return dto.DiscResponse{
		ID:            r.ID,
		FilmName:      r.FilmName,
		RotationType:  string(r.RotationType),
		Region:        r.Region,
		LengthMinutes: r.LengthMinutes,
		VideoFormat:   string(r.VideoFormat),
	}
}
