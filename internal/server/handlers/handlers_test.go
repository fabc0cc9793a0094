package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maruel/discdb/internal/discs"
	"github.com/maruel/discdb/internal/server/dto"
	"github.com/maruel/discdb/internal/storage"
)

func newTestDiscHandler(t *testing.T) *DiscHandler {
	t.Helper()
	return NewDiscHandler(storage.NewDiscStore(storage.DefaultSeed(), discs.IDRuleTail))
}

func TestDiscHandler_ListDiscs(t *testing.T) {
	h := newTestDiscHandler(t)
	resp, err := h.ListDiscs(context.Background(), &dto.ListDiscsRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(*resp) != 2 {
		t.Fatalf("len = %d, want 2", len(*resp))
	}
	want := dto.DiscResponse{ID: 1, FilmName: "Shrek", RotationType: "CAV", Region: "EUR", LengthMinutes: 90, VideoFormat: "NTSC"}
	if (*resp)[0] != want {
		t.Errorf("first = %+v, want %+v", (*resp)[0], want)
	}
}

func TestDiscHandler_GetDisc(t *testing.T) {
	h := newTestDiscHandler(t)
	tests := []struct {
		name   string
		id     int64
		film   string
		status int
	}{
		{"first", 1, "Shrek", 0},
		{"second", 2, "Prueba2", 0},
		{"missing", 99, "", http.StatusNotFound},
		{"zero", 0, "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := h.GetDisc(context.Background(), &dto.GetDiscRequest{ID: tt.id})
			if tt.status != 0 {
				var apiErr *dto.APIError
				if !errors.As(err, &apiErr) || apiErr.StatusCode() != tt.status {
					t.Fatalf("err = %v, want status %d", err, tt.status)
				}
				if got := apiErr.Response(true); got.Message != "not found" || got.Error != "" {
					t.Errorf("response = %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if resp.FilmName != tt.film {
				t.Errorf("FilmName = %q, want %q", resp.FilmName, tt.film)
			}
		})
	}
}

func TestDiscHandler_CreateDisc(t *testing.T) {
	h := newTestDiscHandler(t)
	req := &dto.CreateDiscRequest{Payload: discs.NewPayload("prueba3", "CLV", "SPA", 120, "PAL")}
	if err := req.Validate(); err != nil {
		t.Fatal(err)
	}
	resp, err := h.CreateDisc(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.ID != 3 || resp.FilmName != "prueba3" || resp.VideoFormat != "PAL" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.StatusCode() != http.StatusCreated {
		t.Errorf("StatusCode() = %d", resp.StatusCode())
	}
	if got, _ := h.GetDisc(context.Background(), &dto.GetDiscRequest{ID: 3}); got == nil || got.Region != "SPA" {
		t.Errorf("stored = %+v", got)
	}
}

func TestDiscHandler_DeleteDisc(t *testing.T) {
	h := newTestDiscHandler(t)
	resp, err := h.DeleteDisc(context.Background(), &dto.DeleteDiscRequest{ID: 2})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Message != "disc deleted" {
		t.Errorf("Message = %q", resp.Message)
	}
	_, err = h.DeleteDisc(context.Background(), &dto.DeleteDiscRequest{ID: 2})
	var apiErr *dto.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode() != http.StatusNotFound {
		t.Fatalf("second delete err = %v, want 404", err)
	}
	if got := apiErr.Response(true).Error; got != "no such id" {
		t.Errorf("error = %q", got)
	}
}

func TestDiscHandler_Welcome(t *testing.T) {
	h := newTestDiscHandler(t)
	rec := httptest.NewRecorder()
	h.Welcome(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	if rec.Body.String() != WelcomeText {
		t.Errorf("body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestHealthHandler_Health(t *testing.T) {
	for _, version := range []string{"1.0.0", "dev", ""} {
		t.Run(version, func(t *testing.T) {
			resp, err := NewHealthHandler(version).Health(context.Background(), &dto.HealthRequest{})
			if err != nil {
				t.Fatal(err)
			}
			if resp.Status != "ok" || resp.Version != version {
				t.Errorf("resp = %+v", resp)
			}
		})
	}
}

func TestSchemaHandler_Schema(t *testing.T) {
	s, err := NewSchemaHandler().Schema(context.Background(), &dto.SchemaRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Title != "Disc" {
		t.Errorf("Title = %q", s.Title)
	}
	if _, ok := s.Properties.Get("rotationType"); !ok {
		t.Error("schema lacks rotationType")
	}
}
