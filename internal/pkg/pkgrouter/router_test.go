package pkgrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stepski011/DevStore/internal/pkg/pkgerror"
)

type listResponse struct {
	items []string
}

func (l listResponse) Payload() any { return l.items }

func (l listResponse) Meta() map[string]any {
	return map[string]any{"count": len(l.items)}
}

type createdResponse struct {
	ID string `json:"id"`
}

func (createdResponse) StatusCode() int { return http.StatusCreated }

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRouterSuccessEnvelope(t *testing.T) {
	r := NewRouter(&staticGenerator{value: "cid"})
	r.GET("/items", func(context.Context, *http.Request) (any, error) {
		return listResponse{items: []string{"a", "b"}}, nil
	})
	r.POST("/items", func(context.Context, *http.Request) (any, error) {
		return createdResponse{ID: "1"}, nil
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != true || body["count"] != float64(2) {
		t.Fatalf("unexpected body: %v", body)
	}
	if data, ok := body["data"].([]any); !ok || len(data) != 2 {
		t.Fatalf("expected data list, got %v", body["data"])
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/items", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if data := decodeBody(t, rec)["data"].(map[string]any); data["id"] != "1" {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestRouterErrorEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		want   any
	}{
		{
			name:   "malformed identifier",
			err:    fmt.Errorf("get bootcamp: %w", pkgerror.ErrIdentifierFormat),
			status: http.StatusNotFound,
			want:   "Resource not found",
		},
		{
			name:   "duplicate",
			err:    pkgerror.ErrDuplicateValue,
			status: http.StatusBadRequest,
			want:   "Duplicate value entered",
		},
		{
			name:   "business",
			err:    pkgerror.NewBusiness("Bootcamp not found with id of 1", pkgerror.CodeNotFound),
			status: http.StatusNotFound,
			want:   "Bootcamp not found with id of 1",
		},
		{
			name:   "plain",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			want:   "Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(nil)
			r.GET("/fail", func(context.Context, *http.Request) (any, error) {
				return nil, tt.err
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			body := decodeBody(t, rec)
			if body["success"] != false || body["error"] != tt.want {
				t.Fatalf("unexpected body: %v", body)
			}
		})
	}
}

func TestWriteErrorValidationArray(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), rec, pkgerror.NewValidation(
		pkgerror.FieldViolation{Field: "name", Message: "Please add the name"},
		pkgerror.FieldViolation{Field: "description", Message: "Please add description"},
	))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	msgs, ok := decodeBody(t, rec)["error"].([]any)
	if !ok || len(msgs) != 2 || msgs[0] != "Please add the name" {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}
}

func TestRouterNotFoundAndRoutePath(t *testing.T) {
	r := NewRouter(nil)

	var route string
	r.GET("/bootcamps/:id", func(ctx context.Context, _ *http.Request) (any, error) {
		route = RoutePath(ctx)
		return map[string]string{"id": GetParam(ctx, "id")}, nil
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bootcamps/42", nil))
	if route != "/bootcamps/:id" {
		t.Fatalf("expected route pattern, got %q", route)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound || decodeBody(t, rec)["success"] != false {
		t.Fatalf("expected failure envelope for unknown route, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouterRecoversPanic(t *testing.T) {
	r := NewRouter(nil)
	r.GET("/panic", func(context.Context, *http.Request) (any, error) {
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if decodeBody(t, rec)["error"] != "Server Error" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAppFrames(t *testing.T) {
	stack := []byte("goroutine 1 [running]:\n" +
		"runtime/debug.Stack()\n" +
		"\t/usr/local/go/src/runtime/debug/stack.go:26 +0x5e\n" +
		"github.com/stepski011/DevStore/internal/devstore/usecase.(*Usecase).GetBootcamp(...)\n" +
		"\t/src/internal/devstore/usecase/bootcamp.go:42 +0x1d\n")

	frames := appFrames(stack)
	if len(frames) != 1 || frames[0] != "internal/devstore/usecase/bootcamp.go:42" {
		t.Fatalf("unexpected frames: %v", frames)
	}
}
