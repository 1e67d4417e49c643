package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hawkbud003/dsahboard/internal/forms"
	"github.com/hawkbud003/dsahboard/internal/models"
	"github.com/hawkbud003/dsahboard/internal/observability"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *observability.MockMetricsRegistry) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	metrics := observability.NewMockMetricsRegistry()
	return New(srv.URL, 5*time.Second, zap.NewNop(), metrics), metrics
}

func TestSelectListFetch(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/buyType" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data": [{"id": 1, "label": "CPM"}, {"id": 2, "label": "CPC"}]}`))
	})

	opts, err := c.BuyTypes(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(opts) != 2 || opts[0].Label != "CPM" {
		t.Fatalf("opts = %v", opts)
	}
}

func TestBearerTokenForwarded(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data": []}`))
	})

	ctx := WithToken(context.Background(), "tok-123")
	if _, err := c.Ages(ctx); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("auth header = %q", gotAuth)
	}
}

func TestErrorStatusTranslated(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": {"end_time": ["End Time should be after start date"]}}`))
	})

	_, err := c.Locations(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Message != "End Time should be after start date" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestTransportErrorGenericMessage(t *testing.T) {
	metrics := observability.NewMockMetricsRegistry()
	c := New("http://127.0.0.1:1", 200*time.Millisecond, zap.NewNop(), metrics)

	_, err := c.Ages(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T", err)
	}
	if apiErr.Message != GenericErrorMessage {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestCampaignsPaging(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/fetch_user_campgain/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("page") != "3" {
			t.Errorf("page = %s", r.URL.Query().Get("page"))
		}
		if r.URL.Query().Get("query") != "diwali sale" {
			t.Errorf("query = %s", r.URL.Query().Get("query"))
		}
		_, _ = w.Write([]byte(`{"count": 25, "results": {"data": [{"id": 7, "name": "Diwali Sale"}]}}`))
	})

	count, campaigns, err := c.Campaigns(context.Background(), 3, "diwali sale")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if count != 25 {
		t.Fatalf("count = %d", count)
	}
	if len(campaigns) != 1 || campaigns[0].Name != "Diwali Sale" {
		t.Fatalf("campaigns = %v", campaigns)
	}
}

func TestSubmitCampaignCreateAndUpdate(t *testing.T) {
	type call struct {
		method string
		path   string
	}
	var calls []call
	c, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if len(body) == 0 {
			t.Error("empty body")
		}
		w.WriteHeader(http.StatusCreated)
	})

	form := forms.NewFormState(forms.CampaignSchema())
	form.Set("name", "x")

	if err := c.SubmitCampaign(context.Background(), form, false, 0); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := c.SubmitCampaign(context.Background(), form, true, 42); err != nil {
		t.Fatalf("update: %v", err)
	}

	if calls[0].method != http.MethodPost || calls[0].path != "/api/campaigns/" {
		t.Fatalf("create call = %+v", calls[0])
	}
	if calls[1].method != http.MethodPut || calls[1].path != "/api/campaigns/42/" {
		t.Fatalf("update call = %+v", calls[1])
	}
	if metrics.Submissions["ok"] != 2 {
		t.Fatalf("submission counts = %v", metrics.Submissions)
	}
}

func TestUploadRoutes(t *testing.T) {
	var gotPath string
	var gotField string
	c, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		for field := range r.MultipartForm.File {
			gotField = field
		}
		_, _ = w.Write([]byte(`{"id": 99}`))
	})

	ref := &models.FileRef{Name: "list.xlsx", Size: 3, Data: []byte("abc")}
	id, err := c.Upload(context.Background(), ref, UploadTagTracker, 0)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if id != 99 {
		t.Fatalf("id = %d", id)
	}
	if gotPath != "/api/tag_tacker/" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotField != "file" {
		t.Fatalf("field = %q", gotField)
	}
	if metrics.Uploads[UploadTagTracker+" ok"] != 1 {
		t.Fatalf("upload counts = %v", metrics.Uploads)
	}

	// Image uploads use the image field and route.
	ref = &models.FileRef{Name: "banner.png", Size: 3, Data: []byte("png")}
	if _, err := c.Upload(context.Background(), ref, UploadImages, 0); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if gotPath != "/api/campaign-images/" || gotField != "image" {
		t.Fatalf("image upload = %q %q", gotPath, gotField)
	}
}

func TestUploadRejectsUnknownCategory(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the backend")
	})
	ref := &models.FileRef{Name: "x", Size: 1, Data: []byte("x")}
	if _, err := c.Upload(context.Background(), ref, "bogus", 0); err == nil {
		t.Fatal("expected error")
	}
	if _, err := c.Upload(context.Background(), &models.FileRef{}, UploadImages, 0); err == nil {
		t.Fatal("empty file must be rejected")
	}
}
