// Package backend is the typed HTTP client for the management REST backend.
// The backend is a black box: this package owns the routes, the response
// envelopes, and the translation of every failure into the console's error
// taxonomy before anything reaches a caller.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/hawkbud003/dsahboard/internal/forms"
	"github.com/hawkbud003/dsahboard/internal/models"
	"github.com/hawkbud003/dsahboard/internal/observability"
)

// Client provides access to the management backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    observability.MetricsRegistry
}

// New creates a backend client. Requests carry otel instrumentation.
func New(baseURL string, timeout time.Duration, logger *zap.Logger, metrics observability.MetricsRegistry) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger:  logger,
		metrics: metrics,
	}
}

type listEnvelope struct {
	Data []models.SelectOption `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, contentType string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token, ok := tokenFromContext(ctx); ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return &APIError{Message: GenericErrorMessage}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("backend response read failed", zap.String("path", path), zap.Error(err))
		return &APIError{Message: GenericErrorMessage}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		msg := translateErrorBody(raw)
		c.logger.Warn("backend request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Error("backend response decode failed", zap.String("path", path), zap.Error(err))
		return &APIError{StatusCode: resp.StatusCode, Message: GenericErrorMessage}
	}
	return nil
}

func (c *Client) selectList(ctx context.Context, path string) ([]models.SelectOption, error) {
	var env listEnvelope
	if err := c.do(ctx, http.MethodGet, path, "application/json", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Reference list fetches. Routes mirror the backend's, misspellings included.

func (c *Client) Ages(ctx context.Context) ([]models.SelectOption, error) {
	return c.selectList(ctx, "/age")
}

func (c *Client) Devices(ctx context.Context) ([]models.SelectOption, error) {
	return c.selectList(ctx, "/device")
}

func (c *Client) Environments(ctx context.Context) ([]models.SelectOption, error) {
	return c.selectList(ctx, "/environment")
}

func (c *Client) Exchanges(ctx context.Context) ([]models.SelectOption, error) {
	return c.selectList(ctx, "/exchange")
}

func (c *Client) Languages(ctx context.Context) ([]models.SelectOption, error) {
	return c.selectList(ctx, "/language")
}

func (c *Client) Carriers(ctx context.Context) ([]models.SelectOption, error) {
	return c.selectList(ctx, "/carrierData")
}

func (c *Client) DevicePrices(ctx context.Context) ([]models.SelectOption, error) {
	return c.selectList(ctx, "/devicePrice")
}

func (c *Client) BuyTypes(ctx context.Context) ([]models.SelectOption, error) {
	return c.selectList(ctx, "/buyType")
}

func (c *Client) Viewability(ctx context.Context) ([]models.SelectOption, error) {
	return c.selectList(ctx, "/viewability")
}

func (c *Client) BrandSafety(ctx context.Context) ([]models.SelectOption, error) {
	return c.selectList(ctx, "/brandSafety")
}

func (c *Client) InterestCategories(ctx context.Context) ([]models.SelectOption, error) {
	return c.selectList(ctx, "/distinctInterest")
}

// Locations fetches the targetable geography list with populations.
func (c *Client) Locations(ctx context.Context) ([]models.Location, error) {
	var env struct {
		Data []models.Location `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/location", "application/json", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Interests fetches the interest taxonomy, optionally filtered by a
// free-text query.
func (c *Client) Interests(ctx context.Context, query string) ([]models.Interest, error) {
	path := "/api/target_type"
	if query != "" {
		path += "?query=" + url.QueryEscape(query)
	}
	var env struct {
		Data []models.Interest `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, "application/json", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Impressions fetches the population base data, including the total
// population scalar consumed by the population estimator.
func (c *Client) Impressions(ctx context.Context) (models.ImpressionData, error) {
	var env struct {
		Data models.ImpressionData `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/impression", "application/json", nil, &env); err != nil {
		return models.ImpressionData{}, err
	}
	return env.Data, nil
}

// Users fetches the account list. Admin only; the aggregator guards the call.
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var env struct {
		Results []models.User `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users", "application/json", nil, &env); err != nil {
		return nil, err
	}
	return env.Results, nil
}

// Creatives fetches all creatives visible to the caller.
func (c *Client) Creatives(ctx context.Context) ([]models.Creative, error) {
	var env struct {
		Data []models.Creative `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/creatives", "application/json", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Campaigns fetches one page of the caller's campaigns with an optional
// free-text query.
func (c *Client) Campaigns(ctx context.Context, page int, query string) (int64, []models.Campaign, error) {
	path := fmt.Sprintf("/api/fetch_user_campgain/?page=%d", page)
	if query != "" {
		path += "&query=" + url.QueryEscape(query)
	}
	var env struct {
		Count   int64 `json:"count"`
		Results struct {
			Data []models.Campaign `json:"data"`
		} `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, path, "application/json", nil, &env); err != nil {
		return 0, nil, err
	}
	return env.Count, env.Results.Data, nil
}

// CampaignByID fetches a single campaign, used to build an edit handoff.
func (c *Client) CampaignByID(ctx context.Context, id int64) (models.Campaign, error) {
	var env struct {
		Results struct {
			Data models.Campaign `json:"data"`
		} `json:"results"`
	}
	path := fmt.Sprintf("/api/campaigns/%d/", id)
	if err := c.do(ctx, http.MethodGet, path, "application/json", nil, &env); err != nil {
		return models.Campaign{}, err
	}
	return env.Results.Data, nil
}

// SubmitCampaign sends the serialized form state, as a create or an update.
func (c *Client) SubmitCampaign(ctx context.Context, form *forms.FormState, isUpdate bool, campaignID int64) error {
	payload, err := forms.EncodePayload(form)
	if err != nil {
		c.logger.Error("encode campaign payload", zap.Error(err))
		return &APIError{Message: GenericErrorMessage}
	}
	method := http.MethodPost
	path := "/api/campaigns/"
	if isUpdate {
		method = http.MethodPut
		path = fmt.Sprintf("/api/campaigns/%d/", campaignID)
	}
	if err := c.do(ctx, method, path, payload.ContentType, payload.Body, nil); err != nil {
		c.metrics.IncrementSubmission("error")
		return err
	}
	c.metrics.IncrementSubmission("ok")
	return nil
}

// SubmitCreative sends a new creative. The form carries a file, so the
// payload encoder always produces multipart here.
func (c *Client) SubmitCreative(ctx context.Context, form *forms.FormState) error {
	payload, err := forms.EncodePayload(form)
	if err != nil {
		c.logger.Error("encode creative payload", zap.Error(err))
		return &APIError{Message: GenericErrorMessage}
	}
	if err := c.do(ctx, http.MethodPost, "/api/creatives/", payload.ContentType, payload.Body, nil); err != nil {
		c.metrics.IncrementSubmission("error")
		return err
	}
	c.metrics.IncrementSubmission("ok")
	return nil
}

// Upload categories accepted by Upload.
const (
	UploadImages       = "images"
	UploadVideo        = "video"
	UploadTagTracker   = "tag_tracker"
	UploadProximity    = "proximity"
	UploadWeather      = "weather"
	UploadKeywords     = "keywords"
	UploadReportUpload = "report-upload"
)

// uploadRoute maps an upload category to the backend field name and path.
func uploadRoute(category string, campaignID int64) (field, path string, ok bool) {
	switch category {
	case UploadImages:
		return "image", "/api/campaign-images/", true
	case UploadVideo:
		return "video", "/api/campaign-video/", true
	case UploadTagTracker:
		return "file", "/api/tag_tacker/", true
	case UploadProximity:
		return "file", "/api/proximity/", true
	case UploadWeather:
		return "file", "/api/weather/", true
	case UploadKeywords:
		return "file", "/api/keywords/", true
	case UploadReportUpload:
		return "file", "/get-csv/" + strconv.FormatInt(campaignID, 10), true
	}
	return "", "", false
}

// Upload sends one file under the given category and returns the created
// resource ID.
func (c *Client) Upload(ctx context.Context, ref *models.FileRef, category string, campaignID int64) (int64, error) {
	field, path, ok := uploadRoute(category, campaignID)
	if !ok {
		return 0, &APIError{StatusCode: http.StatusBadRequest, Message: "Invalid file type " + category}
	}
	if ref.Empty() {
		return 0, &APIError{StatusCode: http.StatusBadRequest, Message: "File is required"}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, ref.Name)
	if err != nil {
		return 0, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(ref.Data); err != nil {
		return 0, fmt.Errorf("build upload form: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("build upload form: %w", err)
	}

	var created struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, path, w.FormDataContentType(), buf.Bytes(), &created); err != nil {
		c.metrics.IncrementUpload(category, "error")
		return 0, err
	}
	c.metrics.IncrementUpload(category, "ok")
	return created.ID, nil
}

type tokenKey struct{}

// WithToken attaches the caller's auth token to the context; outgoing
// requests forward it as a bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok
}
