package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"amphomeus/internal/domain"
	"amphomeus/internal/pkg/mediastore"
)

// APIError is a non-success envelope returned by the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    json.RawMessage
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %s: %s", e.Code, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

type MediaPayload struct {
	ID        string  `json:"id,omitempty"`
	URL       string  `json:"url"`
	PublicID  string  `json:"publicId"`
	MediaType string  `json:"mediaType"`
	Caption   *string `json:"caption,omitempty"`
	Width     *int    `json:"width,omitempty"`
	Height    *int    `json:"height,omitempty"`
}

// JournalPayload is the full desired state sent on create and update.
type JournalPayload struct {
	Title         string         `json:"title"`
	Content       *string        `json:"content"`
	Location      *string        `json:"location"`
	Date          string         `json:"date,omitempty"`
	Media         []MediaPayload `json:"media"`
	Tags          []string       `json:"tags"`
	MediaToDelete []string       `json:"mediaToDelete,omitempty"`
}

// API talks to the /api/v1 surface with a bearer token.
type API struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewAPI(baseURL, token string) *API {
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (a *API) WithHTTPClient(c *http.Client) *API {
	a.http = c
	return a
}

func (a *API) ListJournals(ctx context.Context, q GalleryQuery) ([]domain.Journal, error) {
	var out []domain.Journal
	path := "/journals"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	if err := a.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) GetJournal(ctx context.Context, id string) (*domain.Journal, error) {
	var out domain.Journal
	if err := a.doJSON(ctx, http.MethodGet, "/journals/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) CreateJournal(ctx context.Context, p JournalPayload) (*domain.Journal, error) {
	var out domain.Journal
	if err := a.doJSON(ctx, http.MethodPost, "/journals", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) UpdateJournal(ctx context.Context, id string, p JournalPayload) (*domain.Journal, error) {
	var out domain.Journal
	if err := a.doJSON(ctx, http.MethodPut, "/journals/"+url.PathEscape(id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteJournal returns the confirmation message of the server.
func (a *API) DeleteJournal(ctx context.Context, id string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := a.doJSON(ctx, http.MethodDelete, "/journals/"+url.PathEscape(id), nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (a *API) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var out []domain.Tag
	if err := a.doJSON(ctx, http.MethodGet, "/tags", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadMedia sends body as the multipart "file" field.
func (a *API) UploadMedia(ctx context.Context, name string, body io.Reader) (*mediastore.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, body); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out mediastore.UploadResult
	if err := a.do(ctx, http.MethodPost, "/media/upload", &buf, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) DeleteMedia(ctx context.Context, publicID string) (*mediastore.DeleteResult, error) {
	var out mediastore.DeleteResult
	body := map[string]string{"publicId": publicID}
	if err := a.doJSON(ctx, http.MethodPost, "/media/delete", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) doJSON(ctx context.Context, method, path string, in, out any) error {
	if in == nil {
		return a.do(ctx, method, path, nil, "", out)
	}
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return a.do(ctx, method, path, bytes.NewReader(b), "application/json", out)
}

func (a *API) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	if !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return apiErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
