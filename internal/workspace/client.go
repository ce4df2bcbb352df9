package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"casaplan/api/internal/attach"
)

// SectionRequest carries the mutable section fields. A nil Attachments
// slice means "leave attachments unchanged" on update.
type SectionRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// ItemRequest carries the item fields for creation.
type ItemRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Type         string   `json:"type"`
	FileURL      string   `json:"fileUrl,omitempty"`
	LinkURL      string   `json:"linkUrl,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Currency     string   `json:"currency,omitempty"`
	StoreName    string   `json:"storeName,omitempty"`
	StoreAddress string   `json:"storeAddress,omitempty"`
}

// UploadFile is a file headed for the upload service.
type UploadFile struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
	Public      bool
}

// UploadResult is the stored file's location.
type UploadResult struct {
	URL      string `json:"url"`
	FileName string `json:"filename"`
}

// Repository persists workspace mutations. The server is the source of
// truth: every returned entity supersedes the local copy with the same id.
type Repository interface {
	FetchWorkspace(ctx context.Context, projectID string) ([]Section, error)
	CreateSection(ctx context.Context, projectID string, req SectionRequest) (Section, error)
	UpdateSection(ctx context.Context, projectID, sectionID string, req SectionRequest) (Section, error)
	DeleteSection(ctx context.Context, projectID, sectionID string) error
	CreateItem(ctx context.Context, projectID, sectionID string, req ItemRequest) (Item, error)
	DeleteItem(ctx context.Context, projectID, sectionID, itemID string) error
	React(ctx context.Context, projectID, sectionID, itemID, reactionType string) ([]Reaction, error)
	AddComment(ctx context.Context, projectID, sectionID, itemID, content string) ([]Comment, error)
	MarkViewed(projectID string)
	Upload(ctx context.Context, file UploadFile) (UploadResult, error)
}

const defaultTimeout = 15 * time.Second

// Client is the HTTP Repository implementation.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	timeout    time.Duration
	// maxUpload caps upload size client-side; 0 means no cap.
	maxUpload int64
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
	}
}

// WithTimeout overrides the per-call timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

// WithMaxUpload sets the client-side upload size cap.
func (c *Client) WithMaxUpload(maxBytes int64) *Client {
	c.maxUpload = maxBytes
	return c
}

func (c *Client) FetchWorkspace(ctx context.Context, projectID string) ([]Section, error) {
	var out struct {
		Sections []Section `json:"sections"`
	}
	path := fmt.Sprintf("/jobs/projects/%s/workspace", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	for i := range out.Sections {
		out.Sections[i].normalize()
	}
	return out.Sections, nil
}

func (c *Client) CreateSection(ctx context.Context, projectID string, req SectionRequest) (Section, error) {
	var out struct {
		Section Section `json:"section"`
	}
	path := fmt.Sprintf("/jobs/projects/%s/workspace/sections", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return Section{}, err
	}
	out.Section.normalize()
	return out.Section, nil
}

func (c *Client) UpdateSection(ctx context.Context, projectID, sectionID string, req SectionRequest) (Section, error) {
	var out struct {
		Section Section `json:"section"`
	}
	path := fmt.Sprintf("/jobs/projects/%s/workspace/sections/%s", url.PathEscape(projectID), url.PathEscape(sectionID))
	if err := c.do(ctx, http.MethodPatch, path, req, &out); err != nil {
		return Section{}, err
	}
	out.Section.normalize()
	return out.Section, nil
}

func (c *Client) DeleteSection(ctx context.Context, projectID, sectionID string) error {
	path := fmt.Sprintf("/jobs/projects/%s/workspace/sections/%s", url.PathEscape(projectID), url.PathEscape(sectionID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) CreateItem(ctx context.Context, projectID, sectionID string, req ItemRequest) (Item, error) {
	var out struct {
		Item Item `json:"item"`
	}
	path := fmt.Sprintf("/jobs/projects/%s/workspace/sections/%s/items", url.PathEscape(projectID), url.PathEscape(sectionID))
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return Item{}, err
	}
	out.Item.normalize()
	return out.Item, nil
}

func (c *Client) DeleteItem(ctx context.Context, projectID, sectionID, itemID string) error {
	path := fmt.Sprintf("/jobs/projects/%s/workspace/sections/%s/items/%s",
		url.PathEscape(projectID), url.PathEscape(sectionID), url.PathEscape(itemID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) React(ctx context.Context, projectID, sectionID, itemID, reactionType string) ([]Reaction, error) {
	var out struct {
		Reactions []Reaction `json:"reactions"`
	}
	path := fmt.Sprintf("/jobs/projects/%s/workspace/sections/%s/items/%s/reactions",
		url.PathEscape(projectID), url.PathEscape(sectionID), url.PathEscape(itemID))
	body := map[string]string{"type": reactionType}
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	if out.Reactions == nil {
		out.Reactions = []Reaction{}
	}
	return out.Reactions, nil
}

func (c *Client) AddComment(ctx context.Context, projectID, sectionID, itemID, content string) ([]Comment, error) {
	var out struct {
		Comments []Comment `json:"comments"`
	}
	path := fmt.Sprintf("/jobs/projects/%s/workspace/sections/%s/items/%s/comments",
		url.PathEscape(projectID), url.PathEscape(sectionID), url.PathEscape(itemID))
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	for i := range out.Comments {
		out.Comments[i].normalize()
	}
	if out.Comments == nil {
		out.Comments = []Comment{}
	}
	return out.Comments, nil
}

// MarkViewed sends the read receipt in the background. Failures are logged
// and otherwise ignored.
func (c *Client) MarkViewed(projectID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		path := fmt.Sprintf("/jobs/projects/%s/materials/viewed", url.PathEscape(projectID))
		if err := c.do(ctx, http.MethodPost, path, map[string]string{}, nil); err != nil {
			log.Printf("workspace: mark viewed %s: %v", projectID, err)
		}
	}()
}

// Upload checks the allow-list before touching the network, then posts the
// file as multipart form data.
func (c *Client) Upload(ctx context.Context, file UploadFile) (UploadResult, error) {
	if err := attach.ValidateUpload(file.FileName, file.ContentType, file.Size, c.maxUpload); err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrUploadRejected, err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", file.FileName)
	if err != nil {
		return UploadResult{}, fmt.Errorf("build multipart: %w", err)
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return UploadResult{}, fmt.Errorf("read upload body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("finish multipart: %w", err)
	}

	path := "/upload"
	if file.Public {
		path = "/upload/public"
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return UploadResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UploadResult{}, &ServerError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return UploadResult{}, err
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return UploadResult{}, fmt.Errorf("decode upload response: %w", err)
	}
	result.URL = c.resolveURL(result.URL)
	if result.FileName == "" {
		result.FileName = file.FileName
	}
	return result, nil
}

// resolveURL normalizes a possibly relative URL against the client base.
func (c *Client) resolveURL(raw string) string {
	if raw == "" {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.IsAbs() {
		return raw
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return raw
	}
	return base.ResolveReference(parsed).String()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ServerError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var envelope struct {
		Code  string `json:"code"`
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&envelope)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, envelope.Code)
	case http.StatusForbidden:
		return ErrForbidden
	default:
		return &ServerError{Status: resp.StatusCode, Code: envelope.Code, Message: envelope.Error}
	}
}
