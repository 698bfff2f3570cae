package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/akash-siv/pen-and-paper/internal/common"
	"github.com/akash-siv/pen-and-paper/internal/netx"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
	maxErrorBody       = 4 << 10
)

// HTTPClient implements Client against the FastAPI backend.
type HTTPClient struct {
	baseURL    string
	http       *http.Client
	maxPayload int64
}

// NewHTTPClient builds a client for baseURL. maxPayload bounds any single
// response body that carries document bytes; zero or less means no limit.
func NewHTTPClient(baseURL string, timeout time.Duration, maxPayload int64) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: timeout},
		maxPayload: maxPayload,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*models.LoginResult, error) {
	resp, err := c.postJSON(ctx, "/auth/login", "", loginRequest{Email: email, Password: string(password)})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, common.ErrAuthService); err != nil {
		return nil, err
	}

	var res models.LoginResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if res.AccessToken == "" {
		return nil, fmt.Errorf("login response without access token: %w", ErrUnauthorized)
	}
	return &res, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return mapError(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

type downloadRequest struct {
	BookIDs    []string `json:"book_ids"`
	TargetPath *string  `json:"target_path"`
}

// downloadEnvelope covers every JSON shape the download endpoint has used.
type downloadEnvelope struct {
	Status     string                   `json:"status"`
	Files      *[]models.FileDescriptor `json:"files"`
	Failed     map[string][]string      `json:"failed"`
	Downloaded map[string][]string      `json:"downloaded"`
	URL        string                   `json:"url"`
	Path       string                   `json:"path"`
	FilePath   string                   `json:"file_path"`
}

func (c *HTTPClient) Download(ctx context.Context, token, ownerID string) (*models.DownloadResult, error) {
	resp, err := c.postJSON(ctx, "/documents/download", token, downloadRequest{BookIDs: []string{ownerID}})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, common.ErrDownloadService); err != nil {
		return nil, err
	}

	ct := resp.Header.Get("Content-Type")
	switch netx.Classify(ct) {
	case netx.ContentJSON:
		return c.decodeEnvelope(resp.Body)
	case netx.ContentBinary:
		return c.readBinary(resp)
	default:
		// Some proxies drop the content type; fall back to sniffing.
		res, err := c.readBinary(resp)
		if err != nil {
			return nil, err
		}
		if !bytes.HasPrefix(res.Body, []byte("%PDF-")) {
			return nil, fmt.Errorf("%w: content type %q", common.ErrUnsupportedResponseShape, ct)
		}
		return res, nil
	}
}

func (c *HTTPClient) readBinary(resp *http.Response) (*models.DownloadResult, error) {
	body, err := readAtMost(resp.Body, c.maxPayload)
	if err != nil {
		return nil, err
	}
	return &models.DownloadResult{
		Kind:        models.DownloadBinary,
		Filename:    netx.DispositionFilename(resp.Header),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func (c *HTTPClient) decodeEnvelope(r io.Reader) (*models.DownloadResult, error) {
	// base64 inflates by 4/3; leave room for the JSON around it
	var limit int64
	if c.maxPayload > 0 {
		limit = c.maxPayload/3*4 + maxErrorBody
	}
	data, err := readAtMost(r, limit)
	if err != nil {
		return nil, err
	}

	var env downloadEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: decode envelope: %v", common.ErrUnsupportedResponseShape, err)
	}

	switch {
	case env.Files != nil:
		return &models.DownloadResult{Kind: models.DownloadEnvelope, Files: *env.Files, Failed: env.Failed}, nil
	case len(env.Downloaded) > 0 || env.URL != "" || env.Path != "" || env.FilePath != "":
		var paths []string
		for _, ps := range env.Downloaded {
			paths = append(paths, ps...)
		}
		for _, p := range []string{env.URL, env.Path, env.FilePath} {
			if p != "" {
				paths = append(paths, p)
			}
		}
		return &models.DownloadResult{Kind: models.DownloadPathReference, Paths: paths}, nil
	case len(env.Failed) > 0:
		return &models.DownloadResult{Kind: models.DownloadEnvelope, Files: []models.FileDescriptor{}, Failed: env.Failed}, nil
	default:
		return nil, fmt.Errorf("%w: json without files or paths", common.ErrUnsupportedResponseShape)
	}
}

// readAtMost reads r fully, failing with ErrPayloadTooLarge past limit
// bytes. A limit of zero or less reads without a bound.
func readAtMost(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, mapError(err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, mapError(err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", common.ErrPayloadTooLarge, limit)
	}
	return data, nil
}

type searchRequest struct {
	Q          string   `json:"q"`
	Limit      int      `json:"limit"`
	Offset     int      `json:"offset"`
	BookID     string   `json:"book_id,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	TagsMode   string   `json:"tags_mode,omitempty"`
	DateEquals string   `json:"date_equals,omitempty"`
}

type searchResponse struct {
	Query            string      `json:"query"`
	Limit            int         `json:"limit"`
	Offset           int         `json:"offset"`
	Total            int         `json:"total"`
	ProcessingTimeMs int         `json:"processingTimeMs"`
	Hits             []searchHit `json:"hits"`
}

type searchHit struct {
	PageID     string   `json:"page_id"`
	BookID     string   `json:"book_id"`
	BookName   string   `json:"book_name"`
	PageNumber int      `json:"page_number"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	Date       string   `json:"date"`
}

func (c *HTTPClient) Search(ctx context.Context, token, query string, opts models.SearchOptions) (*models.SearchPage, error) {
	body := searchRequest{
		Q:          query,
		Limit:      clampLimit(opts.Limit),
		Offset:     max(0, opts.Offset),
		BookID:     opts.OwnerDocumentID,
		Tags:       opts.Tags,
		TagsMode:   string(opts.TagsMode),
		DateEquals: opts.DateEquals,
	}

	resp, err := c.postJSON(ctx, "/documents/search", token, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, common.ErrSearchService); err != nil {
		return nil, err
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, &common.ServiceError{Kind: common.ErrSearchService, Status: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}

	page := &models.SearchPage{
		Query:            sr.Query,
		Total:            sr.Total,
		Limit:            sr.Limit,
		Offset:           sr.Offset,
		ProcessingTimeMs: sr.ProcessingTimeMs,
		Hits:             make([]models.GlobalSearchHit, 0, len(sr.Hits)),
	}
	for _, h := range sr.Hits {
		page.Hits = append(page.Hits, models.GlobalSearchHit{
			PageID:          h.PageID,
			OwnerDocumentID: h.BookID,
			DocumentName:    h.BookName,
			PageNumber:      h.PageNumber,
			SnippetText:     h.Content,
			Tags:            h.Tags,
			Date:            h.Date,
		})
	}
	return page, nil
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return defaultSearchLimit
	case n > maxSearchLimit:
		return maxSearchLimit
	default:
		return n
	}
}

func (c *HTTPClient) Upload(ctx context.Context, token, filename string, payload []byte) (*models.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(payload); err != nil {
		return nil, err
	}
	bookName := strings.TrimSuffix(filename, filepath.Ext(filename))
	if err := mw.WriteField("book_name", bookName); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, mapError(err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, common.ErrUploadService); err != nil {
		return nil, err
	}

	var res models.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, &common.ServiceError{Kind: common.ErrUploadService, Status: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}
	return &res, nil
}

func (c *HTTPClient) postJSON(ctx context.Context, path, token string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

func setBearer(req *http.Request, token string) {
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, "Bearer "+token)
	}
}

// checkStatus turns a non-2xx response into an error. 401/403 become
// ErrUnauthorized; everything else a *common.ServiceError of kind.
func checkStatus(resp *http.Response, kind error) error {
	if netx.IsSuccess(resp.StatusCode) {
		return nil
	}

	msg := errorMessage(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if msg == "" {
			return ErrUnauthorized
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	}
	return &common.ServiceError{Kind: kind, Status: resp.StatusCode, Message: msg}
}

// errorMessage extracts FastAPI's {"detail": ...} or falls back to raw text.
func errorMessage(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))

	var fe struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(data, &fe); err == nil {
		var s string
		if len(fe.Detail) > 0 {
			if json.Unmarshal(fe.Detail, &s) == nil {
				return s
			}
			return string(fe.Detail)
		}
		if fe.Message != "" {
			return fe.Message
		}
	}
	return strings.TrimSpace(string(data))
}

var _ Client = (*HTTPClient)(nil)
