// Package backend is the HTTP client for the remote inference service. The
// service owns document storage, retrieval and answer generation; this side
// only uploads a document, asks questions against it, and deletes it.
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
	"strings"
	"time"

	apperrors "inkchat/errors"

	"go.uber.org/zap"
)

// Client handles communication with the inference service
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// UploadResponse represents the JSON response from the upload operation.
// The returned file name becomes the active document identifier.
type UploadResponse struct {
	FileName string `json:"file_name"`
}

type queryRequest struct {
	Question string `json:"question"`
	FileName string `json:"file_name"`
}

// QueryResult represents the JSON response from the query operation
type QueryResult struct {
	Answer        string `json:"answer"`
	RelevantPages []int  `json:"relevant_pages"`
}

// New creates a new inference service client. A zero timeout means the
// client waits indefinitely for the service to respond.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// UploadDocument sends the file as a multipart body to the service and
// returns the document identifier assigned by it.
func (c *Client) UploadDocument(ctx context.Context, filename string, r io.Reader) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/upload-pdf", body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.Debug("Sending document to inference service",
		zap.String("filename", filename),
		zap.String("url", c.baseURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrUploadFailed, err.Error())
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode, apperrors.ErrUploadFailed); err != nil {
		return "", err
	}

	var result UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", apperrors.WrapError(apperrors.ErrUploadFailed, "failed to decode response")
	}
	if result.FileName == "" {
		return "", apperrors.WrapError(apperrors.ErrUploadFailed, "service returned no document identifier")
	}

	c.logger.Info("Document upload successful",
		zap.String("filename", filename),
		zap.String("document", result.FileName))

	return result.FileName, nil
}

// Query asks a question against the given document
func (c *Client) Query(ctx context.Context, documentID, question string) (*QueryResult, error) {
	payload, err := json.Marshal(queryRequest{Question: question, FileName: documentID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/query", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrQueryFailed, err.Error())
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode, apperrors.ErrQueryFailed); err != nil {
		return nil, err
	}

	var result QueryResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrQueryFailed, "failed to decode response")
	}

	c.logger.Debug("Query successful",
		zap.String("document", documentID),
		zap.Int("relevant_pages", len(result.RelevantPages)))

	return &result, nil
}

// DeleteDocument asks the service to discard the document. Callers treat
// this as best effort; a failure never reverses a local reset.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", c.baseURL+"/api/delete/"+url.PathEscape(documentID), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to inference service failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("delete returned status %d", resp.StatusCode)
	}
	return nil
}

// classifyStatus folds non-2xx statuses into the coarse taxonomy: 429 is
// surfaced as rate limiting, everything else collapses into generic.
func classifyStatus(status int, generic error) error {
	if status >= 200 && status < 300 {
		return nil
	}
	if status == http.StatusTooManyRequests {
		return apperrors.ErrRateLimited
	}
	return apperrors.WrapErrorf(generic, "service returned status %d", status)
}
