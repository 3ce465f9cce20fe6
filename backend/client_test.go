package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "inkchat/errors"

	"go.uber.org/zap"
)

func TestUploadDocument(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	tests := []struct {
		name    string
		status  int
		body    string
		wantDoc string
		wantErr error
	}{
		{
			name:    "success",
			status:  http.StatusOK,
			body:    `{"file_name":"report_1700000000.pdf"}`,
			wantDoc: "report_1700000000.pdf",
		},
		{
			name:    "rate_limited",
			status:  http.StatusTooManyRequests,
			body:    `{"detail":"Rate limit exceeded. Try again later."}`,
			wantErr: apperrors.ErrRateLimited,
		},
		{
			name:    "server_error",
			status:  http.StatusInternalServerError,
			body:    `{"detail":"Some Error Occured"}`,
			wantErr: apperrors.ErrUploadFailed,
		},
		{
			name:    "missing_identifier",
			status:  http.StatusOK,
			body:    `{}`,
			wantErr: apperrors.ErrUploadFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/upload-pdf" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if err := r.ParseMultipartForm(32 << 20); err != nil {
					t.Errorf("expected multipart body: %v", err)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New(srv.URL, 0, logger)
			doc, err := client.UploadDocument(context.Background(), "report.pdf", strings.NewReader("%PDF-1.4"))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("UploadDocument() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UploadDocument() unexpected error: %v", err)
			}
			if doc != tt.wantDoc {
				t.Errorf("UploadDocument() = %q, want %q", doc, tt.wantDoc)
			}
		})
	}
}

func TestQuery(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/query" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"answer":"It is a summary.","relevant_pages":[2,5]}`))
	}))
	defer srv.Close()

	client := New(srv.URL, 0, logger)
	result, err := client.Query(context.Background(), "report.pdf", "What is the summary?")
	if err != nil {
		t.Fatalf("Query() unexpected error: %v", err)
	}
	if result.Answer != "It is a summary." {
		t.Errorf("Answer = %q", result.Answer)
	}
	if len(result.RelevantPages) != 2 || result.RelevantPages[0] != 2 || result.RelevantPages[1] != 5 {
		t.Errorf("RelevantPages = %v, want [2 5]", result.RelevantPages)
	}
}

func TestQueryErrorClassification(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "rate_limited", status: http.StatusTooManyRequests, wantErr: apperrors.ErrRateLimited},
		{name: "bad_gateway", status: http.StatusBadGateway, wantErr: apperrors.ErrQueryFailed},
		{name: "not_found", status: http.StatusNotFound, wantErr: apperrors.ErrQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client := New(srv.URL, 0, logger)
			_, err := client.Query(context.Background(), "report.pdf", "anything")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Query() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeleteDocument(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s", r.Method)
		}
		gotPath = r.URL.Path
		w.Write([]byte(`{"message":"deleted"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, 0, logger)
	if err := client.DeleteDocument(context.Background(), "report.pdf"); err != nil {
		t.Fatalf("DeleteDocument() unexpected error: %v", err)
	}
	if gotPath != "/api/delete/report.pdf" {
		t.Errorf("path = %q, want /api/delete/report.pdf", gotPath)
	}
}

func TestDeleteDocumentFailure(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, 0, logger)
	if err := client.DeleteDocument(context.Background(), "report.pdf"); err == nil {
		t.Fatal("DeleteDocument() expected error for 500 response")
	}
}
