package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// testClient creates a Client backed by a test HTTP server.
// The handler receives real S3 XML-protocol requests.
func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:       DefaultRegion,
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		HTTPClient: &http.Client{
			Transport: &http.Transport{},
		},
	})

	return &Client{s3: client, region: DefaultRegion}
}

// xmlResponse is a helper to write S3-style XML responses.
func xmlResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantRegion string
	}{
		{
			name:       "static credentials and custom endpoint",
			opts:       Options{Endpoint: "https://minio.example.com", Region: "eu-central-1", AccessKey: "key", SecretKey: "secret", UsePathStyle: true},
			wantRegion: "eu-central-1",
		},
		{
			name:       "region defaults",
			opts:       Options{},
			wantRegion: DefaultRegion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.region != tt.wantRegion {
				t.Errorf("expected region %s, got %s", tt.wantRegion, client.region)
			}
		})
	}
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("VMPOOL_S3_ENDPOINT", "https://minio.example.com")
	t.Setenv("VMPOOL_S3_REGION", "eu-west-1")
	t.Setenv("VMPOOL_S3_ACCESS_KEY", "key")
	t.Setenv("VMPOOL_S3_SECRET_KEY", "secret")
	t.Setenv("VMPOOL_S3_PATH_STYLE", "true")

	got := OptionsFromEnv()
	want := Options{
		Endpoint:     "https://minio.example.com",
		Region:       "eu-west-1",
		AccessKey:    "key",
		SecretKey:    "secret",
		UsePathStyle: true,
	}
	if got != want {
		t.Errorf("OptionsFromEnv() = %+v, want %+v", got, want)
	}
}

func TestUploadReport_Success(t *testing.T) {
	t.Parallel()

	var (
		mu          sync.Mutex
		body        []byte
		contentType string
		path        string
	)
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusOK)
		case http.MethodPut:
			mu.Lock()
			body, _ = io.ReadAll(r.Body)
			contentType = r.Header.Get("Content-Type")
			path = r.URL.Path
			mu.Unlock()
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	report := []byte(`{"changed":true,"id":"abc"}`)
	location, err := client.UploadReport(context.Background(), "reports", "runs/pool1.json", "application/json", report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if location != "s3://reports/runs/pool1.json" {
		t.Errorf("unexpected location %q", location)
	}

	mu.Lock()
	defer mu.Unlock()
	if string(body) != string(report) {
		t.Errorf("expected body %q, got %q", report, body)
	}
	if contentType != "application/json" {
		t.Errorf("expected content type application/json, got %q", contentType)
	}
	if path != "/reports/runs/pool1.json" {
		t.Errorf("unexpected request path %q", path)
	}
}

func TestUploadReport_MissingBucket(t *testing.T) {
	t.Parallel()

	var puts int
	var mu sync.Mutex
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			mu.Lock()
			puts++
			mu.Unlock()
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.UploadReport(context.Background(), "missing", "report.json", "", []byte("{}"))
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if !strings.Contains(err.Error(), "report bucket missing does not exist") {
		t.Errorf("unexpected error message: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if puts != 0 {
		t.Errorf("expected no upload, got %d", puts)
	}
}

func TestUploadReport_PutError(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		xmlResponse(w, http.StatusForbidden, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>AccessDenied</Code>
  <Message>Access Denied</Message>
</Error>`)
	}))

	_, err := client.UploadReport(context.Background(), "reports", "report.json", "", []byte("{}"))
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if !strings.Contains(err.Error(), "failed to put object report.json in bucket reports") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestBucketExists_OtherError(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	exists, err := client.BucketExists(context.Background(), "reports")
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if exists {
		t.Error("expected exists to be false")
	}
	if !strings.Contains(err.Error(), "failed to check bucket reports") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"no such bucket", &s3types.NoSuchBucket{}, true},
		{"not found", fmt.Errorf("wrapped: %w", &s3types.NotFound{}), true},
		{"generic api error 404", &smithy.GenericAPIError{Code: "404"}, true},
		{"generic api error other", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNotFoundError(tt.err); got != tt.want {
				t.Errorf("isNotFoundError() = %v, want %v", got, tt.want)
			}
		})
	}
}
