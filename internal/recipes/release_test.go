package recipes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func releaseServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		assert.Equal(t, "menu-cli", r.Header.Get("User-Agent"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLatestRelease(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, `{"tag_name":"v1.4.0","html_url":"https://example.com/r"}`)

	tag, err := LatestRelease(context.Background(), srv.Client(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "v1.4.0", tag)
}

func TestLatestRelease_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, `{"message":"Not Found"}`},
		{"rate limited", http.StatusForbidden, `{"message":"API rate limit exceeded"}`},
		{"empty tag", http.StatusOK, `{"tag_name":""}`},
		{"bad json", http.StatusOK, `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := releaseServer(t, tt.status, tt.body)
			_, err := LatestRelease(context.Background(), srv.Client(), srv.URL)
			assert.Error(t, err)
		})
	}
}

func TestLatestReleaseFallback(t *testing.T) {
	srv := releaseServer(t, http.StatusInternalServerError, "")
	td := newTestDeps(t, nil)
	td.HTTP = srv.Client()

	assert.Equal(t, "1.29.2", td.latestRelease(context.Background(), srv.URL, "1.29.2"))
	assert.True(t, td.log.Contains("using 1.29.2"))
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	t.Cleanup(srv.Close)
	td := newTestDeps(t, nil)
	td.HTTP = srv.Client()
	path := td.root + "/nested/dir/tool"

	require.NoError(t, td.download(context.Background(), srv.URL, path, 0755))
	assert.Equal(t, "payload", readTestFile(t, path))
	assert.NoFileExists(t, path+".tmp")

	td.DryRun = true
	require.NoError(t, td.download(context.Background(), srv.URL, td.root+"/other", 0755))
	assert.NoFileExists(t, td.root+"/other")
}
