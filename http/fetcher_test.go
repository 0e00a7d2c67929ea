package http_test

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skitterio/skitter"
	"github.com/skitterio/skitter/http"
)

func TestFetcher_Fetch_returns_body_and_status(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer srv.Close()

	f := http.NewFetcher()
	defer f.Close()

	resp, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Body, "hello")
}

func TestFetcher_Fetch_sends_user_agent(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	f := http.NewFetcher(http.WithUserAgent("skitter-test"))
	defer f.Close()

	_, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "skitter-test", gotUA)
}

func TestFetcher_Fetch_reports_final_URL_after_redirect(t *testing.T) {
	t.Parallel()

	mux := nethttp.NewServeMux()
	mux.HandleFunc("/old", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		nethttp.Redirect(w, r, "/new", nethttp.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write([]byte("moved here"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := http.NewFetcher()
	defer f.Close()

	resp, err := f.Fetch(context.Background(), srv.URL+"/old")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/new", resp.FinalURL)
	assert.Equal(t, "moved here", resp.Body)
}

func TestFetcher_Fetch_error_status_is_unavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		nethttp.Error(w, "not found", nethttp.StatusNotFound)
	}))
	defer srv.Close()

	f := http.NewFetcher()
	defer f.Close()

	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, skitter.EUNAVAILABLE, skitter.ErrorCode(err))
}

func TestFetcher_Fetch_invalid_URL_is_invalid(t *testing.T) {
	t.Parallel()

	f := http.NewFetcher()
	defer f.Close()

	_, err := f.Fetch(context.Background(), "http://\x7f invalid")
	require.Error(t, err)
	assert.Equal(t, skitter.EINVALID, skitter.ErrorCode(err))
}

func TestFetcher_Fetch_respects_context_cancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	f := http.NewFetcher()
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, srv.URL)
	require.Error(t, err)
}
