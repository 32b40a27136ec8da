package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPFetcherSuccess(t *testing.T) {
	var gotUA, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher()
	body, err := f.Fetch(context.Background(), srv.URL, map[string]string{"Accept-Language": "pt-BR,pt;q=0.9"})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(body) != "<html>ok</html>" {
		t.Fatalf("unexpected body %q", body)
	}
	if gotUA == "" || gotUA == "Go-http-client/1.1" {
		t.Fatalf("browser user agent not applied: %q", gotUA)
	}
	if gotLang != "pt-BR,pt;q=0.9" {
		t.Fatalf("per-source header not applied: %q", gotLang)
	}
}

func TestHTTPFetcherStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewHTTPFetcher()
	_, err := f.Fetch(context.Background(), srv.URL, nil)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Kind != FailStatus || fe.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("unexpected classification %+v", fe)
	}
	if !fe.Retryable() {
		t.Fatalf("503 must be retryable")
	}
}

func TestHTTPFetcherNetworkError(t *testing.T) {
	f := NewHTTPFetcher()
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/nothing", nil)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Kind != FailNetwork && fe.Kind != FailTimeout {
		t.Fatalf("unexpected kind %s", fe.Kind)
	}
}

func TestFetchErrorRetryable(t *testing.T) {
	cases := []struct {
		fe   FetchError
		want bool
	}{
		{FetchError{Kind: FailTimeout}, true},
		{FetchError{Kind: FailNetwork}, true},
		{FetchError{Kind: FailStatus, StatusCode: 500}, true},
		{FetchError{Kind: FailStatus, StatusCode: 429}, true},
		{FetchError{Kind: FailStatus, StatusCode: 403}, false},
		{FetchError{Kind: FailStatus, StatusCode: 404}, false},
	}
	for _, c := range cases {
		if got := c.fe.Retryable(); got != c.want {
			t.Fatalf("Retryable(%+v) = %v, want %v", c.fe, got, c.want)
		}
	}
}
