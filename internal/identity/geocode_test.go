package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const resultPage = `<html><body>
<table class="restable">
<tr><th>Name</th><th>Country</th><th>Feature class</th></tr>
<tr><td><a href="/1">%s</a></td><td><a href="/c">%s</a></td><td>city</td></tr>
</table>
</body></html>`

func geoServer(t *testing.T, body string, status int) *GeoClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.html" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return &GeoClient{BaseURL: srv.URL, HTTP: srv.Client()}
}

func TestInDenmark(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"danish place", fmt.Sprintf(resultPage, "Billund", "Denmark"), true},
		{"foreign place", fmt.Sprintf(resultPage, "Hamburg", "Germany"), false},
		{"no result table", "<html><body>no results</body></html>", false},
		{"empty body", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := geoServer(t, tt.body, http.StatusOK)
			got, err := g.InDenmark(context.Background(), "somewhere")
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("InDenmark() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInDenmarkTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	g := &GeoClient{BaseURL: url, HTTP: http.DefaultClient}
	if _, err := g.InDenmark(context.Background(), "Billund"); err == nil {
		t.Error("expected a transport error from a closed server")
	}
}

func TestInDenmarkQueryEscaping(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		fmt.Fprint(w, fmt.Sprintf(resultPage, "København", "Denmark"))
	}))
	t.Cleanup(srv.Close)

	g := &GeoClient{BaseURL: srv.URL, HTTP: srv.Client()}
	got, err := g.InDenmark(context.Background(), "København Ø")
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("InDenmark() = false, want true")
	}
	if gotQuery != "København Ø" {
		t.Errorf("query = %q", gotQuery)
	}
}
