package nutrition

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestSite starts an httptest server answering the search and one
// detail page.
func newTestSite(t *testing.T, detailHTML string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "unknown food" {
			fmt.Fprint(w, `<html><body><p>No results found.</p></body></html>`)
			return
		}
		fmt.Fprint(w, `<html><body>
			<a href="/about">About</a>
			<a href="/foods/apple-juice-123">Apple juice</a>
		</body></html>`)
	})
	mux.HandleFunc("/foods/apple-juice-123", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, detailHTML)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

const fullDetailPage = `<html><body><table>
	<tr><td>Serving Size</td><td>1 cup</td></tr>
	<tr><td>Calories</td><td>110</td></tr>
	<tr><td>Total Fat</td><td>0.3 g</td></tr>
	<tr><td>Total Carbohydrate</td><td>26 g</td></tr>
	<tr><td>Protein</td><td>0.5 g</td></tr>
</table></body></html>`

// TestSiteClientLookup tests the two-step lookup flow.
func TestSiteClientLookup(t *testing.T) {
	t.Parallel()

	t.Run("extracts all labeled fields", func(t *testing.T) {
		t.Parallel()

		srv := newTestSite(t, fullDetailPage)
		client := NewSiteClient(srv.Client(), srv.URL)

		n, err := client.Lookup(context.Background(), "apple juice")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if n.CaloriesPerServing != 110 {
			t.Errorf("calories = %v, want 110", n.CaloriesPerServing)
		}
		if n.ProteinG != 0.5 {
			t.Errorf("protein = %v, want 0.5", n.ProteinG)
		}
		if n.CarbsG != 26 {
			t.Errorf("carbs = %v, want 26", n.CarbsG)
		}
		if n.FatG != 0.3 {
			t.Errorf("fat = %v, want 0.3", n.FatG)
		}
		if n.ServingSizeValue != 1 || n.ServingSizeUnit != "cup" {
			t.Errorf("serving = %v %q, want 1 cup", n.ServingSizeValue, n.ServingSizeUnit)
		}
		if !n.Complete() {
			t.Errorf("expected complete record, unparsed: %v", n.Unparsed)
		}
	})

	t.Run("missing field yields zero and is recorded", func(t *testing.T) {
		t.Parallel()

		page := `<html><body><table>
			<tr><td>Calories</td><td>110</td></tr>
			<tr><td>Protein</td><td></td></tr>
		</table></body></html>`
		srv := newTestSite(t, page)
		client := NewSiteClient(srv.Client(), srv.URL)

		n, err := client.Lookup(context.Background(), "apple juice")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if n.CaloriesPerServing != 110 {
			t.Errorf("calories = %v, want 110", n.CaloriesPerServing)
		}
		if n.Complete() {
			t.Error("expected unparsed fields recorded")
		}
		found := map[string]bool{}
		for _, label := range n.Unparsed {
			found[label] = true
		}
		if !found[labelFat] || !found[labelCarbs] {
			t.Errorf("expected Total Fat and Carbohydrate unparsed, got %v", n.Unparsed)
		}
	})

	t.Run("inline label value is read", func(t *testing.T) {
		t.Parallel()

		page := `<html><body><p>Calories 80 per serving</p></body></html>`
		srv := newTestSite(t, page)
		client := NewSiteClient(srv.Client(), srv.URL)

		n, err := client.Lookup(context.Background(), "apple juice")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.CaloriesPerServing != 80 {
			t.Errorf("calories = %v, want 80", n.CaloriesPerServing)
		}
	})

	t.Run("no search match is ErrNotFound", func(t *testing.T) {
		t.Parallel()

		srv := newTestSite(t, fullDetailPage)
		client := NewSiteClient(srv.Client(), srv.URL)

		_, err := client.Lookup(context.Background(), "unknown food")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("server error is ErrNotFound", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		client := NewSiteClient(srv.Client(), srv.URL)
		_, err := client.Lookup(context.Background(), "apple juice")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("unreachable site is ErrNotFound", func(t *testing.T) {
		t.Parallel()

		client := NewSiteClient(http.DefaultClient, "http://127.0.0.1:1")
		_, err := client.Lookup(context.Background(), "apple juice")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("script text is ignored", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
			<script>var Calories = 99999;</script>
			<table><tr><td>Calories</td><td>110</td></tr></table>
		</body></html>`
		srv := newTestSite(t, page)
		client := NewSiteClient(srv.Client(), srv.URL)

		n, err := client.Lookup(context.Background(), "apple juice")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.CaloriesPerServing != 110 {
			t.Errorf("calories = %v, want 110", n.CaloriesPerServing)
		}
	})
}
