package release

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	gh "github.com/google/go-github/v80/github"
)

func TestSplitRepo(t *testing.T) {
	owner, name, err := SplitRepo("acme/slides")
	if err != nil || owner != "acme" || name != "slides" {
		t.Fatalf("SplitRepo = %q/%q, %v", owner, name, err)
	}
	for _, bad := range []string{"", "acme", "/slides", "acme/"} {
		if _, _, err := SplitRepo(bad); err == nil {
			t.Fatalf("SplitRepo(%q) expected error", bad)
		}
	}
}

func testPublisher(t *testing.T, srv *httptest.Server) *Publisher {
	t.Helper()
	client := gh.NewClient(srv.Client())
	base, _ := url.Parse(srv.URL + "/")
	client.BaseURL = base
	client.UploadURL = base
	return NewWithClient(client, "")
}

func writeAsset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "abstract.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 test"), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}
	return path
}

func TestPublish_FreshTag(t *testing.T) {
	downloadURL := "https://github.com/acme/slides/releases/download/latest-abstract/abstract.pdf"
	var createdBody map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/slides", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":1,"default_branch":"main"}`)
	})
	mux.HandleFunc("GET /repos/acme/slides/releases/tags/latest-abstract", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})
	mux.HandleFunc("POST /repos/acme/slides/releases", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&createdBody)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":7,"tag_name":"latest-abstract"}`)
	})
	mux.HandleFunc("POST /repos/acme/slides/releases/7/assets", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") != "abstract.pdf" {
			t.Errorf("asset name = %q", r.URL.Query().Get("name"))
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"id":9,"browser_download_url":%q}`, downloadURL)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := testPublisher(t, srv)
	got, err := p.Publish(context.Background(), "acme/slides", "A Study Title", writeAsset(t))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got != downloadURL {
		t.Fatalf("download url = %q", got)
	}
	if tag, _ := createdBody["tag_name"].(string); tag != "latest-abstract" {
		t.Fatalf("created tag = %q", tag)
	}
	if name, _ := createdBody["name"].(string); name != "Visual Abstract - A Study Title" {
		t.Fatalf("release name = %q", name)
	}
}

func TestPublish_ReplacesPreviousRelease(t *testing.T) {
	var deletedRelease, deletedAsset, deletedRef bool

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/slides", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":1,"default_branch":"main"}`)
	})
	mux.HandleFunc("GET /repos/acme/slides/releases/tags/latest-abstract", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":3,"tag_name":"latest-abstract"}`)
	})
	mux.HandleFunc("GET /repos/acme/slides/releases/3/assets", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":31,"name":"old.pdf"}]`)
	})
	mux.HandleFunc("DELETE /repos/acme/slides/releases/assets/31", func(w http.ResponseWriter, r *http.Request) {
		deletedAsset = true
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /repos/acme/slides/releases/3", func(w http.ResponseWriter, r *http.Request) {
		deletedRelease = true
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /repos/acme/slides/git/refs/tags/latest-abstract", func(w http.ResponseWriter, r *http.Request) {
		deletedRef = true
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /repos/acme/slides/releases", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":4}`)
	})
	mux.HandleFunc("POST /repos/acme/slides/releases/4/assets", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":41,"browser_download_url":"https://example.org/d"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := testPublisher(t, srv)
	got, err := p.Publish(context.Background(), "acme/slides", "", writeAsset(t))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got != "https://example.org/d" {
		t.Fatalf("download url = %q", got)
	}
	if !deletedAsset || !deletedRelease || !deletedRef {
		t.Fatalf("previous release not fully replaced: asset=%v release=%v ref=%v", deletedAsset, deletedRelease, deletedRef)
	}
}

func TestPublish_RepoAccessFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/slides", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := testPublisher(t, srv)
	if _, err := p.Publish(context.Background(), "acme/slides", "t", writeAsset(t)); err == nil {
		t.Fatalf("expected error for inaccessible repo")
	}
}

func TestNew_RequiresToken(t *testing.T) {
	if _, err := New(context.Background(), "", ""); err == nil {
		t.Fatalf("expected error for missing token")
	}
}
