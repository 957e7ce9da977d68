package modelhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func TestEnsureDownloadsOnceThenUsesCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("onnx-bytes"))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir(), nil)
	url := srv.URL + "/models/style.onnx"

	first, err := f.Ensure(context.Background(), url, false)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if filepath.Base(first) != "style.onnx" {
		t.Errorf("path = %q, want basename style.onnx", first)
	}
	data, err := os.ReadFile(first)
	if err != nil || string(data) != "onnx-bytes" {
		t.Fatalf("cached content = %q, %v", data, err)
	}

	second, err := f.Ensure(context.Background(), url, false)
	if err != nil {
		t.Fatalf("Ensure (cached): %v", err)
	}
	if second != first {
		t.Errorf("second path = %q, want %q", second, first)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}

	if _, err := f.Ensure(context.Background(), url, true); err != nil {
		t.Fatalf("Ensure (refresh): %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hits after refresh = %d, want 2", hits.Load())
	}
}

func TestEnsureHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := NewFetcher(dir, nil)
	_, err := f.Ensure(context.Background(), srv.URL+"/m.onnx", false)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("err = %v, want 404 status error", err)
	}

	path, _ := f.CachePath(srv.URL + "/m.onnx")
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("failed download left a file at %s", path)
	}
}

func TestEnsureKeepsSameNamedModelsApart(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("weights for " + r.URL.Path))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir(), nil)
	urlA := srv.URL + "/org/model-a/resolve/main/model.onnx"
	urlB := srv.URL + "/org/model-b/resolve/main/model.onnx"

	pathA, err := f.Ensure(context.Background(), urlA, false)
	if err != nil {
		t.Fatalf("Ensure(a): %v", err)
	}
	pathB, err := f.Ensure(context.Background(), urlB, false)
	if err != nil {
		t.Fatalf("Ensure(b): %v", err)
	}

	if pathA == pathB {
		t.Fatalf("both urls cached at %s", pathA)
	}
	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2", hits.Load())
	}

	for path, want := range map[string]string{
		pathA: "weights for /org/model-a/resolve/main/model.onnx",
		pathB: "weights for /org/model-b/resolve/main/model.onnx",
	} {
		data, err := os.ReadFile(path)
		if err != nil || string(data) != want {
			t.Errorf("%s = %q, %v; want %q", path, data, err, want)
		}
	}
}

func TestEvictForcesDownload(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("onnx-bytes"))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir(), nil)
	url := srv.URL + "/m.onnx"

	path, err := f.Ensure(context.Background(), url, false)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if err := f.Evict(url); err != nil {
		t.Fatalf("Evict: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("cached file still present: %v", err)
	}
	if err := f.Evict(url); err != nil {
		t.Errorf("second Evict: %v", err)
	}

	if _, err := f.Ensure(context.Background(), url, false); err != nil {
		t.Fatalf("Ensure after evict: %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2", hits.Load())
	}
}

func TestEnsureRejectsWebPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<!DOCTYPE html><html>sign in</html>"))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir(), nil)
	url := srv.URL + "/m.onnx"
	if _, err := f.Ensure(context.Background(), url, false); err == nil {
		t.Fatal("expected an error for an HTML response")
	}

	path, _ := f.CachePath(url)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("web page was cached at %s", path)
	}
}

func TestCachePath(t *testing.T) {
	f := NewFetcher("/cache", nil)

	for _, url := range []string{"ftp://hub.example/x.onnx", "::not a url"} {
		if _, err := f.CachePath(url); err == nil {
			t.Errorf("CachePath(%q) should fail", url)
		}
	}

	a, err := f.CachePath("https://hub.example/a/b/model.onnx")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(a) != "model.onnx" {
		t.Errorf("basename = %q, want model.onnx", filepath.Base(a))
	}
	if !strings.HasPrefix(a, filepath.Join("/cache", "hub.example")+string(filepath.Separator)) {
		t.Errorf("path %q not under the host directory", a)
	}

	again, _ := f.CachePath("https://hub.example/a/b/model.onnx")
	if again != a {
		t.Errorf("CachePath not stable: %q vs %q", a, again)
	}

	other, _ := f.CachePath("https://hub.example/c/d/model.onnx")
	if other == a {
		t.Errorf("different urls share %q", a)
	}

	root, _ := f.CachePath("https://hub.example/")
	if filepath.Base(root) != "model.onnx" {
		t.Errorf("root url basename = %q, want model.onnx", filepath.Base(root))
	}
}
