package imageload

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func serve(t *testing.T, body []byte, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestLoadHTTP(t *testing.T) {
	srv, hits := serve(t, encodePNG(t, 60, 40), http.StatusOK)
	l := New(WithHTTPClient(srv.Client()))

	img, err := l.Load(context.Background(), srv.URL+"/a.png")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if img.Width() != 60 || img.Height() != 40 {
		t.Errorf("size = %dx%d, want 60x40", img.Width(), img.Height())
	}

	again, err := l.Load(context.Background(), srv.URL+"/a.png")
	if err != nil {
		t.Fatalf("second Load() error: %v", err)
	}
	if again != img {
		t.Error("second Load() did not return the cached image")
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
	if st := l.CacheStats(); st.Hits != 1 || st.Len != 1 {
		t.Errorf("CacheStats() = %+v", st)
	}

	l.Purge()
	if _, err := l.Load(context.Background(), srv.URL+"/a.png"); err != nil {
		t.Fatal(err)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("server hit %d times after Purge, want 2", n)
	}
}

func TestLoadStatus(t *testing.T) {
	srv, _ := serve(t, []byte("missing"), http.StatusNotFound)
	l := New(WithHTTPClient(srv.Client()))
	if _, err := l.Load(context.Background(), srv.URL); !errors.Is(err, ErrStatus) {
		t.Errorf("Load() error = %v, want ErrStatus", err)
	}
}

func TestLoadGarbage(t *testing.T) {
	srv, _ := serve(t, []byte("not an image"), http.StatusOK)
	l := New(WithHTTPClient(srv.Client()))
	if _, err := l.Load(context.Background(), srv.URL); !errors.Is(err, ErrDecode) {
		t.Errorf("Load() error = %v, want ErrDecode", err)
	}
	if l.CacheStats().Len != 0 {
		t.Error("failed load was cached")
	}
}

func TestLoadCanceled(t *testing.T) {
	srv, _ := serve(t, encodePNG(t, 4, 4), http.StatusOK)
	l := New(WithHTTPClient(srv.Client()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Load(ctx, srv.URL); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoadUnsupportedScheme(t *testing.T) {
	l := New()
	if _, err := l.Load(context.Background(), "ftp://example.com/a.png"); !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("Load() error = %v, want ErrUnsupportedScheme", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	if err := os.WriteFile(path, encodePNG(t, 8, 16), 0o600); err != nil {
		t.Fatal(err)
	}
	l := New(WithCacheCapacity(0))
	for _, src := range []string{path, "file://" + path} {
		img, err := l.Load(context.Background(), src)
		if err != nil {
			t.Fatalf("Load(%q) error: %v", src, err)
		}
		if img.Width() != 8 || img.Height() != 16 {
			t.Errorf("Load(%q) size = %dx%d, want 8x16", src, img.Width(), img.Height())
		}
	}
	if _, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "nope.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestDecodeDownsamples(t *testing.T) {
	l := New(WithMaxDimension(50))
	img, err := l.Decode(bytes.NewReader(encodePNG(t, 200, 100)))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if img.Width() != 50 || img.Height() != 25 {
		t.Errorf("size = %dx%d, want 50x25", img.Width(), img.Height())
	}
}
