package posters

import (
	"strings"
	"testing"
	"time"

	"media-tracker-go/cache"
	"media-tracker-go/services/storage"
)

type stubComposer struct{}

func (stubComposer) PosterURL(path string) string {
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "https://image.example.com/w500" + path
}

type stubSigner struct {
	calls int
}

func (s *stubSigner) SignedURL(path string, ttl time.Duration) (string, time.Time) {
	s.calls++
	return "/posters/file/" + path + "?exp=1&sig=abc", time.Now().Add(ttl)
}

func newTestResolver(signer *stubSigner) *Resolver {
	return NewResolver(stubComposer{}, signer, cache.NewPosterURLCache(time.Minute), time.Hour)
}

func TestDefaultImage(t *testing.T) {
	tests := []struct {
		mediaType string
		expected  string
	}{
		{"movie", "/defaults/default-movie.jpg"},
		{"series", "/defaults/default-series.jpg"},
		{"game", "/defaults/default-game.jpg"},
		{"music", "/defaults/default-music.jpg"},
		{"podcast", "/defaults/default-generic.jpg"},
		{"", "/defaults/default-generic.jpg"},
	}

	for _, tt := range tests {
		if got := DefaultImage(tt.mediaType); got != tt.expected {
			t.Errorf("DefaultImage(%q) = %q, want %q", tt.mediaType, got, tt.expected)
		}
	}
}

func TestResolve_FullURLPassthrough(t *testing.T) {
	r := newTestResolver(&stubSigner{})

	for _, ref := range []string{
		"https://example.com/poster.jpg",
		"http://example.com/poster.jpg",
	} {
		if got := r.Resolve(ref, "movie"); got != ref {
			t.Errorf("Expected %q to pass through, got %q", ref, got)
		}
	}
}

func TestResolve_StorageReferenceSigned(t *testing.T) {
	signer := &stubSigner{}
	r := newTestResolver(signer)

	got := r.Resolve(storage.PathPrefix+"user-1/poster.jpg", "movie")
	if !strings.HasPrefix(got, "/posters/file/user-1/poster.jpg") {
		t.Errorf("Expected a signed URL, got %q", got)
	}
	if signer.calls != 1 {
		t.Errorf("Expected one signing call, got %d", signer.calls)
	}
}

func TestResolve_StorageReferenceCached(t *testing.T) {
	signer := &stubSigner{}
	r := newTestResolver(signer)

	first := r.Resolve(storage.PathPrefix+"user-1/poster.jpg", "movie")
	second := r.Resolve(storage.PathPrefix+"user-1/poster.jpg", "movie")

	if first != second {
		t.Error("Expected cached URL on second resolution")
	}
	if signer.calls != 1 {
		t.Errorf("Expected signing once, got %d calls", signer.calls)
	}
}

func TestResolve_BarePathComposed(t *testing.T) {
	r := newTestResolver(&stubSigner{})

	if got := r.Resolve("/abc123.jpg", "movie"); got != "https://image.example.com/w500/abc123.jpg" {
		t.Errorf("Expected composed URL, got %q", got)
	}
}

func TestResolve_EmptyFallsBack(t *testing.T) {
	r := newTestResolver(&stubSigner{})

	if got := r.Resolve("", "game"); got != "/defaults/default-game.jpg" {
		t.Errorf("Expected default image, got %q", got)
	}
}

func TestResolve_NoSignerFallsBack(t *testing.T) {
	r := NewResolver(stubComposer{}, nil, cache.NewPosterURLCache(time.Minute), time.Hour)

	got := r.Resolve(storage.PathPrefix+"user-1/poster.jpg", "music")
	if got != "/defaults/default-music.jpg" {
		t.Errorf("Expected default without a signer, got %q", got)
	}
}

// Resolution is total: every combination of reference shape and media
// type yields a non-empty URL.
func TestResolve_Total(t *testing.T) {
	r := newTestResolver(&stubSigner{})

	refs := []string{
		"",
		"https://example.com/p.jpg",
		"/bare-path.jpg",
		"bare-path.jpg",
		storage.PathPrefix + "u/p.jpg",
	}
	types := []string{"movie", "series", "game", "music", "unknown", ""}

	for _, ref := range refs {
		for _, mediaType := range types {
			if got := r.Resolve(ref, mediaType); got == "" {
				t.Errorf("Resolve(%q, %q) returned empty URL", ref, mediaType)
			}
		}
	}
}
