package posters

import (
	"strings"
	"time"

	"media-tracker-go/cache"
	"media-tracker-go/logcolors"
	"media-tracker-go/services/storage"

	log "github.com/sirupsen/logrus"
)

// DefaultImage returns the bundled placeholder for a media type.
func DefaultImage(mediaType string) string {
	switch mediaType {
	case "movie", "series", "game", "music":
		return "/defaults/default-" + mediaType + ".jpg"
	default:
		return "/defaults/default-generic.jpg"
	}
}

// Composer builds a full image URL from a bare catalog poster path.
type Composer interface {
	PosterURL(path string) string
}

// Signer mints time-limited URLs for stored posters.
type Signer interface {
	SignedURL(path string, ttl time.Duration) (string, time.Time)
}

// Resolver turns whatever is in an item's image_url field into a URL a
// client can load. Resolution is total: every input maps to some URL.
type Resolver struct {
	composer Composer
	signer   Signer
	urlCache *cache.PosterURLCache
	ttl      time.Duration
}

func NewResolver(composer Composer, signer Signer, urlCache *cache.PosterURLCache, ttl time.Duration) *Resolver {
	return &Resolver{
		composer: composer,
		signer:   signer,
		urlCache: urlCache,
		ttl:      ttl,
	}
}

// Resolve maps a poster reference to a servable URL:
//   - full http(s) URLs pass through unchanged
//   - storage references get a signed URL, cached until near expiry
//   - bare catalog paths are composed against the image base URL
//   - empty references fall back to the media type default
func (r *Resolver) Resolve(ref, mediaType string) string {
	if ref == "" {
		return DefaultImage(mediaType)
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	if path, ok := storage.StripPrefix(ref); ok {
		if r.signer == nil {
			return DefaultImage(mediaType)
		}
		if url, ok := r.urlCache.Get(path); ok {
			return url
		}
		url, expiresAt := r.signer.SignedURL(path, r.ttl)
		r.urlCache.Put(path, url, expiresAt)
		log.Debugf("%s Signed poster URL for %s", logcolors.LogCachePosterURL, path)
		return url
	}

	if r.composer != nil {
		if url := r.composer.PosterURL(ref); url != "" {
			return url
		}
	}
	return DefaultImage(mediaType)
}
