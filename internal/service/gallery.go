package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mdoering/marquee/internal/domain"
)

// ThumbnailPrefix is the logical prefix profile images are listed under.
const ThumbnailPrefix = "thumbnail"

// Poll schedule for reconciling the gallery after an upload. Server-side
// processing (resizing into the thumbnail prefix) is asynchronous, so the
// new object appears in listings only after a delay.
const (
	uploadPollInitialDelay = 1500 * time.Millisecond
	uploadPollMaxAttempts  = 5
)

// allowedImageTypes is the client-side upload allow-list. Anything else
// is rejected before a single byte goes over the wire.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// SleepFunc waits for the given duration or until the context is done.
// Injected so the backoff schedule is testable without real timers.
type SleepFunc func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GalleryService manages the profile image gallery: the deduplicated
// thumbnail listing, a key→local-path cache of downloaded images, and
// the upload flow with its processing poll. The path cache is append-only
// for the session's lifetime: once a key resolves it is never re-fetched.
type GalleryService struct {
	repo     domain.ImageRepository
	logger   *slog.Logger
	cacheDir string
	sleep    SleepFunc

	pollMu sync.Mutex // One processing poll at a time

	mu         sync.RWMutex
	thumbnails []domain.ImageObject // Ascending by LastModified, unique keys
	urls       map[string]string    // ImageKey → local file path
}

// NewGalleryService creates a new gallery service. Downloaded images are
// written under cacheDir.
func NewGalleryService(repo domain.ImageRepository, cacheDir string, logger *slog.Logger) *GalleryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GalleryService{
		repo:     repo,
		logger:   logger,
		cacheDir: cacheDir,
		sleep:    defaultSleep,
		urls:     make(map[string]string),
	}
}

// SetSleep replaces the wait primitive. Tests inject a recording stub.
func (s *GalleryService) SetSleep(sleep SleepFunc) {
	s.sleep = sleep
}

// Thumbnails returns the current listing, oldest first.
func (s *GalleryService) Thumbnails() []domain.ImageObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.thumbnails
}

// URL returns the local path for a downloaded image key.
func (s *GalleryService) URL(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	path, ok := s.urls[key]
	return path, ok
}

// LoadThumbnails fetches the thumbnail listing, drops folder
// placeholders, deduplicates keys and sorts ascending by LastModified.
// On failure the listing is left empty.
func (s *GalleryService) LoadThumbnails(ctx context.Context) error {
	objects, err := s.repo.ListImages(ctx, ThumbnailPrefix)
	if err != nil {
		s.logger.Error("failed to list thumbnails", "error", err)
		s.mu.Lock()
		s.thumbnails = nil
		s.mu.Unlock()
		return err
	}

	cleaned := cleanListing(objects)
	sort.Slice(cleaned, func(i, j int) bool {
		return cleaned[i].LastModified.Before(cleaned[j].LastModified)
	})

	// Keep first occurrence only; the listing must never hold a key twice
	seen := make(map[string]bool, len(cleaned))
	unique := cleaned[:0]
	for _, obj := range cleaned {
		if seen[obj.Key] {
			continue
		}
		seen[obj.Key] = true
		unique = append(unique, obj)
	}

	s.mu.Lock()
	s.thumbnails = unique
	s.mu.Unlock()

	s.logger.Debug("thumbnails loaded", "count", len(unique))
	return nil
}

// LoadImages downloads every listed thumbnail whose key has no cached
// path yet. Cache hits are skipped outright: no re-fetch, no freshness
// check.
func (s *GalleryService) LoadImages(ctx context.Context) error {
	s.mu.RLock()
	var missing []string
	for _, obj := range s.thumbnails {
		if _, ok := s.urls[obj.Key]; !ok {
			missing = append(missing, obj.Key)
		}
	}
	s.mu.RUnlock()

	for _, key := range missing {
		if _, err := s.resolveURL(ctx, key); err != nil {
			s.logger.Error("failed to load image", "key", key, "error", err)
			return err
		}
	}

	return nil
}

// Upload validates the file's declared content type, uploads it and then
// polls the listing until the processed image becomes visible.
func (s *GalleryService) Upload(ctx context.Context, filename, contentType string, data []byte) error {
	if !allowedImageTypes[contentType] {
		s.logger.Warn("upload rejected", "filename", filename, "contentType", contentType)
		return &domain.UnsupportedImageError{ContentType: contentType}
	}

	if err := s.repo.UploadImage(ctx, filename, data); err != nil {
		return err
	}

	return s.awaitProcessed(ctx)
}

// awaitProcessed polls the thumbnail listing until an unseen key shows up
// as the newest entry, backing off exponentially between attempts. The
// poll mutex keeps a second upload from racing an in-flight chain.
func (s *GalleryService) awaitProcessed(ctx context.Context) error {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	delay := uploadPollInitialDelay

	for attempt := 1; attempt <= uploadPollMaxAttempts; attempt++ {
		if err := s.sleep(ctx, delay); err != nil {
			return err
		}
		delay *= 2

		objects, err := s.repo.ListImages(ctx, ThumbnailPrefix)
		if err != nil {
			s.logger.Warn("processing poll failed", "attempt", attempt, "error", err)
			continue
		}

		cleaned := cleanListing(objects)
		if len(cleaned) == 0 {
			continue
		}

		// Newest first: the freshly processed image should top the list
		sort.Slice(cleaned, func(i, j int) bool {
			return cleaned[i].LastModified.After(cleaned[j].LastModified)
		})
		newest := cleaned[0]

		if s.knownKey(newest.Key) {
			s.logger.Debug("processed image not visible yet", "attempt", attempt, "newest", newest.Key)
			continue
		}

		s.appendThumbnail(newest)
		if _, err := s.resolveURL(ctx, newest.Key); err != nil {
			s.logger.Warn("failed to fetch processed image", "key", newest.Key, "error", err)
		}

		s.logger.Info("uploaded image visible", "key", newest.Key, "attempt", attempt)
		return nil
	}

	s.logger.Error("processing poll exhausted", "attempts", uploadPollMaxAttempts)
	return domain.ErrRetryExhausted
}

func (s *GalleryService) knownKey(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, obj := range s.thumbnails {
		if obj.Key == key {
			return true
		}
	}
	return false
}

// appendThumbnail adds the object unless its key is already present.
func (s *GalleryService) appendThumbnail(obj domain.ImageObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.thumbnails {
		if existing.Key == obj.Key {
			return
		}
	}
	s.thumbnails = append(s.thumbnails, obj)
}

// resolveURL downloads the image once and caches its local path.
func (s *GalleryService) resolveURL(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	if path, ok := s.urls[key]; ok {
		s.mu.RUnlock()
		return path, nil
	}
	s.mu.RUnlock()

	data, _, err := s.repo.GetImage(ctx, key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create image cache directory: %w", err)
	}

	path := filepath.Join(s.cacheDir, safeFilename(key))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	s.mu.Lock()
	s.urls[key] = path
	s.mu.Unlock()

	s.logger.Debug("image cached", "key", key, "path", path)
	return path, nil
}

// cleanListing drops folder placeholders.
func cleanListing(objects []domain.ImageObject) []domain.ImageObject {
	cleaned := make([]domain.ImageObject, 0, len(objects))
	for _, obj := range objects {
		if obj.IsPlaceholder() {
			continue
		}
		cleaned = append(cleaned, obj)
	}
	return cleaned
}

// safeFilename flattens an object key into a single cache file name.
func safeFilename(key string) string {
	return strings.ReplaceAll(key, "/", "_")
}
