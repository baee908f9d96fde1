package settings

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"quotations/go_backend/internal/core/errx"
	logx "quotations/go_backend/pkg/logger"
)

const MaxLogoBytes = 5 << 20

var logoTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

type Store interface {
	// Load returns nil when nothing has been saved yet.
	Load(ctx context.Context) (*Configuration, error)
	Save(ctx context.Context, cfg Configuration) error
}

// Cache is optional; a nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context) (*Configuration, error)
	Set(ctx context.Context, cfg Configuration) error
	Invalidate(ctx context.Context) error
}

type ObjectStorage interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, name string) error
}

type Service struct {
	store   Store
	cache   Cache
	objects ObjectStorage
	now     func() time.Time
}

func NewService(store Store, cache Cache, objects ObjectStorage) *Service {
	return &Service{store: store, cache: cache, objects: objects, now: time.Now}
}

// Get returns the configuration, consulting the cache first. Cache failures
// are logged and fall through to the store.
func (s *Service) Get(ctx context.Context) (*Configuration, error) {
	if s.cache != nil {
		cfg, err := s.cache.Get(ctx)
		if err != nil {
			logx.Warn().Err(err).Msg("settings: cache get failed")
		} else if cfg != nil {
			return cfg, nil
		}
	}

	cfg, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		def := Default()
		cfg = &def
	}
	cfg.Normalize()

	if s.cache != nil {
		if err := s.cache.Set(ctx, *cfg); err != nil {
			logx.Warn().Err(err).Msg("settings: cache set failed")
		}
	}
	return cfg, nil
}

// Update replaces the editable configuration. Branding logo fields are
// managed by SetLogo and are preserved.
func (s *Service) Update(ctx context.Context, in Configuration) (*Configuration, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	in.Normalize()
	in.Branding.LogoURL = current.Branding.LogoURL
	in.Branding.LogoObject = current.Branding.LogoObject
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.UpdatedAt = s.now().UTC()
	if err := s.save(ctx, in); err != nil {
		return nil, err
	}
	return &in, nil
}

// SetLogo stores a new logo image and removes the previous object.
func (s *Service) SetLogo(ctx context.Context, filename, contentType string, data []byte) (*Configuration, error) {
	if len(data) == 0 {
		return nil, errx.Validation("logo", "is required")
	}
	if len(data) > MaxLogoBytes {
		return nil, errx.Validation("logo", "must be at most 5 MB")
	}
	contentType = detectLogoType(filename, contentType, data)
	ext, ok := logoTypes[contentType]
	if !ok {
		return nil, errx.Validation("logo", "must be a png, jpeg, webp or svg image")
	}

	cfg, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	old := cfg.Branding.LogoObject

	objectName := fmt.Sprintf("logo-%s%s", uuid.NewString(), ext)
	url, err := s.objects.Put(ctx, objectName, contentType, data)
	if err != nil {
		return nil, errx.Upstream(err)
	}

	cfg.Branding.LogoURL = url
	cfg.Branding.LogoObject = objectName
	cfg.UpdatedAt = s.now().UTC()
	if err := s.save(ctx, *cfg); err != nil {
		_ = s.objects.Delete(ctx, objectName)
		return nil, err
	}

	if old != "" && old != objectName {
		if err := s.objects.Delete(ctx, old); err != nil {
			logx.Warn().Err(err).Str("object", old).Msg("settings: old logo delete failed")
		}
	}
	return cfg, nil
}

func (s *Service) RemoveLogo(ctx context.Context) (*Configuration, error) {
	cfg, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	old := cfg.Branding.LogoObject
	cfg.Branding.LogoURL = ""
	cfg.Branding.LogoObject = ""
	cfg.UpdatedAt = s.now().UTC()
	if err := s.save(ctx, *cfg); err != nil {
		return nil, err
	}
	if old != "" {
		if err := s.objects.Delete(ctx, old); err != nil {
			logx.Warn().Err(err).Str("object", old).Msg("settings: logo delete failed")
		}
	}
	return cfg, nil
}

func (s *Service) save(ctx context.Context, cfg Configuration) error {
	if err := s.store.Save(ctx, cfg); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			logx.Warn().Err(err).Msg("settings: cache invalidate failed")
		}
	}
	return nil
}

// detectLogoType returns the logo's media type, or "" when the bytes do not
// match what the upload claims to be.
func detectLogoType(filename, contentType string, data []byte) string {
	claimed, _, err := mime.ParseMediaType(contentType)
	if err != nil || claimed == "application/octet-stream" {
		claimed, _, _ = mime.ParseMediaType(mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))))
	}
	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(data))

	if claimed == "image/svg+xml" || (claimed == "" && (sniffed == "text/xml" || sniffed == "text/plain")) {
		if isSafeSVG(data) {
			return "image/svg+xml"
		}
		return ""
	}
	if claimed != "" && claimed != sniffed {
		return ""
	}
	return sniffed
}

// isSafeSVG requires an <svg> root and refuses scripts, event handlers
// and javascript: links anywhere in the document.
func isSafeSVG(data []byte) bool {
	dec := xml.NewDecoder(bytes.NewReader(data))
	root := true
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return !root
		}
		if err != nil {
			return false
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		name := strings.ToLower(el.Name.Local)
		if root && name != "svg" {
			return false
		}
		root = false
		if name == "script" || name == "foreignobject" {
			return false
		}
		for _, a := range el.Attr {
			attr := strings.ToLower(a.Name.Local)
			if strings.HasPrefix(attr, "on") {
				return false
			}
			if strings.Contains(strings.ToLower(strings.TrimSpace(a.Value)), "javascript:") {
				return false
			}
		}
	}
}
