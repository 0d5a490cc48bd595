package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
	"howett.net/plist"
)

const iconFileKey = "CFBundleIconFile"

// IconResolver maps a bundle directory to the icon file shown for it.
// The returned path is always usable; a non-nil error only reports why the
// default icon was used.
type IconResolver interface {
	Resolve(bundlePath string) (string, error)
}

// ManifestReader loads a bundle manifest. A missing file must be reported
// with an error wrapping fs.ErrNotExist.
type ManifestReader interface {
	ReadManifest(path string) (map[string]any, error)
}

// ManifestError reports a manifest that exists but could not be read or parsed.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("read manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// PlistManifestReader reads binary or XML property lists from disk.
type PlistManifestReader struct{}

// ReadManifest decodes the plist at path. A root that is not a dictionary
// yields an empty manifest.
func (PlistManifestReader) ReadManifest(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var root any
	if _, err := plist.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	dict, ok := root.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return dict, nil
}

// IconCache resolves bundle icons and remembers successful resolutions for
// the lifetime of the cache. Failures are never cached, so a bundle whose
// manifest is missing is looked up again on its next occurrence.
//
// It is safe for concurrent use; concurrent lookups of one bundle share a
// single manifest read.
type IconCache struct {
	defaultIcon string
	reader      ManifestReader
	metrics     *Metrics

	mu    sync.RWMutex
	icons map[string]string
	group singleflight.Group
}

// NewIconCache creates a cache seeded with the default icon. A nil reader
// reads plists from disk; metrics may be nil.
func NewIconCache(defaultIcon string, reader ManifestReader, metrics *Metrics) *IconCache {
	if reader == nil {
		reader = PlistManifestReader{}
	}
	return &IconCache{
		defaultIcon: defaultIcon,
		reader:      reader,
		metrics:     metrics,
		icons:       map[string]string{"": defaultIcon},
	}
}

// DefaultIcon returns the fallback icon path.
func (c *IconCache) DefaultIcon() string {
	return c.defaultIcon
}

// Resolve returns the icon for bundlePath, falling back to the default icon
// when the bundle has no usable manifest entry.
func (c *IconCache) Resolve(bundlePath string) (string, error) {
	if bundlePath == "" {
		return c.defaultIcon, nil
	}
	if icon, ok := c.lookup(bundlePath); ok {
		c.metrics.recordCacheHit()
		return icon, nil
	}

	v, err, _ := c.group.Do(bundlePath, func() (any, error) {
		if icon, ok := c.lookup(bundlePath); ok {
			return icon, nil
		}
		return c.load(bundlePath)
	})
	if err != nil {
		return c.defaultIcon, err
	}
	return v.(string), nil
}

// Len returns the number of cached entries, including the default seed.
func (c *IconCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.icons)
}

func (c *IconCache) lookup(bundlePath string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	icon, ok := c.icons[bundlePath]
	return icon, ok
}

func (c *IconCache) load(bundlePath string) (string, error) {
	manifestPath := bundlePath + "/Contents/Info.plist"

	manifest, err := c.reader.ReadManifest(manifestPath)
	missing := errors.Is(err, fs.ErrNotExist)
	c.metrics.recordManifestRead(err != nil && !missing)
	if missing {
		return c.defaultIcon, nil
	}
	if err != nil {
		return c.defaultIcon, &ManifestError{Path: manifestPath, Err: err}
	}

	name, ok := manifest[iconFileKey].(string)
	if !ok {
		return c.defaultIcon, nil
	}

	// CFBundleIconFile may or may not carry the extension
	icon := bundlePath + "/Contents/Resources/" + strings.TrimSuffix(name, ".icns") + ".icns"

	c.mu.Lock()
	c.icons[bundlePath] = icon
	c.mu.Unlock()
	return icon, nil
}
