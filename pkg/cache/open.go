package cache

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Open returns the cache backend named by rawURL.
//
// Supported forms:
//
//	""  "none"  "null://"          caching disabled
//	"memory://"                    in-process map
//	"file:///path/to/dir"          directory of JSON files
//	"redis://host:6379/0"          Redis (also "rediss://")
//	"mongodb://host:27017/db"      MongoDB (also "mongodb+srv://")
func Open(ctx context.Context, rawURL string) (Cache, error) {
	if rawURL == "" || rawURL == "none" {
		return NewNullCache(), nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse cache url: %w", err)
	}

	switch u.Scheme {
	case "null":
		return NewNullCache(), nil
	case "memory", "mem":
		return NewMemoryCache(), nil
	case "file":
		dir := u.Path
		if u.Host != "" {
			// file://relative/dir
			dir = u.Host + u.Path
		}
		if dir == "" {
			return nil, fmt.Errorf("file cache url %q has no path", rawURL)
		}
		return NewFileCache(dir)
	case "redis", "rediss", "unix":
		return NewRedisCache(ctx, rawURL)
	case "mongodb", "mongodb+srv":
		return NewMongoCache(ctx, rawURL, strings.TrimPrefix(u.Path, "/"))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}
