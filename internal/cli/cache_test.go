package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/pipeline"
)

func TestCacheLocationDefaultsToCacheDir(t *testing.T) {
	c := newTestCLI(t)
	got, err := c.cacheLocation()
	if err != nil {
		t.Fatalf("cacheLocation: %v", err)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	if got != want {
		t.Errorf("cacheLocation() = %q, want %q", got, want)
	}
}

func TestCacheLocationUsesConfiguredURL(t *testing.T) {
	c := newTestCLI(t)
	c.cfg.Cache.URL = "redis://localhost:6379/0"
	got, err := c.cacheLocation()
	if err != nil {
		t.Fatalf("cacheLocation: %v", err)
	}
	if got != c.cfg.Cache.URL {
		t.Errorf("cacheLocation() = %q, want %q", got, c.cfg.Cache.URL)
	}
}

func TestClearCacheRemovesRenderedEntries(t *testing.T) {
	c := newTestCLI(t)
	input := writeDataset(t)
	out := filepath.Join(t.TempDir(), "chart.svg")

	if _, _, err := c.runRender(context.Background(), input, renderOpts{output: out}, pipeline.Options{}); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	n, err := c.clearCache(context.Background())
	if err != nil {
		t.Fatalf("clearCache: %v", err)
	}
	if n != 3 {
		t.Errorf("cleared %d entries, want 3 (steps, layout, artifact)", n)
	}

	n, err = c.clearCache(context.Background())
	if err != nil {
		t.Fatalf("second clearCache: %v", err)
	}
	if n != 0 {
		t.Errorf("second clear removed %d entries, want 0", n)
	}
}

func TestCachePathCommand(t *testing.T) {
	c := newTestCLI(t)
	var out bytes.Buffer
	c.Out = &out

	root := c.RootCommand()
	root.SetArgs([]string{"cache", "path"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out.String()), appName) {
		t.Errorf("cache path output = %q", out.String())
	}
}

func TestNewRunnerScopesKeys(t *testing.T) {
	c := newTestCLI(t)
	c.cfg.Cache.Prefix = "team-a:"

	runner, err := c.newRunner(context.Background(), true)
	if err != nil {
		t.Fatalf("newRunner: %v", err)
	}
	defer runner.Close()

	key := runner.Keyer.StepsKey("abc", cache.StepsKeyOpts{X: "x", Y: "y"})
	if !strings.HasPrefix(key, "team-a:") {
		t.Errorf("key = %q, want team-a: prefix", key)
	}
}

func TestNewRunnerBadCacheURL(t *testing.T) {
	c := newTestCLI(t)
	c.cfg.Cache.URL = "ftp://cache.example"

	_, err := c.newRunner(context.Background(), false)
	if !errors.Is(err, errors.ErrCodeCache) {
		t.Fatalf("err = %v, want CACHE_ERROR", err)
	}
	if !stderrors.Is(err, cache.ErrUnsupportedScheme) {
		t.Errorf("cause lost: %v", err)
	}
}

func TestClearCacheWithCachingDisabled(t *testing.T) {
	c := newTestCLI(t)
	c.cfg.Cache.URL = "none"

	n, err := c.clearCache(context.Background())
	if err != nil || n != 0 {
		t.Errorf("clearCache = %d, %v; want 0, nil", n, err)
	}
}
