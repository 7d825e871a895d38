package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/12357-314/gentoo-rdep-analyzer/pkg/cache"
)

func TestCacheClearCmd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	key := cache.MetadataKey("cat/pkg-1.0", []string{"RDEPEND"})
	if err := c.Set(ctx, key, []byte("dep"), time.Hour); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Cache.Dir = dir

	cmd := newCacheClearCmd()
	cmd.SetContext(withConfig(ctx, cfg))
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := c.Get(ctx, key); err != nil || ok {
		t.Errorf("Get() = %v, %v; entry should be gone after clear", ok, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir holds %d entries after clear, want 0", len(entries))
	}
}

func TestCacheClearCmdMissingDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "never-created")

	cmd := newCacheClearCmd()
	cmd.SetContext(withConfig(context.Background(), cfg))
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Errorf("RunE() = %v, want nil for a missing cache directory", err)
	}
}
