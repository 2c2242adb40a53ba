package blob_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yeisme/resultvault/pkg/internal/storage/blob"
)

// TestFSStoreRoundTrip 测试本地后端写入后按定位符读回的字节与写入一致.
func TestFSStoreRoundTrip(t *testing.T) {
	store, err := blob.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("create fs store: %v", err)
	}

	ctx := context.Background()
	content := []byte("col_a,col_b\n1,2\n")

	uri, err := store.Put(ctx, "alice@example.com/01ABC/data.csv", content, "text/csv")
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	if !filepath.IsAbs(uri) {
		t.Errorf("expected absolute path uri, got %q", uri)
	}

	got, err := store.Get(ctx, uri)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if !bytes.Equal(got, content) {
		t.Errorf("round trip mismatch: got %q want %q", got, content)
	}
}

// TestFSStoreOverwrite 同一 key 的重复写入覆盖旧字节.
func TestFSStoreOverwrite(t *testing.T) {
	store, err := blob.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("create fs store: %v", err)
	}

	ctx := context.Background()

	uri1, err := store.Put(ctx, "u/r/summary.json", []byte(`{"v":1}`), "application/json")
	if err != nil {
		t.Fatalf("first put: %v", err)
	}

	uri2, err := store.Put(ctx, "u/r/summary.json", []byte(`{"v":2}`), "application/json")
	if err != nil {
		t.Fatalf("second put: %v", err)
	}

	if uri1 != uri2 {
		t.Errorf("deterministic location violated: %q vs %q", uri1, uri2)
	}

	got, err := store.Get(ctx, uri2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if string(got) != `{"v":2}` {
		t.Errorf("expected last write to win, got %s", got)
	}
}

// TestFSStoreDelete 删除后文件消失，因此变空的父目录被清理，根目录保留.
func TestFSStoreDelete(t *testing.T) {
	root := t.TempDir()

	store, err := blob.NewFSStore(root)
	if err != nil {
		t.Fatalf("create fs store: %v", err)
	}

	ctx := context.Background()

	uri, err := store.Put(ctx, "bob@example.com/01XYZ/chart.png", []byte{0x89, 0x50}, "image/png")
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := store.Delete(ctx, uri); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := os.Stat(uri); !os.IsNotExist(err) {
		t.Errorf("artifact file still exists after delete")
	}

	if _, err := os.Stat(filepath.Join(root, "bob@example.com")); !os.IsNotExist(err) {
		t.Errorf("empty user dir not pruned")
	}

	if _, err := os.Stat(root); err != nil {
		t.Errorf("storage root must survive pruning: %v", err)
	}

	// 重复删除同一定位符视为成功
	if err := store.Delete(ctx, uri); err != nil {
		t.Errorf("delete of missing blob should succeed, got %v", err)
	}
}

// TestFSStoreEscape 拒绝逃出根目录的 key 与定位符.
func TestFSStoreEscape(t *testing.T) {
	store, err := blob.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("create fs store: %v", err)
	}

	ctx := context.Background()

	if _, err := store.Put(ctx, "../outside/evil.txt", []byte("x"), "text/plain"); err == nil {
		t.Error("expected error for key escaping root")
	}

	if _, err := store.Get(ctx, "/etc/passwd"); err == nil {
		t.Error("expected error for uri outside root")
	}
}
