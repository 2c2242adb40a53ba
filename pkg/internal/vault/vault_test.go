package vault_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/resultvault/pkg/internal/model"
	"github.com/yeisme/resultvault/pkg/internal/storage/blob"
	"github.com/yeisme/resultvault/pkg/internal/vault"
)

// testClock 可拨动的时间源，驱动 created_at 与保留策略的 now.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

// newTestVault 在临时目录上组装 sqlite 目录库与本地 blob 后端.
func newTestVault(t *testing.T, policy vault.Policy, opts ...vault.Option) *vault.Vault {
	t.Helper()

	dir := t.TempDir()
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)", filepath.Join(dir, "catalog.db"))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}

	if err := db.AutoMigrate(model.Models()...); err != nil {
		t.Fatalf("migrate catalog: %v", err)
	}

	store, err := blob.NewFSStore(filepath.Join(dir, "blobs"))
	if err != nil {
		t.Fatalf("create blob store: %v", err)
	}

	v, err := vault.New(db, store, policy, opts...)
	if err != nil {
		t.Fatalf("create vault: %v", err)
	}

	return v
}

func TestStartResult(t *testing.T) {
	v := newTestVault(t, vault.Policy{})
	ctx := context.Background()

	id, err := v.StartResult(ctx, "alice@example.com", map[string]any{"source": "statement.csv"})
	if err != nil {
		t.Fatalf("start result: %v", err)
	}

	if len(id) != 26 {
		t.Errorf("expected 26 char ulid, got %q", id)
	}

	res, err := v.GetResult(ctx, "alice@example.com", id)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}

	if res.UserID != "alice@example.com" {
		t.Errorf("user mismatch: %q", res.UserID)
	}

	var meta map[string]any
	if err := sonic.UnmarshalString(res.MetadataJSON, &meta); err != nil {
		t.Fatalf("metadata not valid json: %v", err)
	}

	if meta["source"] != "statement.csv" {
		t.Errorf("metadata round trip failed: %v", meta)
	}

	if res.SummaryJSON != nil {
		t.Errorf("summary must be absent before finalize")
	}

	// 非属主读取视同不存在
	if _, err := v.GetResult(ctx, "bob@example.com", id); !errors.Is(err, vault.ErrResultNotFound) {
		t.Errorf("expected ErrResultNotFound for foreign user, got %v", err)
	}

	if _, err := v.StartResult(ctx, "", nil); err == nil {
		t.Error("expected error for empty user id")
	}
}

// TestStartResultConcurrent 多个用户的请求并发创建结果时 result_id
// 仍然全局唯一：所有调用共享同一个单调熵源.
func TestStartResultConcurrent(t *testing.T) {
	v := newTestVault(t, vault.Policy{})
	ctx := context.Background()

	const (
		workers   = 8
		perWorker = 50
	)

	var (
		mu  sync.Mutex
		ids = make(map[string]struct{}, workers*perWorker)
		wg  sync.WaitGroup
	)

	for w := range workers {
		wg.Add(1)

		go func(w int) {
			defer wg.Done()

			user := fmt.Sprintf("user%d@example.com", w)

			for range perWorker {
				id, err := v.StartResult(ctx, user, nil)
				if err != nil {
					t.Errorf("start result for %s: %v", user, err)
					return
				}

				mu.Lock()
				ids[id] = struct{}{}
				mu.Unlock()
			}
		}(w)
	}

	wg.Wait()

	if len(ids) != workers*perWorker {
		t.Errorf("expected %d unique result ids, got %d", workers*perWorker, len(ids))
	}
}

// TestSaveArtifactRoundTrip 写入的字节按返回的定位符读回必须逐字节一致，
// 目录记录的 size 等于写入长度.
func TestSaveArtifactRoundTrip(t *testing.T) {
	v := newTestVault(t, vault.Policy{})
	ctx := context.Background()

	id, err := v.StartResult(ctx, "alice@example.com", nil)
	if err != nil {
		t.Fatalf("start result: %v", err)
	}

	content := []byte("month,total\n2026-01,123.45\n")

	uri, err := v.SaveArtifact(ctx, "alice@example.com", id, "report.csv", content, "text/csv",
		map[string]any{"rows": 1})
	if err != nil {
		t.Fatalf("save artifact: %v", err)
	}

	got, err := v.ReadArtifact(ctx, uri)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}

	if !bytes.Equal(got, content) {
		t.Errorf("round trip mismatch: got %q want %q", got, content)
	}

	art, err := v.GetArtifact(ctx, id, "report.csv")
	if err != nil {
		t.Fatalf("get artifact: %v", err)
	}

	if art.Size != int64(len(content)) {
		t.Errorf("catalog size %d != written length %d", art.Size, len(content))
	}

	if art.ContentType != "text/csv" {
		t.Errorf("content type mismatch: %q", art.ContentType)
	}

	if art.URI != uri {
		t.Errorf("catalog uri %q != returned uri %q", art.URI, uri)
	}
}

func TestSaveArtifactUnknownResult(t *testing.T) {
	v := newTestVault(t, vault.Policy{})
	ctx := context.Background()

	_, err := v.SaveArtifact(ctx, "alice@example.com", "01NOPE", "x.bin", []byte{1}, "application/octet-stream", nil)
	if !errors.Is(err, vault.ErrResultNotFound) {
		t.Fatalf("expected ErrResultNotFound, got %v", err)
	}

	// 失败的写入不得留下目录行
	arts, err := v.ListArtifacts(ctx, "01NOPE")
	if err != nil {
		t.Fatalf("list artifacts: %v", err)
	}

	if len(arts) != 0 {
		t.Errorf("expected no artifact rows, got %d", len(arts))
	}
}

func TestSaveArtifactBadName(t *testing.T) {
	v := newTestVault(t, vault.Policy{})
	ctx := context.Background()

	id, err := v.StartResult(ctx, "alice@example.com", nil)
	if err != nil {
		t.Fatalf("start result: %v", err)
	}

	for _, name := range []string{"", ".", "..", "a/b.txt", `a\b.txt`} {
		if _, err := v.SaveArtifact(ctx, "alice@example.com", id, name, []byte{1}, "text/plain", nil); !errors.Is(err, vault.ErrInvalidArtifactName) {
			t.Errorf("name %q: expected ErrInvalidArtifactName, got %v", name, err)
		}
	}
}

// TestSaveArtifactAppendOnly 同名重复写入覆盖后端字节但追加目录行：
// 按名读取返回最新一行，用量口径按全部行累计.
func TestSaveArtifactAppendOnly(t *testing.T) {
	v := newTestVault(t, vault.Policy{})
	ctx := context.Background()

	id, err := v.StartResult(ctx, "alice@example.com", nil)
	if err != nil {
		t.Fatalf("start result: %v", err)
	}

	if _, err := v.SaveArtifact(ctx, "alice@example.com", id, "data.json", []byte(`{"v":1}`), "application/json", nil); err != nil {
		t.Fatalf("first save: %v", err)
	}

	uri, err := v.SaveArtifact(ctx, "alice@example.com", id, "data.json", []byte(`{"v":22}`), "application/json", nil)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := v.ReadArtifact(ctx, uri)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}

	if string(got) != `{"v":22}` {
		t.Errorf("expected last write to win on the backend, got %s", got)
	}

	arts, err := v.ListArtifacts(ctx, id)
	if err != nil {
		t.Fatalf("list artifacts: %v", err)
	}

	if len(arts) != 1 {
		t.Fatalf("listing must collapse to latest row per name, got %d rows", len(arts))
	}

	if arts[0].Size != int64(len(`{"v":22}`)) {
		t.Errorf("listing returned stale row: size %d", arts[0].Size)
	}

	usage, err := v.Usage(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}

	wantBytes := int64(len(`{"v":1}`) + len(`{"v":22}`))
	if usage.Bytes != wantBytes {
		t.Errorf("append-only usage: got %d bytes want %d", usage.Bytes, wantBytes)
	}

	if usage.Results != 1 {
		t.Errorf("usage results: got %d want 1", usage.Results)
	}
}

func TestSaveJSON(t *testing.T) {
	v := newTestVault(t, vault.Policy{})
	ctx := context.Background()

	id, err := v.StartResult(ctx, "alice@example.com", nil)
	if err != nil {
		t.Fatalf("start result: %v", err)
	}

	doc := map[string]any{"charts": []string{"monthly.png", "category.png"}}

	uri, err := v.SaveJSON(ctx, "alice@example.com", id, "manifest.json", doc, nil)
	if err != nil {
		t.Fatalf("save json: %v", err)
	}

	raw, err := v.ReadArtifact(ctx, uri)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}

	var back map[string]any
	if err := sonic.Unmarshal(raw, &back); err != nil {
		t.Fatalf("stored artifact not valid json: %v", err)
	}

	art, err := v.GetArtifact(ctx, id, "manifest.json")
	if err != nil {
		t.Fatalf("get artifact: %v", err)
	}

	if art.ContentType != "application/json" {
		t.Errorf("expected application/json, got %q", art.ContentType)
	}
}

func TestFinalizeResult(t *testing.T) {
	v := newTestVault(t, vault.Policy{})
	ctx := context.Background()

	id, err := v.StartResult(ctx, "alice@example.com", nil)
	if err != nil {
		t.Fatalf("start result: %v", err)
	}

	// 空摘要是显式跳过，不落库
	if err := v.FinalizeResult(ctx, id, nil); err != nil {
		t.Fatalf("finalize with empty summary: %v", err)
	}

	res, err := v.GetResult(ctx, "alice@example.com", id)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}

	if res.SummaryJSON != nil {
		t.Error("empty summary must not be persisted")
	}

	if err := v.FinalizeResult(ctx, id, map[string]any{"total": 42}); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	res, err = v.GetResult(ctx, "alice@example.com", id)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}

	if res.SummaryJSON == nil {
		t.Fatal("summary missing after finalize")
	}

	var summary map[string]any
	if err := sonic.UnmarshalString(*res.SummaryJSON, &summary); err != nil {
		t.Fatalf("summary not valid json: %v", err)
	}

	// 不存在的结果必须报错而不是静默无效更新
	if err := v.FinalizeResult(ctx, "01NOPE", map[string]any{"x": 1}); !errors.Is(err, vault.ErrResultNotFound) {
		t.Errorf("expected ErrResultNotFound, got %v", err)
	}
}

// TestDeleteResultCascade 删除结果必须带走全部制品行与后端字节，
// 之后的制品列表为空.
func TestDeleteResultCascade(t *testing.T) {
	v := newTestVault(t, vault.Policy{})
	ctx := context.Background()

	id, err := v.StartResult(ctx, "alice@example.com", nil)
	if err != nil {
		t.Fatalf("start result: %v", err)
	}

	uri1, err := v.SaveArtifact(ctx, "alice@example.com", id, "chart.png", []byte{0x89, 0x50, 0x4e}, "image/png", nil)
	if err != nil {
		t.Fatalf("save artifact: %v", err)
	}

	uri2, err := v.SaveJSON(ctx, "alice@example.com", id, "summary.json", map[string]any{"n": 3}, nil)
	if err != nil {
		t.Fatalf("save json: %v", err)
	}

	freed, err := v.DeleteResult(ctx, "alice@example.com", id)
	if err != nil {
		t.Fatalf("delete result: %v", err)
	}

	if want := int64(3 + len(`{"n":3}`)); freed != want {
		t.Errorf("freed = %d, want %d", freed, want)
	}

	if _, err := v.GetResult(ctx, "alice@example.com", id); !errors.Is(err, vault.ErrResultNotFound) {
		t.Errorf("result still visible after delete: %v", err)
	}

	arts, err := v.ListArtifacts(ctx, id)
	if err != nil {
		t.Fatalf("list artifacts: %v", err)
	}

	if len(arts) != 0 {
		t.Errorf("artifact rows survived the delete: %d", len(arts))
	}

	for _, uri := range []string{uri1, uri2} {
		if _, err := v.ReadArtifact(ctx, uri); err == nil {
			t.Errorf("blob %s survived the delete", uri)
		}
	}

	// 删除不存在的结果返回引用错误
	if _, err := v.DeleteResult(ctx, "alice@example.com", id); !errors.Is(err, vault.ErrResultNotFound) {
		t.Errorf("expected ErrResultNotFound, got %v", err)
	}
}

func TestListResults(t *testing.T) {
	clk := &testClock{now: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	v := newTestVault(t, vault.Policy{}, vault.WithClock(clk.Now))
	ctx := context.Background()

	ids := make([]string, 0, 3)

	for i := range 3 {
		clk.now = clk.now.Add(time.Hour)

		id, err := v.StartResult(ctx, "alice@example.com", map[string]any{"run": i})
		if err != nil {
			t.Fatalf("start result %d: %v", i, err)
		}

		ids = append(ids, id)
	}

	got, err := v.ListResults(ctx, "alice@example.com", 2)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("limit not applied: got %d results", len(got))
	}

	if got[0].ResultID != ids[2] || got[1].ResultID != ids[1] {
		t.Errorf("expected newest first [%s %s], got [%s %s]", ids[2], ids[1], got[0].ResultID, got[1].ResultID)
	}

	all, err := v.ListResults(ctx, "alice@example.com", 0)
	if err != nil {
		t.Fatalf("list all results: %v", err)
	}

	if len(all) != 3 {
		t.Errorf("expected 3 results without limit, got %d", len(all))
	}

	none, err := v.ListResults(ctx, "nobody@example.com", 0)
	if err != nil {
		t.Fatalf("list for unknown user: %v", err)
	}

	if len(none) != 0 {
		t.Errorf("expected empty list for unknown user, got %d", len(none))
	}
}

func BenchmarkSaveArtifact(b *testing.B) {
	dir := b.TempDir()
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", filepath.Join(dir, "catalog.db"))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		b.Fatalf("open catalog: %v", err)
	}

	if err := db.AutoMigrate(model.Models()...); err != nil {
		b.Fatalf("migrate catalog: %v", err)
	}

	store, err := blob.NewFSStore(filepath.Join(dir, "blobs"))
	if err != nil {
		b.Fatalf("create blob store: %v", err)
	}

	v, err := vault.New(db, store, vault.Policy{})
	if err != nil {
		b.Fatalf("create vault: %v", err)
	}

	ctx := context.Background()

	id, err := v.StartResult(ctx, "bench@example.com", nil)
	if err != nil {
		b.Fatalf("start result: %v", err)
	}

	content := bytes.Repeat([]byte("x"), 4096)

	for b.Loop() {
		if _, err := v.SaveArtifact(ctx, "bench@example.com", id, "bench.bin", content, "application/octet-stream", nil); err != nil {
			b.Fatalf("save artifact: %v", err)
		}
	}
}
