package vault_test

import (
	"bytes"
	"context"
	"slices"
	"testing"
	"time"

	"github.com/yeisme/resultvault/pkg/internal/vault"
)

const mb = 1 << 20

// seedResult 在指定时刻创建一个带单制品的结果，返回 result_id 与制品定位符.
func seedResult(t *testing.T, v *vault.Vault, clk *testClock, user string, at time.Time, size int) (string, string) {
	t.Helper()

	ctx := context.Background()
	clk.now = at

	id, err := v.StartResult(ctx, user, nil)
	if err != nil {
		t.Fatalf("start result: %v", err)
	}

	uri := ""
	if size > 0 {
		uri, err = v.SaveArtifact(ctx, user, id, "payload.bin", bytes.Repeat([]byte{0xAB}, size), "application/octet-stream", nil)
		if err != nil {
			t.Fatalf("save artifact: %v", err)
		}
	}

	return id, uri
}

// remainingIDs 返回用户当前全部 result_id，新的在前.
func remainingIDs(t *testing.T, v *vault.Vault, user string) []string {
	t.Helper()

	rows, err := v.ListResults(context.Background(), user, 0)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}

	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ResultID)
	}

	return out
}

// TestRetentionCountPolicy 数量策略单独生效时，执行后恰好保留 K 个
// 且是最新的 K 个，删除按最旧优先.
func TestRetentionCountPolicy(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	clk := &testClock{now: base}
	v := newTestVault(t, vault.Policy{MaxResults: 2}, vault.WithClock(clk.Now))
	user := "alice@example.com"

	ids := make([]string, 0, 5)
	for i := range 5 {
		id, _ := seedResult(t, v, clk, user, base.Add(time.Duration(i)*time.Hour), 10)
		ids = append(ids, id)
	}

	clk.now = base.Add(6 * time.Hour)

	report, err := v.EnforceRetention(context.Background(), user)
	if err != nil {
		t.Fatalf("enforce retention: %v", err)
	}

	if report.Examined != 5 {
		t.Errorf("examined: got %d want 5", report.Examined)
	}

	// 删除最旧的三个，升序
	if !slices.Equal(report.Deleted, ids[:3]) {
		t.Errorf("deleted %v, want %v", report.Deleted, ids[:3])
	}

	if report.BytesFreed != 30 {
		t.Errorf("bytes freed: got %d want 30", report.BytesFreed)
	}

	// 每个被删结果单独记账，事件载荷依赖这里的逐结果字节数
	for _, rid := range report.Deleted {
		if report.FreedByResult[rid] != 10 {
			t.Errorf("freed bytes for %s: got %d want 10", rid, report.FreedByResult[rid])
		}
	}

	left := remainingIDs(t, v, user)
	if !slices.Equal(left, []string{ids[4], ids[3]}) {
		t.Errorf("survivors %v, want newest two %v", left, []string{ids[4], ids[3]})
	}
}

// TestRetentionAgePolicy created_at 为 t-10d/t-5d/t-1d、阈值 7 天时，
// 只有 t-10d 被删除.
func TestRetentionAgePolicy(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	clk := &testClock{now: base}
	v := newTestVault(t, vault.Policy{MaxAgeDays: 7}, vault.WithClock(clk.Now))
	user := "alice@example.com"

	old, oldURI := seedResult(t, v, clk, user, base.AddDate(0, 0, -10), 10)
	mid, _ := seedResult(t, v, clk, user, base.AddDate(0, 0, -5), 10)
	fresh, _ := seedResult(t, v, clk, user, base.AddDate(0, 0, -1), 10)

	clk.now = base

	report, err := v.EnforceRetention(context.Background(), user)
	if err != nil {
		t.Fatalf("enforce retention: %v", err)
	}

	if !slices.Equal(report.Deleted, []string{old}) {
		t.Errorf("deleted %v, want only %s", report.Deleted, old)
	}

	left := remainingIDs(t, v, user)
	if !slices.Equal(left, []string{fresh, mid}) {
		t.Errorf("survivors %v, want %v", left, []string{fresh, mid})
	}

	// 被删结果的后端字节必须一并消失
	if _, err := v.ReadArtifact(context.Background(), oldURI); err == nil {
		t.Error("blob of evicted result still readable")
	}
}

// TestRetentionSizeMinimalPrefix 字节策略单独生效时按最旧优先删除，
// 刚好回到预算内即停，绝不多删.
func TestRetentionSizeMinimalPrefix(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	clk := &testClock{now: base}
	v := newTestVault(t, vault.Policy{MaxStorageMB: 1}, vault.WithClock(clk.Now))
	user := "alice@example.com"

	// 三个各 0.75MB，总量 2.25MB，预算 1MB：删最旧两个后剩 0.75MB
	r1, _ := seedResult(t, v, clk, user, base, 768*1024)
	r2, _ := seedResult(t, v, clk, user, base.Add(time.Hour), 768*1024)
	r3, _ := seedResult(t, v, clk, user, base.Add(2*time.Hour), 768*1024)

	clk.now = base.Add(3 * time.Hour)

	report, err := v.EnforceRetention(context.Background(), user)
	if err != nil {
		t.Fatalf("enforce retention: %v", err)
	}

	if !slices.Equal(report.Deleted, []string{r1, r2}) {
		t.Errorf("deleted %v, want minimal oldest prefix [%s %s]", report.Deleted, r1, r2)
	}

	left := remainingIDs(t, v, user)
	if !slices.Equal(left, []string{r3}) {
		t.Errorf("survivors %v, want [%s]", left, r3)
	}

	usage, err := v.Usage(context.Background(), user)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}

	if usage.Bytes > mb {
		t.Errorf("still over budget after enforcement: %d bytes", usage.Bytes)
	}
}

// TestRetentionUnifiedSet 三个阈值合并成一个删除集：年龄命中的字节
// 视为已回收，字节策略只需补删一个而不是重算整个前缀.
func TestRetentionUnifiedSet(t *testing.T) {
	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	clk := &testClock{now: base}
	v := newTestVault(t, vault.Policy{MaxAgeDays: 7, MaxStorageMB: 1}, vault.WithClock(clk.Now))
	user := "alice@example.com"

	// old 同时被年龄与字节策略覆盖；r2 只能被字节策略补删；r3 应存活
	old, _ := seedResult(t, v, clk, user, base.AddDate(0, 0, -30), 768*1024)
	r2, _ := seedResult(t, v, clk, user, base.AddDate(0, 0, -2), 768*1024)
	r3, _ := seedResult(t, v, clk, user, base.AddDate(0, 0, -1), 768*1024)

	clk.now = base

	report, err := v.EnforceRetention(context.Background(), user)
	if err != nil {
		t.Fatalf("enforce retention: %v", err)
	}

	if !slices.Equal(report.Deleted, []string{old, r2}) {
		t.Errorf("deleted %v, want union [%s %s]", report.Deleted, old, r2)
	}

	left := remainingIDs(t, v, user)
	if !slices.Equal(left, []string{r3}) {
		t.Errorf("survivors %v, want [%s]", left, r3)
	}
}

// TestRetentionIdempotent 没有新写入时，第二次执行不再删除任何结果.
func TestRetentionIdempotent(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	clk := &testClock{now: base}
	v := newTestVault(t, vault.Policy{MaxResults: 1}, vault.WithClock(clk.Now))
	user := "alice@example.com"

	seedResult(t, v, clk, user, base, 10)
	keep, _ := seedResult(t, v, clk, user, base.Add(time.Hour), 10)

	clk.now = base.Add(2 * time.Hour)

	first, err := v.EnforceRetention(context.Background(), user)
	if err != nil {
		t.Fatalf("first enforcement: %v", err)
	}

	if len(first.Deleted) != 1 {
		t.Fatalf("first enforcement deleted %d, want 1", len(first.Deleted))
	}

	second, err := v.EnforceRetention(context.Background(), user)
	if err != nil {
		t.Fatalf("second enforcement: %v", err)
	}

	if len(second.Deleted) != 0 || second.BytesFreed != 0 {
		t.Errorf("second enforcement must be a no-op, got %+v", second)
	}

	left := remainingIDs(t, v, user)
	if !slices.Equal(left, []string{keep}) {
		t.Errorf("survivors %v, want [%s]", left, keep)
	}
}

// TestRetentionNoopUnconfigured 未配置任何阈值的用户不受保留执行影响.
func TestRetentionNoopUnconfigured(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	clk := &testClock{now: base}
	v := newTestVault(t, vault.Policy{}, vault.WithClock(clk.Now))
	user := "alice@example.com"

	for i := range 4 {
		seedResult(t, v, clk, user, base.AddDate(0, 0, -30*i), 512*1024)
	}

	clk.now = base.Add(time.Hour)

	report, err := v.EnforceRetention(context.Background(), user)
	if err != nil {
		t.Fatalf("enforce retention: %v", err)
	}

	if report.Examined != 0 || len(report.Deleted) != 0 {
		t.Errorf("unconfigured policy must not touch anything, got %+v", report)
	}

	if got := remainingIDs(t, v, user); len(got) != 4 {
		t.Errorf("expected all 4 results to survive, got %d", len(got))
	}
}

func TestPolicyEnabled(t *testing.T) {
	cases := []struct {
		name   string
		policy vault.Policy
		want   bool
	}{
		{"zero", vault.Policy{}, false},
		{"count", vault.Policy{MaxResults: 3}, true},
		{"age", vault.Policy{MaxAgeDays: 7}, true},
		{"size", vault.Policy{MaxStorageMB: 100}, true},
	}

	for _, tc := range cases {
		if got := tc.policy.Enabled(); got != tc.want {
			t.Errorf("%s: Enabled() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
