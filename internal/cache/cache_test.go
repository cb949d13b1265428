package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/n0roo/saju-kit/internal/db"
	"github.com/n0roo/saju-kit/internal/manse"
	"github.com/n0roo/saju-kit/internal/pillars"
)

func setupCache(t *testing.T, chartTTL, sourceTTL time.Duration) *Cache {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "saju-cache-test-*")
	if err != nil {
		t.Fatalf("임시 디렉토리 생성 실패: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	database, err := db.Open(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("DB 열기 실패: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return New(database, chartTTL, sourceTTL)
}

func testChart(t *testing.T) *pillars.Chart {
	t.Helper()
	chart, err := pillars.New(nil, 0).Compute(context.Background(),
		pillars.Request{Year: 1978, Month: 5, Day: 16, Hour: 11, HasTime: true, ApplySolarCorrection: true})
	if err != nil {
		t.Fatalf("사주 계산 실패: %v", err)
	}
	return chart
}

func TestChartRoundTrip(t *testing.T) {
	c := setupCache(t, time.Hour, time.Hour)
	chart := testChart(t)
	key := pillars.Request{Year: 1978, Month: 5, Day: 16, Hour: 11, HasTime: true}.Key()

	if _, ok := c.GetChart(key); ok {
		t.Error("저장 전 캐시 히트")
	}

	if err := c.SaveChart(key, chart); err != nil {
		t.Fatalf("SaveChart 실패: %v", err)
	}

	got, ok := c.GetChart(key)
	if !ok {
		t.Fatal("저장 후 캐시 미스")
	}
	if got.String() != chart.String() {
		t.Errorf("복원된 사주 = %s, 기대값 %s", got, chart)
	}
	if got.Hour == nil || got.Hour.Name() != chart.Hour.Name() {
		t.Error("시주 복원 실패")
	}
}

func TestChartTTLExpiry(t *testing.T) {
	c := setupCache(t, -time.Hour, time.Hour) // 저장 즉시 만료
	chart := testChart(t)

	if err := c.SaveChart("k", chart); err != nil {
		t.Fatalf("SaveChart 실패: %v", err)
	}
	if _, ok := c.GetChart("k"); ok {
		t.Error("만료된 항목이 조회됨")
	}
}

func TestSourceRoundTrip(t *testing.T) {
	c := setupCache(t, time.Hour, time.Hour)
	resp := &manse.Response{YearGanji: "무오", MonthGanji: "정사", DayGanji: "무인"}

	if err := c.SaveSource(1978, 5, 16, resp); err != nil {
		t.Fatalf("SaveSource 실패: %v", err)
	}

	got, ok := c.GetSource(1978, 5, 16)
	if !ok {
		t.Fatal("소스 캐시 미스")
	}
	if got.DayGanji != "무인" {
		t.Errorf("일진 = %s, 기대값 무인", got.DayGanji)
	}
}

func TestSourceClientCacheHit(t *testing.T) {
	c := setupCache(t, time.Hour, time.Hour)
	mock := &manse.MockClient{
		Responses: map[string]*manse.Response{
			manse.MockKey(2000, 1, 1): {YearGanji: "기묘", MonthGanji: "병자", DayGanji: "무오"},
		},
	}
	client := NewSourceClient(mock, c)

	// 첫 호출: 원격 → 캐시 저장
	if _, err := client.Lookup(context.Background(), 2000, 1, 1); err != nil {
		t.Fatalf("첫 Lookup 실패: %v", err)
	}

	// 원격을 죽여도 캐시에서 응답
	mock.Fail = true
	resp, err := client.Lookup(context.Background(), 2000, 1, 1)
	if err != nil {
		t.Fatalf("캐시 Lookup 실패: %v", err)
	}
	if resp.DayGanji != "무오" {
		t.Errorf("일진 = %s, 기대값 무오", resp.DayGanji)
	}
}

func TestSourceClientStaleFallback(t *testing.T) {
	c := setupCache(t, time.Hour, -time.Hour) // 소스 캐시 즉시 만료
	mock := &manse.MockClient{
		Responses: map[string]*manse.Response{
			manse.MockKey(2000, 1, 1): {YearGanji: "기묘", MonthGanji: "병자", DayGanji: "무오"},
		},
	}
	client := NewSourceClient(mock, c)

	if _, err := client.Lookup(context.Background(), 2000, 1, 1); err != nil {
		t.Fatalf("첫 Lookup 실패: %v", err)
	}

	// TTL이 지났고 소스도 죽었으면 만료 캐시로 폴백
	mock.Fail = true
	resp, err := client.Lookup(context.Background(), 2000, 1, 1)
	if err != nil {
		t.Fatalf("만료 폴백 실패: %v", err)
	}
	if resp.DayGanji != "무오" {
		t.Errorf("일진 = %s, 기대값 무오", resp.DayGanji)
	}

	// 캐시에 아예 없으면 에러 전파
	if _, err := client.Lookup(context.Background(), 1999, 3, 3); err == nil {
		t.Error("캐시 미스 + 소스 장애는 에러여야 함")
	}
}

func TestClear(t *testing.T) {
	c := setupCache(t, time.Hour, time.Hour)
	c.SaveChart("k", testChart(t))
	c.SaveSource(1978, 5, 16, &manse.Response{YearGanji: "무오", MonthGanji: "정사", DayGanji: "무인"})

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear 실패: %v", err)
	}
	if n != 2 {
		t.Errorf("삭제 건수 = %d, 기대값 2", n)
	}
	if _, ok := c.GetChart("k"); ok {
		t.Error("Clear 후에도 캐시 히트")
	}
}
