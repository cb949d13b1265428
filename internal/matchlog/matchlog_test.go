package matchlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/n0roo/saju-kit/internal/db"
	"github.com/n0roo/saju-kit/internal/match"
)

func testDB(t *testing.T) *db.DB {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "saju-matchlog-test-*")
	if err != nil {
		t.Fatalf("임시 디렉토리 생성 실패: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	database, err := db.Open(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("DB 열기 실패: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func sampleReport() (*match.Report, *match.Trace) {
	trace := match.NewTrace()
	trace.MatchedRuleIDs = []string{"R-001", "R-002"}
	trace.MatchScores = map[string]float64{"R-001": 12.5, "R-002": 8.0}
	trace.FiredTriggersByID = map[string][]string{
		"R-001": {"식상생재"},
		"R-002": {"신강"},
	}

	report := &match.Report{Sections: []match.SectionResult{
		{SectionID: "총운", Cards: []match.MatchedCard{{CardID: "R-001", Score: 12.5}}},
		{SectionID: "재물운", Cards: []match.MatchedCard{{CardID: "R-002", Score: 8.0}}},
		{SectionID: "건강운", Cards: []match.MatchedCard{}},
	}}
	return report, trace
}

func TestRecordAndTrace(t *testing.T) {
	logger := New(testDB(t))
	report, trace := sampleReport()

	if err := logger.Record(report, trace, 2026); err != nil {
		t.Fatalf("Record 실패: %v", err)
	}

	got, err := logger.Trace(trace.RequestID)
	if err != nil {
		t.Fatalf("Trace 조회 실패: %v", err)
	}
	if got.RequestID != trace.RequestID {
		t.Errorf("요청 ID = %s, 기대값 %s", got.RequestID, trace.RequestID)
	}
	if len(got.MatchedRuleIDs) != 2 {
		t.Errorf("매칭 ID 수 = %d, 기대값 2", len(got.MatchedRuleIDs))
	}
	if got.MatchScores["R-001"] != 12.5 {
		t.Errorf("점수 복원 실패: %v", got.MatchScores)
	}
}

func TestRecent(t *testing.T) {
	logger := New(testDB(t))

	for i := 0; i < 3; i++ {
		report, trace := sampleReport()
		if err := logger.Record(report, trace, 2024+i); err != nil {
			t.Fatalf("Record 실패: %v", err)
		}
	}

	entries, err := logger.Recent(2)
	if err != nil {
		t.Fatalf("Recent 실패: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("조회 건수 = %d, 기대값 2", len(entries))
	}
	// 빈 섹션은 section_count에서 빠진다
	if entries[0].SectionCount != 2 || entries[0].CardCount != 2 {
		t.Errorf("집계 = (%d, %d), 기대값 (2, 2)", entries[0].SectionCount, entries[0].CardCount)
	}
}

func TestSummarize(t *testing.T) {
	logger := New(testDB(t))

	for _, year := range []int{2026, 2026, 2027} {
		report, trace := sampleReport()
		if err := logger.Record(report, trace, year); err != nil {
			t.Fatalf("Record 실패: %v", err)
		}
	}

	stats, err := logger.Summarize()
	if err != nil {
		t.Fatalf("Summarize 실패: %v", err)
	}
	if stats.TotalRequests != 3 {
		t.Errorf("총 요청 수 = %d, 기대값 3", stats.TotalRequests)
	}
	if stats.ByYear[2026] != 2 || stats.ByYear[2027] != 1 {
		t.Errorf("연도별 집계 = %v", stats.ByYear)
	}
	if stats.TopCards["R-001"] != 3 {
		t.Errorf("카드 집계 = %v", stats.TopCards)
	}
	if stats.AvgCards != 2.0 {
		t.Errorf("평균 카드 수 = %f, 기대값 2.0", stats.AvgCards)
	}
}

func TestTraceNotFound(t *testing.T) {
	logger := New(testDB(t))
	if _, err := logger.Trace("없는-아이디"); err == nil {
		t.Error("없는 트레이스는 에러여야 함")
	}
}
