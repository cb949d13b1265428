package match

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/n0roo/saju-kit/internal/cards"
	"github.com/n0roo/saju-kit/internal/features"
	"github.com/n0roo/saju-kit/internal/ganji"
	"github.com/n0roo/saju-kit/internal/pillars"
)

// 1978-05-16 11:00 (태양시 보정): 무오년 정사월 무인일 정사시.
// 오행 분포 화5 토2 목1, 금·수 없음 / 인성 5 → 인성과다, 신강
func testChart() *pillars.Chart {
	return &pillars.Chart{
		Year:  pillars.Pillar{Stem: 4, Branch: 6},
		Month: pillars.Pillar{Stem: 3, Branch: 5},
		Day:   pillars.Pillar{Stem: 4, Branch: 2},
		Hour:  &pillars.Pillar{Stem: 3, Branch: 5},
	}
}

func testInput(t *testing.T, surveyTags ...string) Input {
	t.Helper()
	f, err := features.Derive(testChart(), 2026)
	if err != nil {
		t.Fatalf("특성 파생 실패: %v", err)
	}
	return BuildInput(f, surveyTags)
}

func testCorpus() *cards.Store {
	return cards.Build([]cards.Card{
		{ID: "C-001", Topic: "총운", Priority: 8, Trigger: "인성과다", Tags: []string{"총운", "흐름"}},
		{ID: "C-002", Topic: "총운", Priority: 5, Trigger: "신강", Tags: []string{"총운"}},
		{ID: "C-003", Topic: "성격", Priority: 6, Trigger: "정인", Tags: []string{"성격"}},
		{ID: "C-004", Topic: "재물", Priority: 9, Trigger: "식상생재", Tags: []string{"재물-투자"}},
		{ID: "C-005", Topic: "재물", Priority: 4, Trigger: "신강", Tags: []string{"재물-관리"}},
		{ID: "C-006", Topic: "건강", Priority: 7, Trigger: "화 과다", Tags: []string{"수면", "화"}},
		{ID: "C-007", Topic: "건강", Priority: 5, Trigger: "금 부족", Tags: []string{"금"}},
		{ID: "C-008", Topic: "직업", Priority: 6, Trigger: "올해", Tags: []string{"이직", "2026"}},
	})
}

func sectionByID(t *testing.T, report *Report, id string) SectionResult {
	t.Helper()
	for _, s := range report.Sections {
		if s.SectionID == id {
			return s
		}
	}
	t.Fatalf("섹션 없음: %s", id)
	return SectionResult{}
}

func TestBuildInput(t *testing.T) {
	in := testInput(t, " 이직 ", "투자")

	if in.Fields["structure_name"] != "인성과다" {
		t.Errorf("structure_name = %v, 기대값 인성과다", in.Fields["structure_name"])
	}
	if in.Fields["is_strong_self"] != true {
		t.Error("is_strong_self가 참이어야 함")
	}
	if in.Fields["resource_count"] != 5 {
		t.Errorf("resource_count = %v, 기대값 5", in.Fields["resource_count"])
	}

	tags := make(map[string]bool)
	for _, tag := range in.Tags {
		tags[tag] = true
	}
	for _, want := range []string{"신강", "인성과다", "유리한 해", "2026", "이직", "투자"} {
		if !tags[want] {
			t.Errorf("태그 누락: %s (보유: %v)", want, in.Tags)
		}
	}

	// 설문 태그는 공백 제거 후 별도 보관
	if len(in.SurveyTags) != 2 || in.SurveyTags[0] != "이직" {
		t.Errorf("설문 태그 = %v, 기대값 [이직 투자]", in.SurveyTags)
	}

	if in.PresentElements[ganji.Metal] || in.PresentElements[ganji.Water] {
		t.Error("금/수는 이 사주에 없어야 함")
	}
	if !in.PresentGroups[features.GroupResource] {
		t.Error("인성이 존재 집합에 있어야 함")
	}
}

func TestScoreAllDeterminism(t *testing.T) {
	engine := NewEngine(testCorpus())
	in := testInput(t, "이직")

	ids := func(r *Report) []string {
		var out []string
		for _, s := range r.Sections {
			for _, m := range s.Cards {
				out = append(out, m.CardID)
			}
		}
		return out
	}

	r1, _ := engine.ScoreAll(in)
	r2, _ := engine.ScoreAll(in)

	a, b := ids(r1), ids(r2)
	if len(a) != len(b) {
		t.Fatalf("매칭 수가 다름: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("순서가 다름: %v vs %v", a, b)
		}
	}
}

func TestNoDuplicateAcrossSections(t *testing.T) {
	engine := NewEngine(testCorpus())
	report, _ := engine.ScoreAll(testInput(t, "이직"))

	seen := make(map[string]bool)
	for _, s := range report.Sections {
		for _, m := range s.Cards {
			if seen[m.CardID] {
				t.Errorf("카드 %s가 두 번 등장", m.CardID)
			}
			seen[m.CardID] = true
		}
	}
}

func TestZeroFiredDropped(t *testing.T) {
	engine := NewEngine(testCorpus())
	report, _ := engine.ScoreAll(testInput(t))

	// 재물 토픽에는 C-004(발화 없음)와 C-005(신강 발화)가 있다
	wealth := sectionByID(t, report, "재물운")
	if len(wealth.Cards) != 1 || wealth.Cards[0].CardID != "C-005" {
		t.Errorf("재물운 = %+v, C-005 한 장이어야 함", wealth.Cards)
	}
}

func TestZeroToleranceFilter(t *testing.T) {
	engine := NewEngine(testCorpus())
	report, _ := engine.ScoreAll(testInput(t))

	// C-007은 "금"을 지칭하지만 이 사주에 금이 없다
	health := sectionByID(t, report, "건강운")
	for _, m := range health.Cards {
		if m.CardID == "C-007" {
			t.Error("없는 오행을 지칭하는 카드가 선별됨")
		}
	}
	if len(health.Cards) != 1 || health.Cards[0].CardID != "C-006" {
		t.Errorf("건강운 = %+v, C-006 한 장이어야 함", health.Cards)
	}
}

func TestZeroToleranceSkipWhenPoolEmpties(t *testing.T) {
	// 건강 토픽 후보가 전부 없는 오행을 지칭하면 필터를 건너뛴다
	store := cards.Build([]cards.Card{
		{ID: "C-100", Topic: "건강", Priority: 5, Trigger: "금 부족", Tags: []string{"금"}},
	})
	engine := NewEngine(store)

	res, _, err := engine.ScoreSection(testInput(t), "건강운", 3)
	if err != nil {
		t.Fatalf("ScoreSection 실패: %v", err)
	}
	if len(res.Cards) != 1 || res.Cards[0].CardID != "C-100" {
		t.Errorf("건강운 = %+v, 필터를 건너뛰고 C-100을 선별해야 함", res.Cards)
	}
}

func TestZeroToleranceOff(t *testing.T) {
	engine := NewEngine(testCorpus())
	engine.SetZeroTolerance(false)

	res, _, err := engine.ScoreSection(testInput(t), "건강운", 3)
	if err != nil {
		t.Fatalf("ScoreSection 실패: %v", err)
	}
	if len(res.Cards) != 2 {
		t.Errorf("필터 해제 시 건강운 카드 수 = %d, 기대값 2", len(res.Cards))
	}
}

func TestYearAndGoalBonus(t *testing.T) {
	engine := NewEngine(testCorpus())

	res, _, err := engine.ScoreSection(testInput(t, "이직"), "직업운", 3)
	if err != nil {
		t.Fatalf("ScoreSection 실패: %v", err)
	}
	if len(res.Cards) != 1 || res.Cards[0].CardID != "C-008" {
		t.Fatalf("직업운 = %+v, C-008 한 장이어야 함", res.Cards)
	}

	b := res.Cards[0].Breakdown
	if b.YearBonus != 0.5 {
		t.Errorf("연도 보너스 = %f, 기대값 0.5", b.YearBonus)
	}
	if b.GoalBonus != 0.5 {
		t.Errorf("목표 보너스 = %f, 기대값 0.5", b.GoalBonus)
	}
	if got := b.Priority + b.TagIDF + b.YearBonus + b.GoalBonus; got != res.Cards[0].Score {
		t.Errorf("점수 분해 합 = %f, 총점 %f", got, res.Cards[0].Score)
	}
}

func TestPredicateGate(t *testing.T) {
	store := cards.Build([]cards.Card{
		{ID: "C-200", Topic: "직업", Priority: 5, Trigger: "신강",
			Predicate: map[string]interface{}{"field": "structure_name", "eq": "인성과다"}},
		{ID: "C-201", Topic: "직업", Priority: 9, Trigger: "신강",
			Predicate: map[string]interface{}{"field": "structure_name", "eq": "식상생재"}},
	})
	engine := NewEngine(store)

	res, _, err := engine.ScoreSection(testInput(t), "직업운", 3)
	if err != nil {
		t.Fatalf("ScoreSection 실패: %v", err)
	}
	if len(res.Cards) != 1 || res.Cards[0].CardID != "C-200" {
		t.Fatalf("직업운 = %+v, predicate 거짓인 C-201은 탈락해야 함", res.Cards)
	}

	// predicate 참은 발화 트리거로 기록
	found := false
	for _, trig := range res.Cards[0].FiredTriggers {
		if trig == "predicate" {
			found = true
		}
	}
	if !found {
		t.Errorf("predicate 발화 누락: %v", res.Cards[0].FiredTriggers)
	}
}

func TestTierOrdering(t *testing.T) {
	// 점수가 낮아도 태그 겹침 2+ 카드가 먼저 선별된다
	store := cards.Build([]cards.Card{
		{ID: "C-300", Topic: "총운", Priority: 9, Trigger: "신강"},
		{ID: "C-301", Topic: "총운", Priority: 2, Trigger: "신강,인성과다"},
	})
	engine := NewEngine(store)

	res, _, err := engine.ScoreSection(testInput(t), "총운", 1)
	if err != nil {
		t.Fatalf("ScoreSection 실패: %v", err)
	}
	if len(res.Cards) != 1 || res.Cards[0].CardID != "C-301" {
		t.Errorf("총운 = %+v, 겹침 2인 C-301이 먼저여야 함", res.Cards)
	}
}

func TestTraceComplete(t *testing.T) {
	// 아무것도 발화하지 않는 말뭉치
	store := cards.Build([]cards.Card{
		{ID: "C-400", Topic: "총운", Priority: 5, Trigger: "식상생재"},
	})
	engine := NewEngine(store)

	_, trace := engine.ScoreAll(testInput(t))
	if trace.RequestID == "" {
		t.Error("요청 ID가 비어 있음")
	}
	if trace.MatchedRuleIDs == nil || trace.MatchScores == nil || trace.FiredTriggersByID == nil {
		t.Fatal("트레이스 필드는 nil이면 안 됨")
	}
	if len(trace.MatchedRuleIDs) != 0 {
		t.Errorf("매칭 0건이어야 함: %v", trace.MatchedRuleIDs)
	}

	data, err := json.Marshal(trace)
	if err != nil {
		t.Fatalf("트레이스 직렬화 실패: %v", err)
	}
	if !strings.Contains(string(data), `"matched_rule_ids":[]`) {
		t.Errorf("빈 배열로 직렬화되어야 함: %s", data)
	}
}

func TestTraceRecordsEvidence(t *testing.T) {
	engine := NewEngine(testCorpus())
	report, trace := engine.ScoreAll(testInput(t, "이직"))

	total := 0
	for _, s := range report.Sections {
		total += len(s.Cards)
	}
	if len(trace.MatchedRuleIDs) != total {
		t.Errorf("트레이스 건수 = %d, 리포트 카드 수 %d", len(trace.MatchedRuleIDs), total)
	}
	for _, id := range trace.MatchedRuleIDs {
		if _, ok := trace.MatchScores[id]; !ok {
			t.Errorf("점수 누락: %s", id)
		}
		if trigs, ok := trace.FiredTriggersByID[id]; !ok || len(trigs) == 0 {
			t.Errorf("발화 트리거 누락: %s", id)
		}
	}
}

func TestUnknownSection(t *testing.T) {
	engine := NewEngine(testCorpus())
	if _, _, err := engine.ScoreSection(testInput(t), "없는섹션", 3); err == nil {
		t.Error("알 수 없는 섹션은 에러여야 함")
	}
}
