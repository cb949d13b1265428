package match

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/n0roo/saju-kit/internal/cards"
	"github.com/n0roo/saju-kit/internal/features"
	"github.com/n0roo/saju-kit/internal/ganji"
)

const (
	// 기본 섹션당 카드 수
	DefaultPerSection = 3

	priorityWeight = 1.0
	idfWeight      = 2.0
	yearBonus      = 0.5
	goalBonus      = 0.5
)

// ScoreBreakdown shows how a card's score was composed
type ScoreBreakdown struct {
	Priority  float64 `json:"priority"`
	TagIDF    float64 `json:"tag_idf"`
	YearBonus float64 `json:"year_bonus"`
	GoalBonus float64 `json:"goal_bonus"`
}

// MatchedCard is one selected card with its score and evidence
type MatchedCard struct {
	CardID        string         `json:"card_id"`
	Topic         string         `json:"topic"`
	Score         float64        `json:"score"`
	FiredTriggers []string       `json:"fired_triggers"`
	Breakdown     ScoreBreakdown `json:"score_breakdown"`
	Card          *cards.Card    `json:"card"`

	// 티어 선별용 (직렬화 안 함)
	overlap int
	focus   bool
}

// SectionResult is the outcome of one report section
type SectionResult struct {
	SectionID string        `json:"section_id"`
	Cards     []MatchedCard `json:"cards"`
	AvgScore  float64       `json:"avg_score"`
}

// Report is the full five-section match result
type Report struct {
	Sections []SectionResult `json:"sections"`
}

// Engine matches cards against derived features. 스토어처럼 읽기 전용
type Engine struct {
	store         *cards.Store
	perSection    int
	zeroTolerance bool
}

// NewEngine builds a match engine over a card store
func NewEngine(store *cards.Store) *Engine {
	return &Engine{
		store:         store,
		perSection:    DefaultPerSection,
		zeroTolerance: true,
	}
}

// SetPerSection overrides the per-section card quota
func (e *Engine) SetPerSection(k int) {
	if k > 0 {
		e.perSection = k
	}
}

// SetZeroTolerance toggles the absent-element/god-group pre-filter
func (e *Engine) SetZeroTolerance(on bool) {
	e.zeroTolerance = on
}

// ScoreAll runs every section in order, sharing a used-card set so the
// same card never appears twice in one report.
// 트레이스는 매칭 0건이어도 항상 완전한 형태로 반환
func (e *Engine) ScoreAll(in Input) (*Report, *Trace) {
	trace := NewTrace()
	used := make(map[string]bool)

	report := &Report{Sections: make([]SectionResult, 0, len(Sections))}
	for i := range Sections {
		res := e.scoreSection(in, &Sections[i], used, e.perSection, trace)
		report.Sections = append(report.Sections, res)
	}
	return report, trace
}

// ScoreSection matches one named section against the input.
// 알 수 없는 섹션 ID는 에러
func (e *Engine) ScoreSection(in Input, sectionID string, k int) (SectionResult, *Trace, error) {
	sec := SectionByID(sectionID)
	if sec == nil {
		return SectionResult{}, nil, fmt.Errorf("알 수 없는 섹션: %s", sectionID)
	}
	if k <= 0 {
		k = e.perSection
	}
	trace := NewTrace()
	res := e.scoreSection(in, sec, make(map[string]bool), k, trace)
	return res, trace, nil
}

func (e *Engine) scoreSection(in Input, sec *Section, used map[string]bool, k int, trace *Trace) SectionResult {
	res := SectionResult{SectionID: sec.ID, Cards: []MatchedCard{}}

	// 후보 수집: 섹션 토픽 순서대로, 이미 쓴 카드는 제외
	var pool []*cards.Card
	for _, topic := range sec.Topics {
		for _, c := range e.store.ByTopic(topic) {
			if !used[c.ID] {
				pool = append(pool, c)
			}
		}
	}
	if len(pool) == 0 {
		return res
	}

	// 제로 톨러런스: 사주에 없는 오행/오성을 지칭하는 카드 제외.
	// 전부 걸러지면 필터를 건너뛴다 (빈 섹션 방지)
	if e.zeroTolerance {
		filtered := pool[:0:0]
		for _, c := range pool {
			if !referencesAbsent(c, in) {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) == 0 {
			log.Printf("[match] %s: 제로 톨러런스 필터가 후보를 전부 제거하여 건너뜀 (%d장)", sec.ID, len(pool))
		} else {
			pool = filtered
		}
	}

	// 트리거 발화 + 점수 계산. 발화 0건은 탈락
	var scored []MatchedCard
	for _, c := range pool {
		m, ok := e.scoreCard(c, in)
		if ok {
			m.focus = hasFocusTag(c, sec.FocusTags)
			scored = append(scored, m)
		}
	}

	// 점수 내림차순, 동점은 ID 사전순 — 결정적 출력
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].CardID < scored[j].CardID
	})

	// 티어별 쿼터 채우기: 태그 겹침 2+ → 1+ → 섹션 초점 태그 → 나머지
	picked := make(map[string]bool)
	tiers := []func(MatchedCard) bool{
		func(m MatchedCard) bool { return m.overlap >= 2 },
		func(m MatchedCard) bool { return m.overlap >= 1 },
		func(m MatchedCard) bool { return m.focus },
		func(m MatchedCard) bool { return true },
	}
	for _, fits := range tiers {
		if len(res.Cards) >= k {
			break
		}
		for _, m := range scored {
			if len(res.Cards) >= k {
				break
			}
			if picked[m.CardID] || !fits(m) {
				continue
			}
			picked[m.CardID] = true
			used[m.CardID] = true
			res.Cards = append(res.Cards, m)
			trace.record(m)
		}
	}

	if len(res.Cards) > 0 {
		sum := 0.0
		for _, m := range res.Cards {
			sum += m.Score
		}
		res.AvgScore = sum / float64(len(res.Cards))
	}
	return res
}

// scoreCard fires triggers and computes the composite score.
// ok=false면 발화 0건 또는 predicate 거짓
func (e *Engine) scoreCard(c *cards.Card, in Input) (MatchedCard, bool) {
	if p := c.Pred(); p != nil && p.Eval(in.Fields) == cards.TriFalse {
		return MatchedCard{}, false
	}

	var fired []string
	overlap := make(map[string]bool)
	for _, tok := range c.Tokens() {
		for _, tag := range in.Tags {
			if strings.Contains(tag, tok) || strings.Contains(tok, tag) {
				fired = append(fired, tok)
				overlap[tag] = true
				break
			}
		}
	}
	if p := c.Pred(); p != nil && p.Eval(in.Fields) == cards.TriTrue {
		fired = append(fired, "predicate")
	}
	if len(fired) == 0 {
		return MatchedCard{}, false
	}

	idfSum := 0.0
	for _, tok := range fired {
		if tok != "predicate" {
			idfSum += e.store.IDF(tok)
		}
	}
	avgIDF := 0.0
	if n := len(fired); n > 0 {
		avgIDF = idfSum / float64(n)
	}

	b := ScoreBreakdown{
		Priority: float64(c.Priority) * priorityWeight,
		TagIDF:   avgIDF * idfWeight,
	}
	if relevantToYear(fired, in.TargetYear) {
		b.YearBonus = yearBonus
	}
	if relevantToGoal(fired, in.SurveyTags) {
		b.GoalBonus = goalBonus
	}

	return MatchedCard{
		CardID:        c.ID,
		Topic:         c.Topic,
		Score:         b.Priority + b.TagIDF + b.YearBonus + b.GoalBonus,
		FiredTriggers: fired,
		Breakdown:     b,
		Card:          c,
		overlap:       len(overlap),
	}, true
}

// yearKeywordSet is the fixed keyword set for the year-relevance bonus
var yearKeywordSet = map[string]bool{
	"올해": true, "신년": true, "새해": true, "연운": true, "세운": true,
}

func relevantToYear(fired []string, targetYear int) bool {
	year := strconv.Itoa(targetYear)
	for _, tok := range fired {
		if yearKeywordSet[tok] || strings.Contains(tok, year) {
			return true
		}
	}
	return false
}

func relevantToGoal(fired []string, surveyTags []string) bool {
	for _, tok := range fired {
		for _, tag := range surveyTags {
			if strings.Contains(tag, tok) || strings.Contains(tok, tag) {
				return true
			}
		}
	}
	return false
}

func hasFocusTag(c *cards.Card, focus []string) bool {
	for _, tok := range c.Tokens() {
		for _, f := range focus {
			if tok == f {
				return true
			}
		}
	}
	return false
}

var elementByName = map[string]ganji.Element{
	"목": ganji.Wood, "화": ganji.Fire, "토": ganji.Earth,
	"금": ganji.Metal, "수": ganji.Water,
}

var groupByName = map[string]features.GodGroup{
	"비겁": features.GroupPeer, "식상": features.GroupOutput,
	"재성": features.GroupWealth, "관성": features.GroupAuthority,
	"인성": features.GroupResource,
	"비견": features.GroupPeer, "겁재": features.GroupPeer,
	"식신": features.GroupOutput, "상관": features.GroupOutput,
	"편재": features.GroupWealth, "정재": features.GroupWealth,
	"편관": features.GroupAuthority, "정관": features.GroupAuthority,
	"편인": features.GroupResource, "정인": features.GroupResource,
}

// referencesAbsent reports whether a card names an element or ten-god
// category that does not appear in the chart.
// 토큰 완전 일치만 본다 — "재물"처럼 글자가 겹치는 일반 단어는 건드리지 않음
func referencesAbsent(c *cards.Card, in Input) bool {
	for _, tok := range c.Tokens() {
		if e, ok := elementByName[tok]; ok && !in.PresentElements[e] {
			return true
		}
		if g, ok := groupByName[tok]; ok && !in.PresentGroups[g] {
			return true
		}
	}
	return false
}
