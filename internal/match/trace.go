package match

import "github.com/google/uuid"

// Trace records why each card matched, for the match_log and debugging.
// 매칭이 0건이어도 모든 필드가 빈 값으로 채워진다 — nil 금지
type Trace struct {
	RequestID         string              `json:"request_id"`
	MatchedRuleIDs    []string            `json:"matched_rule_ids"`
	MatchScores       map[string]float64  `json:"match_scores"`
	FiredTriggersByID map[string][]string `json:"fired_triggers_by_id"`
}

// NewTrace returns an empty, fully-initialized trace with a fresh request id
func NewTrace() *Trace {
	return &Trace{
		RequestID:         uuid.NewString(),
		MatchedRuleIDs:    []string{},
		MatchScores:       make(map[string]float64),
		FiredTriggersByID: make(map[string][]string),
	}
}

func (t *Trace) record(m MatchedCard) {
	t.MatchedRuleIDs = append(t.MatchedRuleIDs, m.CardID)
	t.MatchScores[m.CardID] = m.Score
	t.FiredTriggersByID[m.CardID] = m.FiredTriggers
}
