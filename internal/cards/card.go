package cards

import (
	"strings"
)

// Card is one precomputed rule card. 로드 후 불변
type Card struct {
	ID             string                 `yaml:"id" json:"id"`
	Topic          string                 `yaml:"topic" json:"topic"`
	Priority       int                    `yaml:"priority" json:"priority"` // 0..10
	Trigger        string                 `yaml:"trigger" json:"trigger"`   // 자유형 키워드 (쉼표 구분)
	Tags           []string               `yaml:"tags" json:"tags"`
	Mechanism      string                 `yaml:"mechanism" json:"mechanism"`
	Interpretation string                 `yaml:"interpretation" json:"interpretation"`
	Action         string                 `yaml:"action" json:"action"`
	Cautions       []string               `yaml:"cautions" json:"cautions"`
	Predicate      map[string]interface{} `yaml:"predicate,omitempty" json:"predicate,omitempty"`

	// 스토어 빌드 시 미리 계산
	pred   Predicate
	tokens []string
}

// Valid reports whether the record has the required fields
func (c *Card) Valid() bool {
	return c.ID != "" && c.Topic != ""
}

// Tokens returns the precomputed trigger/tag token set
func (c *Card) Tokens() []string {
	return c.tokens
}

// Pred returns the parsed structured predicate, or nil
func (c *Card) Pred() Predicate {
	return c.pred
}

// TriggerKeywords splits the free-form trigger field
func (c *Card) TriggerKeywords() []string {
	return splitKeywords(c.Trigger)
}

// buildTokens precomputes the token set used for substring matching.
// O(n·m) 문자열 스캔을 피하기 위해 카드당 한 번만 계산
func (c *Card) buildTokens() {
	seen := make(map[string]bool)
	var out []string
	add := func(tok string) {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok != "" && !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}

	for _, kw := range c.TriggerKeywords() {
		add(kw)
	}
	for _, tag := range c.Tags {
		for _, tok := range ExplodeTag(tag) {
			add(tok)
		}
	}
	c.tokens = out
}

// ExplodeTag splits a multi-word tag into sub-tokens, keeping the full tag.
// "재물-투자 전략" → ["재물-투자 전략", "재물", "투자", "전략"]
func ExplodeTag(tag string) []string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return nil
	}
	out := []string{tag}
	parts := strings.FieldsFunc(tag, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == ','
	})
	if len(parts) <= 1 {
		return out
	}
	for _, p := range parts {
		if p != tag {
			out = append(out, p)
		}
	}
	return out
}

func splitKeywords(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
