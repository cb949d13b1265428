package cards

import (
	"log"
	"math"
	"sort"
)

// Store owns the card corpus, topic index, and IDF table.
// 빌드 이후 읽기 전용 — 동시 조회에 잠금 불필요
type Store struct {
	cards   []*Card
	byTopic map[string][]*Card
	idf     map[string]float64
}

// Build constructs a store from loaded cards.
// 토픽 인덱스는 priority 내림차순, IDF는 태그 분해 토큰 기준
func Build(cards []Card) *Store {
	s := &Store{
		byTopic: make(map[string][]*Card),
		idf:     make(map[string]float64),
	}

	for i := range cards {
		c := cards[i]
		c.buildTokens()
		if c.Predicate != nil {
			pred, err := ParsePredicate(c.Predicate)
			if err != nil {
				log.Printf("[cards] %s predicate 파싱 실패, 무시: %v", c.ID, err)
			} else {
				c.pred = pred
			}
		}
		s.cards = append(s.cards, &c)
		s.byTopic[c.Topic] = append(s.byTopic[c.Topic], &c)
	}

	for topic := range s.byTopic {
		list := s.byTopic[topic]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority > list[j].Priority
		})
	}

	// 문서 빈도: 토큰이 등장하는 카드 수
	df := make(map[string]int)
	for _, c := range s.cards {
		seen := make(map[string]bool)
		for _, tag := range c.Tags {
			for _, tok := range ExplodeTag(tag) {
				if !seen[tok] {
					seen[tok] = true
					df[tok]++
				}
			}
		}
	}
	n := float64(len(s.cards))
	for tok, d := range df {
		s.idf[tok] = math.Log((n+1)/float64(d+1)) + 1
	}

	return s
}

// Size returns the corpus size
func (s *Store) Size() int {
	return len(s.cards)
}

// Cards returns all cards (읽기 전용 뷰)
func (s *Store) Cards() []*Card {
	return s.cards
}

// ByTopic returns the cards of a topic, priority 내림차순
func (s *Store) ByTopic(topic string) []*Card {
	return s.byTopic[topic]
}

// Topics returns the indexed topic names
func (s *Store) Topics() []string {
	out := make([]string, 0, len(s.byTopic))
	for t := range s.byTopic {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// IDF returns the rarity weight of a token.
// 말뭉치에 없는 토큰은 df=0으로 계산
func (s *Store) IDF(token string) float64 {
	if w, ok := s.idf[token]; ok {
		return w
	}
	return math.Log(float64(len(s.cards))+1) + 1
}
