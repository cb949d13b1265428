package cards

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/n0roo/saju-kit/internal/db"
)

// ErrCorpusLoad means the corpus source is missing or unreadable (기동 시 치명)
var ErrCorpusLoad = errors.New("말뭉치 로드 실패")

// LoadYAML reads a card corpus from a YAML file.
// id/topic이 없는 레코드는 건너뛰고 건수만 기록
func LoadYAML(path string) ([]Card, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrCorpusLoad, err)
	}

	var raw []Card
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("%w: YAML 파싱 실패: %v", ErrCorpusLoad, err)
	}

	var out []Card
	skipped := 0
	for _, c := range raw {
		if !c.Valid() {
			skipped++
			continue
		}
		out = append(out, c)
	}
	if skipped > 0 {
		log.Printf("[cards] 필수 필드 누락 레코드 %d건 건너뜀 (%s)", skipped, path)
	}
	return out, skipped, nil
}

// LoadDB reads the card corpus from the rule_cards table
func LoadDB(database db.Database) ([]Card, int, error) {
	rows, err := database.Query(
		`SELECT id, topic, priority, trigger, tags, mechanism, interpretation, action, cautions, predicate
		 FROM rule_cards ORDER BY id`,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrCorpusLoad, err)
	}
	defer rows.Close()

	var out []Card
	skipped := 0
	for rows.Next() {
		var c Card
		var tags, cautions, predicate sql.NullString
		var trigger, mechanism, interpretation, action sql.NullString
		if err := rows.Scan(&c.ID, &c.Topic, &c.Priority, &trigger, &tags,
			&mechanism, &interpretation, &action, &cautions, &predicate); err != nil {
			skipped++
			continue
		}
		c.Trigger = trigger.String
		c.Mechanism = mechanism.String
		c.Interpretation = interpretation.String
		c.Action = action.String
		if tags.Valid && tags.String != "" {
			if err := json.Unmarshal([]byte(tags.String), &c.Tags); err != nil {
				skipped++
				continue
			}
		}
		if cautions.Valid && cautions.String != "" {
			if err := json.Unmarshal([]byte(cautions.String), &c.Cautions); err != nil {
				skipped++
				continue
			}
		}
		if predicate.Valid && predicate.String != "" {
			if err := json.Unmarshal([]byte(predicate.String), &c.Predicate); err != nil {
				log.Printf("[cards] %s predicate JSON 파싱 실패, 무시: %v", c.ID, err)
			}
		}
		if !c.Valid() {
			skipped++
			continue
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, skipped, fmt.Errorf("%w: %v", ErrCorpusLoad, err)
	}
	if skipped > 0 {
		log.Printf("[cards] 손상 레코드 %d건 건너뜀 (%s)", skipped, database.Path())
	}
	return out, skipped, nil
}

// ImportDB writes cards into the rule_cards table (corpus index 명령용)
func ImportDB(database db.Database, list []Card) (int, error) {
	stmt, err := database.Prepare(
		`INSERT OR REPLACE INTO rule_cards
		 (id, topic, priority, trigger, tags, mechanism, interpretation, action, cautions, predicate)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("카드 저장 준비 실패: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, c := range list {
		if !c.Valid() {
			continue
		}
		tags, _ := json.Marshal(c.Tags)
		cautions, _ := json.Marshal(c.Cautions)
		var predicate []byte
		if c.Predicate != nil {
			predicate, _ = json.Marshal(c.Predicate)
		}
		if _, err := stmt.Exec(c.ID, c.Topic, c.Priority, c.Trigger,
			string(tags), c.Mechanism, c.Interpretation, c.Action,
			string(cautions), string(predicate)); err != nil {
			return count, fmt.Errorf("카드 %s 저장 실패: %w", c.ID, err)
		}
		count++
	}
	return count, nil
}
