package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = 1

// SQLite 스키마
const schema = `
-- 메타데이터
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- 규칙 카드 말뭉치
CREATE TABLE IF NOT EXISTS rule_cards (
    id TEXT PRIMARY KEY,
    topic TEXT NOT NULL,
    priority INTEGER DEFAULT 0,
    trigger TEXT,
    tags TEXT,
    mechanism TEXT,
    interpretation TEXT,
    action TEXT,
    cautions TEXT,
    predicate TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_rule_cards_topic ON rule_cards(topic);
CREATE INDEX IF NOT EXISTS idx_rule_cards_priority ON rule_cards(topic, priority);

-- 사주 결과 캐시 (키: y-m-d:hour|null)
CREATE TABLE IF NOT EXISTS chart_cache (
    key TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    expires_at DATETIME NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- 주소스 원본 응답 캐시 (키: y-m-d)
CREATE TABLE IF NOT EXISTS source_cache (
    key TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    expires_at DATETIME NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_chart_cache_expires ON chart_cache(expires_at);
CREATE INDEX IF NOT EXISTS idx_source_cache_expires ON source_cache(expires_at);

-- 매칭 트레이스 로그
CREATE TABLE IF NOT EXISTS match_log (
    id TEXT PRIMARY KEY,
    requested_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    target_year INTEGER,
    section_count INTEGER DEFAULT 0,
    card_count INTEGER DEFAULT 0,
    trace TEXT
);

CREATE INDEX IF NOT EXISTS idx_match_log_time ON match_log(requested_at);
`

// DB wraps a SQLite connection
type DB struct {
	*sql.DB
	path string
}

// Open opens or creates the SQLite database
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("디렉토리 생성 실패: %w", err)
	}

	raw, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("DB 열기 실패: %w", err)
	}
	if err := raw.Ping(); err != nil {
		return nil, fmt.Errorf("DB 연결 실패: %w", err)
	}

	d := &DB{DB: raw, path: path}
	if err := d.Init(); err != nil {
		raw.Close()
		return nil, fmt.Errorf("스키마 초기화 실패: %w", err)
	}
	return d, nil
}

// Init applies the schema and records the version
func (d *DB) Init() error {
	if _, err := d.Exec(schema); err != nil {
		return fmt.Errorf("스키마 적용 실패: %w", err)
	}
	_, err := d.Exec(
		`INSERT OR REPLACE INTO metadata (key, value) VALUES ('schema_version', ?)`,
		strconv.Itoa(schemaVersion),
	)
	return err
}

// Path returns the database file path
func (d *DB) Path() string {
	return d.path
}

// GetVersion returns the stored schema version
func (d *DB) GetVersion() (int, error) {
	var v string
	err := d.QueryRow(`SELECT value FROM metadata WHERE key = 'schema_version'`).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}
