package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/marcboeker/go-duckdb/v2"
)

// DuckDB 스키마 (SQLite 호환 타입으로 변환)
const duckDBSchema = `
CREATE TABLE IF NOT EXISTS metadata (
    key VARCHAR PRIMARY KEY,
    value VARCHAR,
    updated_at TIMESTAMP DEFAULT now()
);

CREATE TABLE IF NOT EXISTS rule_cards (
    id VARCHAR PRIMARY KEY,
    topic VARCHAR NOT NULL,
    priority INTEGER DEFAULT 0,
    trigger VARCHAR,
    tags VARCHAR,
    mechanism VARCHAR,
    interpretation VARCHAR,
    action VARCHAR,
    cautions VARCHAR,
    predicate VARCHAR,
    created_at TIMESTAMP DEFAULT now()
);

CREATE TABLE IF NOT EXISTS chart_cache (
    key VARCHAR PRIMARY KEY,
    payload VARCHAR NOT NULL,
    expires_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP DEFAULT now()
);

CREATE TABLE IF NOT EXISTS source_cache (
    key VARCHAR PRIMARY KEY,
    payload VARCHAR NOT NULL,
    expires_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP DEFAULT now()
);

CREATE TABLE IF NOT EXISTS match_log (
    id VARCHAR PRIMARY KEY,
    requested_at TIMESTAMP DEFAULT now(),
    target_year INTEGER,
    section_count INTEGER DEFAULT 0,
    card_count INTEGER DEFAULT 0,
    trace VARCHAR
);
`

// DuckDB wraps a DuckDB connection.
// 분석 질의(saju stats)에 유리한 대체 백엔드
type DuckDB struct {
	*sql.DB
	path string
}

// OpenDuckDB opens or creates the DuckDB database
func OpenDuckDB(path string) (*DuckDB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("디렉토리 생성 실패: %w", err)
	}

	raw, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("DuckDB 열기 실패: %w", err)
	}
	if err := raw.Ping(); err != nil {
		return nil, fmt.Errorf("DuckDB 연결 실패: %w", err)
	}

	d := &DuckDB{DB: raw, path: path}
	if err := d.Init(); err != nil {
		raw.Close()
		return nil, fmt.Errorf("스키마 초기화 실패: %w", err)
	}
	return d, nil
}

// Init applies the schema and records the version
func (d *DuckDB) Init() error {
	if _, err := d.Exec(duckDBSchema); err != nil {
		return fmt.Errorf("DuckDB 스키마 적용 실패: %w", err)
	}
	_, err := d.Exec(
		`INSERT OR REPLACE INTO metadata (key, value) VALUES ('schema_version', ?)`,
		strconv.Itoa(schemaVersion),
	)
	return err
}

// Path returns the database file path
func (d *DuckDB) Path() string {
	return d.path
}

// GetVersion returns the stored schema version
func (d *DuckDB) GetVersion() (int, error) {
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
