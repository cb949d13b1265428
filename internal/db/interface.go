package db

import (
	"database/sql"
	"os"
)

// Database is the common interface for SQLite and DuckDB
type Database interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Prepare(query string) (*sql.Stmt, error)
	Close() error
	Path() string
	GetVersion() (int, error)
}

var _ Database = (*DB)(nil)
var _ Database = (*DuckDB)(nil)

// DBType represents the database backend
type DBType string

const (
	TypeSQLite DBType = "sqlite"
	TypeDuckDB DBType = "duckdb"
)

// OpenAuto opens the backend selected by SAJU_DB_TYPE.
// DuckDB 실패 시 SQLite로 폴백
func OpenAuto(path string) (Database, DBType, error) {
	if os.Getenv("SAJU_DB_TYPE") == string(TypeDuckDB) {
		d, err := OpenDuckDB(path + ".duckdb")
		if err == nil {
			return d, TypeDuckDB, nil
		}
		// DuckDB 실패 시 SQLite 폴백
		s, sErr := Open(path)
		if sErr != nil {
			return nil, "", err // 원래 DuckDB 에러 반환
		}
		return s, TypeSQLite, nil
	}

	s, err := Open(path)
	if err != nil {
		return nil, "", err
	}
	return s, TypeSQLite, nil
}
