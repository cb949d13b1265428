package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Source.Timeout.Std() != 10*time.Second {
		t.Errorf("기본 타임아웃 = %v, 기대값 10s", cfg.Source.Timeout)
	}
	if !cfg.Source.SolarCorrected {
		t.Error("태양시 보정이 기본으로 켜져 있어야 함")
	}
	if cfg.DB.Type != "sqlite" {
		t.Errorf("기본 DB = %s, 기대값 sqlite", cfg.DB.Type)
	}
	if cfg.Match.PerSection != 3 {
		t.Errorf("기본 섹션당 카드 수 = %d, 기대값 3", cfg.Match.PerSection)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/없는/경로/config.yaml")
	if err != nil {
		t.Fatalf("파일이 없으면 기본값이어야 함: %v", err)
	}
	if cfg.Server.Port != Default().Server.Port {
		t.Errorf("포트 = %d, 기본값이어야 함", cfg.Server.Port)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "saju-config-test-*")
	if err != nil {
		t.Fatalf("임시 디렉토리 생성 실패: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	content := `
source:
  endpoint: https://apis.data.go.kr/B090041/openapi/service/LrsrCldInfoService
  timeout: 5s
db:
  type: duckdb
match:
  per_section: 5
  zero_tolerance: false
`
	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("설정 파일 생성 실패: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 실패: %v", err)
	}
	if cfg.Source.Timeout.Std() != 5*time.Second {
		t.Errorf("타임아웃 = %v, 기대값 5s", cfg.Source.Timeout)
	}
	if cfg.DB.Type != "duckdb" {
		t.Errorf("DB = %s, 기대값 duckdb", cfg.DB.Type)
	}
	if cfg.Match.PerSection != 5 {
		t.Errorf("섹션당 카드 수 = %d, 기대값 5", cfg.Match.PerSection)
	}
	if cfg.Match.ZeroTolerance {
		t.Error("제로 톨러런스가 꺼져 있어야 함")
	}
	// 생략된 필드는 기본값 유지
	if cfg.Cache.ChartTTL != Default().Cache.ChartTTL {
		t.Errorf("캐시 TTL = %v, 기본값이어야 함", cfg.Cache.ChartTTL)
	}
}

func TestNormalizeInvalidValues(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "saju-config-test-*")
	if err != nil {
		t.Fatalf("임시 디렉토리 생성 실패: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	content := `
db:
  type: postgres
server:
  port: 99999
`
	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("설정 파일 생성 실패: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 실패: %v", err)
	}
	if cfg.DB.Type != "sqlite" {
		t.Errorf("지원하지 않는 DB는 sqlite로 돌아가야 함: %s", cfg.DB.Type)
	}
	if cfg.Server.Port != Default().Server.Port {
		t.Errorf("범위 밖 포트는 기본값이어야 함: %d", cfg.Server.Port)
	}
}
