package cli

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/n0roo/saju-kit/internal/cache"
	"github.com/n0roo/saju-kit/internal/cards"
	"github.com/n0roo/saju-kit/internal/config"
	"github.com/n0roo/saju-kit/internal/db"
	"github.com/n0roo/saju-kit/internal/manse"
	"github.com/n0roo/saju-kit/internal/match"
	"github.com/n0roo/saju-kit/internal/pillars"
)

var (
	configPath string
	dbPath     string
	jsonOut    bool
)

var rootCmd = &cobra.Command{
	Use:   "saju",
	Short: "사주 계산/해석 파이프라인",
	Long: `saju - 사주 계산/해석 도구

출생 시점에서 네 기둥을 계산하고, 오행/십성 특성을 파생하여
규칙 카드 말뭉치에서 섹션별 해석을 매칭합니다.

주요 기능:
  - 사주 계산: 만세력 주소스 + 결정적 폴백
  - 특성 파생: 오행 분포, 십성, 구조 분류
  - 리포트: 5개 섹션 규칙 카드 매칭
  - 말뭉치 관리: YAML → DB 색인`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "설정 파일 경로 (기본: ~/.saju/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "DB 경로 (기본: ~/.saju/saju.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "JSON 출력")
}

// loadConfig reads the config file, 플래그가 우선
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.ConfigPath()
	}
	return config.Load(path)
}

// databasePath resolves the DB path: 플래그 > 설정 > 기본
func databasePath(cfg *config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	if cfg.DB.Path != "" {
		return cfg.DB.Path
	}
	return config.DBPath()
}

// openDatabase opens the configured backend.
// DuckDB 실패 시 SQLite 폴백
func openDatabase(cfg *config.Config) (db.Database, error) {
	path := databasePath(cfg)
	if err := config.EnsureHomeDir(); err != nil {
		return nil, fmt.Errorf("홈 디렉토리 생성 실패: %w", err)
	}

	if cfg.DB.Type == string(db.TypeDuckDB) {
		if d, err := db.OpenDuckDB(path + ".duckdb"); err == nil {
			return d, nil
		} else {
			log.Printf("DuckDB 열기 실패, SQLite 사용: %v", err)
		}
		return db.Open(path)
	}

	database, _, err := db.OpenAuto(path)
	return database, err
}

// buildEngine wires the pillar engine: 주소스(캐시 포함) + 결정적 폴백
func buildEngine(cfg *config.Config, c *cache.Cache) *pillars.Engine {
	var source manse.Client
	if cfg.Source.Endpoint != "" {
		source = manse.NewHTTPClient(cfg.Source.Endpoint, cfg.Source.ServiceKey, cfg.Source.Timeout.Std())
		if c != nil {
			source = cache.NewSourceClient(source, c)
		}
	}
	return pillars.New(source, cfg.Source.Timeout.Std())
}

// loadStore loads the card corpus: 설정 경로의 YAML 우선, 없으면 DB
func loadStore(cfg *config.Config, database db.Database) (*cards.Store, error) {
	if cfg.Corpus.Path != "" {
		loaded, _, err := cards.LoadYAML(cfg.Corpus.Path)
		if err != nil {
			return nil, err
		}
		return cards.Build(loaded), nil
	}

	loaded, _, err := cards.LoadDB(database)
	if err != nil {
		return nil, err
	}
	return cards.Build(loaded), nil
}

// newMatchEngine applies the match settings from config
func newMatchEngine(cfg *config.Config, store *cards.Store) *match.Engine {
	engine := match.NewEngine(store)
	engine.SetPerSection(cfg.Match.PerSection)
	engine.SetZeroTolerance(cfg.Match.ZeroTolerance)
	return engine
}

// parseBirth parses positional birth arguments: <연> <월> <일> [시:분]
func parseBirth(cfg *config.Config, args []string) (pillars.Request, error) {
	var req pillars.Request
	if len(args) < 3 {
		return req, fmt.Errorf("출생 정보 필요: <연> <월> <일> [시:분]")
	}

	var err error
	if req.Year, err = strconv.Atoi(args[0]); err != nil {
		return req, fmt.Errorf("연도 파싱 실패: %q", args[0])
	}
	if req.Month, err = strconv.Atoi(args[1]); err != nil {
		return req, fmt.Errorf("월 파싱 실패: %q", args[1])
	}
	if req.Day, err = strconv.Atoi(args[2]); err != nil {
		return req, fmt.Errorf("일 파싱 실패: %q", args[2])
	}

	req.ApplySolarCorrection = cfg.Source.SolarCorrected

	if len(args) >= 4 {
		hm := strings.SplitN(args[3], ":", 2)
		if req.Hour, err = strconv.Atoi(hm[0]); err != nil {
			return req, fmt.Errorf("시각 파싱 실패: %q", args[3])
		}
		if len(hm) == 2 {
			if req.Minute, err = strconv.Atoi(hm[1]); err != nil {
				return req, fmt.Errorf("시각 파싱 실패: %q", args[3])
			}
		}
		req.HasTime = true
	}

	return req, req.Validate()
}
