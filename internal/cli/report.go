package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/n0roo/saju-kit/internal/cache"
	"github.com/n0roo/saju-kit/internal/config"
	"github.com/n0roo/saju-kit/internal/db"
	"github.com/n0roo/saju-kit/internal/features"
	"github.com/n0roo/saju-kit/internal/match"
	"github.com/n0roo/saju-kit/internal/matchlog"
	"github.com/n0roo/saju-kit/internal/pillars"
)

var (
	reportYear int
	reportTags []string
)

var reportCmd = &cobra.Command{
	Use:   "report <연> <월> <일> [시:분]",
	Short: "섹션별 해석 리포트",
	Long: `전체 파이프라인을 실행합니다: 사주 → 특성 → 카드 매칭.

5개 섹션(총운/재물운/직업운/애정운/건강운)에 규칙 카드를
점수순으로 매칭하고, 매칭 근거를 로그에 남깁니다.

예:
  saju report 1978 5 16 11:00 --year 2026 --tags 이직,투자`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().IntVar(&reportYear, "year", 0, "대상 연도 (기본: 올해)")
	reportCmd.Flags().StringSliceVar(&reportTags, "tags", nil, "설문 태그 (쉼표 구분)")
}

// pipelineResult bundles the full pipeline output
type pipelineResult struct {
	Chart    *pillars.Chart     `json:"chart"`
	Features *features.Features `json:"features"`
	Report   *match.Report      `json:"report"`
	Trace    *match.Trace       `json:"trace"`
}

// runPipeline executes chart → features → match and logs the trace
func runPipeline(cfg *config.Config, database db.Database, req pillars.Request, year int, surveyTags []string) (*pipelineResult, error) {
	c := cache.New(database, cfg.Cache.ChartTTL.Std(), cfg.Cache.SourceTTL.Std())
	chart, err := computeChart(cfg, c, req)
	if err != nil {
		return nil, err
	}

	feats, err := features.Derive(chart, year)
	if err != nil {
		return nil, err
	}

	store, err := loadStore(cfg, database)
	if err != nil {
		return nil, err
	}

	in := match.BuildInput(feats, surveyTags)
	report, trace := newMatchEngine(cfg, store).ScoreAll(in)

	if err := matchlog.New(database).Record(report, trace, year); err != nil {
		fmt.Fprintf(os.Stderr, "매칭 로그 저장 실패: %v\n", err)
	}

	return &pipelineResult{Chart: chart, Features: feats, Report: report, Trace: trace}, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req, err := parseBirth(cfg, args)
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	year := reportYear
	if year <= 0 {
		year = time.Now().In(pillars.KST).Year()
	}
	result, err := runPipeline(cfg, database, req, year, reportTags)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	printReport(result)
	return nil
}

func printReport(r *pipelineResult) {
	printChart(r.Chart)
	fmt.Printf("구조: %s | %d년 운세\n", r.Features.StructureName, r.Features.TargetYear)
	fmt.Println()

	for _, sec := range r.Report.Sections {
		fmt.Printf("== %s (%d장, 평균 %.1f점) ==\n", sec.SectionID, len(sec.Cards), sec.AvgScore)
		if len(sec.Cards) == 0 {
			fmt.Println("  매칭된 카드 없음")
			continue
		}
		for _, c := range sec.Cards {
			fmt.Printf("  [%s] %.1f점 (트리거: %s)\n", c.CardID, c.Score, strings.Join(c.FiredTriggers, ", "))
			if c.Card != nil && c.Card.Interpretation != "" {
				fmt.Printf("    %s\n", c.Card.Interpretation)
			}
			if c.Card != nil && c.Card.Action != "" {
				fmt.Printf("    → %s\n", c.Card.Action)
			}
		}
		fmt.Println()
	}

	fmt.Printf("트레이스: %s\n", r.Trace.RequestID)
}
