package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/n0roo/saju-kit/internal/cache"
	"github.com/n0roo/saju-kit/internal/features"
	"github.com/n0roo/saju-kit/internal/match"
	"github.com/n0roo/saju-kit/internal/pillars"
)

var (
	matchSection string
	matchYear    int
	matchTags    []string
	matchLimit   int
)

var matchCmd = &cobra.Command{
	Use:   "match <연> <월> <일> [시:분]",
	Short: "단일 섹션 카드 매칭",
	Long: `한 섹션만 골라 카드를 매칭합니다.

섹션: 총운, 재물운, 직업운, 애정운, 건강운

예:
  saju match 1978 5 16 11:00 --section 재물운 --tags 투자`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().StringVar(&matchSection, "section", "총운", "섹션 ID")
	matchCmd.Flags().IntVar(&matchYear, "year", 0, "대상 연도 (기본: 올해)")
	matchCmd.Flags().StringSliceVar(&matchTags, "tags", nil, "설문 태그 (쉼표 구분)")
	matchCmd.Flags().IntVar(&matchLimit, "limit", 0, "카드 수 (기본: 설정의 per_section)")
}

func runMatch(cmd *cobra.Command, args []string) error {
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

	c := cache.New(database, cfg.Cache.ChartTTL.Std(), cfg.Cache.SourceTTL.Std())
	chart, err := computeChart(cfg, c, req)
	if err != nil {
		return err
	}

	year := matchYear
	if year <= 0 {
		year = time.Now().In(pillars.KST).Year()
	}
	feats, err := features.Derive(chart, year)
	if err != nil {
		return err
	}

	store, err := loadStore(cfg, database)
	if err != nil {
		return err
	}

	in := match.BuildInput(feats, matchTags)
	result, trace, err := newMatchEngine(cfg, store).ScoreSection(in, matchSection, matchLimit)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"section": result,
			"trace":   trace,
		})
	}

	fmt.Printf("== %s (%d장, 평균 %.1f점) ==\n", result.SectionID, len(result.Cards), result.AvgScore)
	for _, card := range result.Cards {
		fmt.Printf("  [%s] %.1f점 (트리거: %s)\n", card.CardID, card.Score, strings.Join(card.FiredTriggers, ", "))
		if card.Card != nil && card.Card.Interpretation != "" {
			fmt.Printf("    %s\n", card.Card.Interpretation)
		}
	}
	fmt.Printf("트레이스: %s\n", trace.RequestID)
	return nil
}
