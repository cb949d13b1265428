package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/n0roo/saju-kit/internal/cache"
	"github.com/n0roo/saju-kit/internal/features"
	"github.com/n0roo/saju-kit/internal/ganji"
	"github.com/n0roo/saju-kit/internal/pillars"
)

var analyzeYear int

var analyzeCmd = &cobra.Command{
	Use:   "analyze <연> <월> <일> [시:분]",
	Short: "특성 파생",
	Long: `사주를 계산하고 오행/십성 특성을 파생합니다.

파생 항목:
  - 오행 분포와 강약
  - 십성 분포와 주도 십성
  - 구조 분류 (식상생재, 관인상생 등)
  - 대상 연도 유불리`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().IntVar(&analyzeYear, "year", 0, "대상 연도 (기본: 올해)")
}

func targetYear() int {
	if analyzeYear > 0 {
		return analyzeYear
	}
	return time.Now().In(pillars.KST).Year()
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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

	feats, err := features.Derive(chart, targetYear())
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"chart":    chart,
			"features": feats,
		})
	}

	printChart(chart)
	fmt.Println()
	printFeatures(feats)
	return nil
}

func printFeatures(f *features.Features) {
	strength := "신약"
	if f.IsStrongSelf {
		strength = "신강"
	}
	fmt.Printf("일간: %s (%s), %s\n", f.DayMaster, f.DayMasterElement, strength)
	fmt.Printf("구조: %s — %s\n", f.StructureName, f.StructureDescription)

	fmt.Println("오행 분포:")
	for _, e := range []ganji.Element{ganji.Wood, ganji.Fire, ganji.Earth, ganji.Metal, ganji.Water} {
		fmt.Printf("  %s: %d\n", e, f.ElementCounts[e])
	}

	fmt.Printf("주도 십성: %s (%s)\n", f.DominantTenGod, f.DominantTenGod.Group())

	year := "조심할 해"
	if f.IsFavorableYear {
		year = "유리한 해"
	}
	fmt.Printf("%d년: %s의 해, %s\n", f.TargetYear, f.YearElement, year)
}
