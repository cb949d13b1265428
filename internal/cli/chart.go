package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n0roo/saju-kit/internal/cache"
	"github.com/n0roo/saju-kit/internal/config"
	"github.com/n0roo/saju-kit/internal/pillars"
)

var chartNoCorrection bool

var chartCmd = &cobra.Command{
	Use:   "chart <연> <월> <일> [시:분]",
	Short: "사주 계산",
	Long: `출생 시점의 네 기둥을 계산합니다.

시각을 생략하면 시주 없이 세 기둥만 계산합니다.
시주는 기본으로 태양시 보정(-30분)을 적용합니다.

예:
  saju chart 1978 5 16 11:00
  saju chart 2000 1 1`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runChart,
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().BoolVar(&chartNoCorrection, "no-solar-correction", false, "태양시 보정 끄기")
}

func runChart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req, err := parseBirth(cfg, args)
	if err != nil {
		return err
	}
	if chartNoCorrection {
		req.ApplySolarCorrection = false
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

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(chart)
	}

	printChart(chart)
	return nil
}

// computeChart runs the pillar engine with the chart cache in front
func computeChart(cfg *config.Config, c *cache.Cache, req pillars.Request) (*pillars.Chart, error) {
	key := req.Key()
	if chart, ok := c.GetChart(key); ok {
		return chart, nil
	}

	engine := buildEngine(cfg, c)
	chart, err := engine.Compute(context.Background(), req)
	if err != nil {
		return nil, err
	}

	if err := c.SaveChart(key, chart); err != nil {
		fmt.Fprintf(os.Stderr, "사주 캐시 저장 실패: %v\n", err)
	}
	return chart, nil
}

func printChart(chart *pillars.Chart) {
	fmt.Println(chart.String())
	fmt.Printf("출처: %s\n", chart.Provenance)
	if chart.IsBoundary {
		fmt.Printf("⚠ 경계 근접 (%s) — 정확한 출생 시각 확인 권장\n", chart.BoundaryReason)
	}
}
