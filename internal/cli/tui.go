package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/n0roo/saju-kit/internal/pillars"
	"github.com/n0roo/saju-kit/internal/tui"
)

var (
	tuiYear int
	tuiTags []string
)

var tuiCmd = &cobra.Command{
	Use:   "tui <연> <월> <일> [시:분]",
	Short: "터미널 리포트 뷰어",
	Long: `사주/특성/리포트를 탭으로 살펴보는 터미널 UI입니다.

조작:
  1-3, tab  탭 전환
  h/l       리포트 섹션 이동
  j/k       카드 선택
  q         종료`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().IntVar(&tuiYear, "year", 0, "대상 연도 (기본: 올해)")
	tuiCmd.Flags().StringSliceVar(&tuiTags, "tags", nil, "설문 태그 (쉼표 구분)")
}

func runTUI(cmd *cobra.Command, args []string) error {
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

	year := tuiYear
	if year <= 0 {
		year = time.Now().In(pillars.KST).Year()
	}

	// 파이프라인은 뷰어 안에서 비동기로 실행
	loader := func() (*tui.Result, error) {
		result, err := runPipeline(cfg, database, req, year, tuiTags)
		if err != nil {
			return nil, err
		}
		return &tui.Result{
			Chart:    result.Chart,
			Features: result.Features,
			Report:   result.Report,
		}, nil
	}

	return tui.Run(loader)
}
