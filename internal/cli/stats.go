package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/n0roo/saju-kit/internal/matchlog"
)

var statsRecent int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "매칭 로그 집계",
	Long: `매칭 로그를 집계합니다: 요청 수, 카드 수, 연도별 분포,
가장 자주 매칭된 카드.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().IntVar(&statsRecent, "recent", 0, "최근 N건 목록도 출력")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	logger := matchlog.New(database)
	stats, err := logger.Summarize()
	if err != nil {
		return err
	}

	var recent []matchlog.Entry
	if statsRecent > 0 {
		if recent, err = logger.Recent(statsRecent); err != nil {
			return err
		}
	}

	if jsonOut {
		out := map[string]interface{}{"stats": stats}
		if recent != nil {
			out["recent"] = recent
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	fmt.Printf("요청 %d건, 매칭 카드 %d장 (평균 %.1f장/건)\n",
		stats.TotalRequests, stats.TotalCards, stats.AvgCards)

	if len(stats.ByYear) > 0 {
		years := make([]int, 0, len(stats.ByYear))
		for y := range stats.ByYear {
			years = append(years, y)
		}
		sort.Ints(years)
		fmt.Println("연도별:")
		for _, y := range years {
			fmt.Printf("  %d년: %d건\n", y, stats.ByYear[y])
		}
	}

	if len(stats.TopCards) > 0 {
		type cardCount struct {
			id string
			n  int
		}
		top := make([]cardCount, 0, len(stats.TopCards))
		for id, n := range stats.TopCards {
			top = append(top, cardCount{id, n})
		}
		sort.Slice(top, func(i, j int) bool {
			if top[i].n != top[j].n {
				return top[i].n > top[j].n
			}
			return top[i].id < top[j].id
		})
		if len(top) > 10 {
			top = top[:10]
		}
		fmt.Println("자주 매칭된 카드:")
		for _, c := range top {
			fmt.Printf("  %s: %d회\n", c.id, c.n)
		}
	}

	for _, e := range recent {
		fmt.Printf("%s  %d년  섹션 %d  카드 %d장  %s\n",
			e.RequestedAt.Format("2006-01-02 15:04"), e.TargetYear,
			e.SectionCount, e.CardCount, e.ID)
	}
	return nil
}
