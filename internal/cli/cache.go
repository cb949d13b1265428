package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n0roo/saju-kit/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "캐시 관리",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "사주/원천 캐시 비우기",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	c := cache.New(database, cfg.Cache.ChartTTL.Std(), cfg.Cache.SourceTTL.Std())
	n, err := c.Clear()
	if err != nil {
		return fmt.Errorf("캐시 삭제 실패: %w", err)
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(map[string]int64{"cleared": n})
	}
	fmt.Printf("캐시 %d건 삭제\n", n)
	return nil
}
