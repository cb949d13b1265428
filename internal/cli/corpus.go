package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n0roo/saju-kit/internal/cards"
	"github.com/n0roo/saju-kit/internal/config"
	"github.com/n0roo/saju-kit/internal/server/events"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "규칙 카드 말뭉치 관리",
}

var corpusIndexCmd = &cobra.Command{
	Use:   "index [YAML 경로]",
	Short: "YAML 말뭉치를 DB에 색인",
	Long: `YAML 말뭉치를 읽어 DB rule_cards 테이블에 저장합니다.

경로를 생략하면 설정의 corpus.path, 그마저 없으면
~/.saju/corpus.yaml을 사용합니다. id/topic이 없는 레코드는
건너뛰고 건수만 보고합니다.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCorpusIndex,
}

var corpusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "말뭉치 현황",
	RunE:  runCorpusStats,
}

func init() {
	rootCmd.AddCommand(corpusCmd)
	corpusCmd.AddCommand(corpusIndexCmd)
	corpusCmd.AddCommand(corpusStatsCmd)
}

func runCorpusIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := config.CorpusPath()
	if cfg.Corpus.Path != "" {
		path = cfg.Corpus.Path
	}
	if len(args) == 1 {
		path = args[0]
	}

	loaded, skipped, err := cards.LoadYAML(path)
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	n, err := cards.ImportDB(database, loaded)
	if err != nil {
		return err
	}

	events.GetPublisher().PublishCorpusIndexed(n, skipped)

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(map[string]int{
			"indexed": n,
			"skipped": skipped,
		})
	}
	fmt.Printf("카드 %d장 색인 완료 (건너뜀 %d건): %s\n", n, skipped, database.Path())
	return nil
}

func runCorpusStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	store, err := loadStore(cfg, database)
	if err != nil {
		return err
	}

	topics := make(map[string]int)
	for _, t := range store.Topics() {
		topics[t] = len(store.ByTopic(t))
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"cards":  store.Size(),
			"topics": topics,
		})
	}

	fmt.Printf("카드 %d장, 토픽 %d개\n", store.Size(), len(topics))
	for _, t := range store.Topics() {
		fmt.Printf("  %s: %d장\n", t, topics[t])
	}
	return nil
}
