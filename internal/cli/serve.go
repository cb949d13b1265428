package cli

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/n0roo/saju-kit/internal/cache"
	"github.com/n0roo/saju-kit/internal/matchlog"
	"github.com/n0roo/saju-kit/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "HTTP API 서버 실행",
	Long: `사주 API 서버를 실행합니다.

엔드포인트:
  POST /api/chart         사주 계산
  POST /api/analyze       특성 파생
  POST /api/report        섹션별 리포트
  GET  /api/corpus/stats  말뭉치 현황
  GET  /api/log/recent    최근 매칭 로그
  GET  /api/events        SSE 이벤트 스트림`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "포트 (기본: 설정의 server.port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	port := cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	c := cache.New(database, cfg.Cache.ChartTTL.Std(), cfg.Cache.SourceTTL.Std())

	store, err := loadStore(cfg, database)
	if err != nil {
		return err
	}

	srv := server.New(port, server.Deps{
		Pillars: buildEngine(cfg, c),
		Store:   store,
		Match:   newMatchEngine(cfg, store),
		Cache:   c,
		Log:     matchlog.New(database),
	})

	// SIGINT/SIGTERM 시 정리 후 종료
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("종료 신호 수신, 서버 정리 중...")
		if err := srv.Stop(); err != nil {
			log.Printf("서버 종료 실패: %v", err)
		}
	}()

	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("서버 실행 실패: %w", err)
	}
	return nil
}
