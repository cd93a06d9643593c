package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pagecraft/internal/config"
	"github.com/pagecraft/internal/db"
	flag "github.com/spf13/pflag"
)

// 初始内容生成器：为首页写入每种区块类型各一个旧版（未迁移）区块
func main() {
	cfg := config.Load()

	var dbPath string
	flag.StringVar(&dbPath, "db", cfg.DatabasePath, "sqlite db path")
	flag.Parse()

	if err := db.Init(dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "init db: %v\n", err)
		os.Exit(1)
	}

	page, count, err := seedContent(db.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed content: %v\n", err)
		os.Exit(1)
	}

	log.Info("seeded legacy sections", "page", page.Slug, "count", count)
	fmt.Printf("done: %d sections on page %q, run migrate_sections to move them to draft/published\n", count, page.Slug)
}
