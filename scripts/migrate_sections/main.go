package main

import (
	"fmt"
	"os"

	"github.com/pagecraft/internal/config"
	"github.com/pagecraft/internal/db"
	"github.com/pagecraft/internal/service"
	flag "github.com/spf13/pflag"
)

// 将仅有旧版文档的区块迁移为草稿/发布两态，可重复执行
func main() {
	cfg := config.Load()

	var dbPath string
	flag.StringVar(&dbPath, "db", cfg.DatabasePath, "sqlite db path")
	flag.Parse()

	if err := db.Init(dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "init db: %v\n", err)
		os.Exit(1)
	}

	report, err := service.NewSectionService(db.DB).MigrateAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate sections: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("done: migrated %d, skipped %d, empty %d\n", report.Migrated, report.Skipped, report.Empty)
}
