package main

import (
	"fmt"
	"os"

	"github.com/pagecraft/internal/config"
	"github.com/pagecraft/internal/db"
	flag "github.com/spf13/pflag"
)

func main() {
	cfg := config.Load()

	var dbPath, username, password string
	flag.StringVar(&dbPath, "db", cfg.DatabasePath, "sqlite db path")
	flag.StringVarP(&username, "username", "u", "admin", "admin username")
	flag.StringVarP(&password, "password", "p", "", "admin password (required)")
	flag.Parse()

	if password == "" {
		fmt.Fprintln(os.Stderr, "password is required")
		flag.Usage()
		os.Exit(2)
	}

	// 初始化数据库
	if err := db.Init(dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "init db: %v\n", err)
		os.Exit(1)
	}

	created, err := db.EnsureUser(db.DB, username, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create user: %v\n", err)
		os.Exit(1)
	}
	if !created {
		fmt.Println("用户已存在，无需初始化")
		return
	}
	fmt.Printf("管理员用户创建成功: %s\n", username)
}
