package main

import (
	"flag"
	"log"
	"os"

	"github.com/cdmi123/progress-report/internal/app"
	"github.com/cdmi123/progress-report/internal/config"
	"github.com/cdmi123/progress-report/pkg/logger"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	flag.Parse()

	out := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.LoadConfig(*configDir)
	errAndDie(out, err)
	logger.InitLogger(cfg)
	defer logger.Close()

	db, rdb, err := app.Connect(cfg)
	errAndDie(out, err)
	application := app.New(cfg, db, rdb)
	defer application.Close()

	cli := commandLine{
		staff: application.Services.Staff,
		sync:  application.Services.Sync,
		out:   os.Stdout,
	}
	args := append([]string{os.Args[0]}, flag.Args()...)
	if err := cli.run(args); err != nil {
		if err != errHelp {
			out.Printf("error: %s", err)
		}
		application.Close()
		os.Exit(1)
	}
}

func errAndDie(out *log.Logger, err error) {
	if err != nil {
		out.Fatal(err)
	}
}
