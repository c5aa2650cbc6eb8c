package main

import (
	"context"
	"log"
	"os"

	"github.com/mutestr/mutestr/internal/buildinfo"
	"github.com/mutestr/mutestr/internal/cli"
	"github.com/mutestr/mutestr/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
