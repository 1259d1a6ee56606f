package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophreveal/internal/client/cli"
	"github.com/dmitrijs2005/gophreveal/internal/client/config"
	"github.com/dmitrijs2005/gophreveal/internal/flagx"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	if err := app.Run(ctx, flagx.Positional(os.Args[1:], config.Flags)); err != nil {
		log.Fatalf("%v", err)
	}

}
