package main

import (
	"log"
	"os"

	"github.com/sodaslab/ghmarket/internal/cli"
)

func main() {
	log.SetFlags(0)

	if err := cli.NewApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
