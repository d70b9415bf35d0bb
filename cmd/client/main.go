package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"contact-keeper/internal/client/cli"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "contact-keeper server URL")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(*server)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
