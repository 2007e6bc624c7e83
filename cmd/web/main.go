package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/peterkuimelis/orderflag/internal/store"
	"github.com/peterkuimelis/orderflag/internal/web"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port to listen on")
	partiesFile := flag.String("parties", "parties.yaml", "path to party presets YAML file")
	notesFile := flag.String("notes", "orderflag.db", "path to the notes database (empty to disable notes)")
	verbose := flag.Bool("verbose", false, "log battle events")
	flag.Parse()

	config := zap.NewProductionConfig()
	if *verbose {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var notes *store.Store
	if *notesFile != "" {
		notes, err = store.Open(context.Background(), *notesFile)
		if err != nil {
			logger.Fatal("open notes", zap.Error(err))
		}
		defer notes.Close()
	}

	srv := web.NewServer(web.Config{
		PartiesFile: *partiesFile,
		Notes:       notes,
		Logger:      logger,
	})

	addr := fmt.Sprintf(":%d", *port)
	logger.Sugar().Infof("orderflag web UI listening on http://localhost:%d", *port)
	if err := srv.ListenAndServe(addr); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}
