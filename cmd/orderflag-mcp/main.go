package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/peterkuimelis/orderflag/internal/log"
	ofmcp "github.com/peterkuimelis/orderflag/internal/mcp"
)

func main() {
	parties := flag.String("parties", "parties.yaml", "path to party presets YAML file")
	logFile := flag.String("log", "", "write battle events to this file (stdout carries the MCP protocol)")
	flag.Parse()

	ofmcp.SetPartiesFile(*parties)
	if *logFile != "" {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.OutputPaths = []string{*logFile}
		logger, err := config.Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		ofmcp.SetEventLogger(func() log.EventLogger { return log.NewZapLogger(logger) })
	}

	s := server.NewMCPServer("orderflag", "1.0.0")
	ofmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
