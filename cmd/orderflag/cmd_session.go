package main

import (
	"fmt"
	"io"
	stdnet "net"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peterkuimelis/orderflag/internal/log"
	ofnet "github.com/peterkuimelis/orderflag/internal/net"
)

var (
	playParty  int
	serveAddr  string
	joinAddr   string
	replayEcho bool
)

// playCmd runs a session in-process and drives it from the terminal.
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Track a battle in this terminal",
	Long: `Starts a local session and reads commands from standard input.
Type "help" at the prompt for the command list.

Example:
  orderflag play --party 3`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

// serveCmd hosts sessions for remote terminals.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host battle sessions over TCP",
	Long: `Listens for "orderflag join" clients. Every connection gets its own
battle; messages are JSON lines.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Connect to an orderflag server",
	Args:  cobra.NoArgs,
	RunE:  runJoin,
}

// replayCmd runs a command script and prints the event log.
var replayCmd = &cobra.Command{
	Use:   "replay [script]",
	Short: "Run a command script and print the battle log",
	Long: `Runs the REPL commands in the script file (or standard input) against a
fresh session and prints every battle event. Lines starting with # are
ignored. The first rejected command stops the replay.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	playCmd.Flags().IntVar(&playParty, "party", 0, "start with this preset (1-indexed)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":9000", "address to listen on")
	joinCmd.Flags().StringVar(&joinAddr, "addr", "localhost:9000", "server address to connect to")
	replayCmd.Flags().BoolVar(&replayEcho, "echo", false, "print each command before running it")
}

func newSession() *ofnet.Session {
	return ofnet.NewSession(ofnet.SessionConfig{
		PartiesFile: partiesFile,
		NewLogger:   func() log.EventLogger { return log.NewZapLogger(logger) },
	})
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// The REPL talks to the session over an in-memory pipe, the same way it
	// talks to a remote server.
	clientConn, serverConn := stdnet.Pipe()
	defer clientConn.Close()
	go func() {
		defer serverConn.Close()
		if err := ofnet.ServeConn(ctx, serverConn, newSession(), logger); err != nil {
			logger.Debug("local session ended", zap.Error(err))
		}
	}()

	var in io.Reader = cmd.InOrStdin()
	if playParty > 0 {
		in = io.MultiReader(strings.NewReader(fmt.Sprintf("party %d\n", playParty)), in)
	}
	fmt.Fprintln(cmd.OutOrStdout(), `Type "help" for commands.`)
	return ofnet.NewClient(clientConn, in, cmd.OutOrStdout()).RunREPL(ctx)
}

func runServe(cmd *cobra.Command, args []string) error {
	srv := &ofnet.Server{
		Addr:        serveAddr,
		PartiesFile: partiesFile,
		Logger:      logger,
	}
	return srv.Run(cmd.Context())
}

func runJoin(cmd *cobra.Command, args []string) error {
	return ofnet.Connect(cmd.Context(), joinAddr, cmd.InOrStdin(), cmd.OutOrStdout())
}

func runReplay(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		in = f
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	out := cmd.OutOrStdout()
	sess := ofnet.NewSession(ofnet.SessionConfig{
		PartiesFile: partiesFile,
		NewLogger:   func() log.EventLogger { return log.NewTextLogger(out) },
	})

	for n, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if replayEcho {
			fmt.Fprintf(out, "> %s\n", line)
		}
		msg, err := ofnet.ParseCommand(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", n+1, err)
		}
		if _, err := sess.Handle(msg); err != nil {
			return fmt.Errorf("line %d: %w", n+1, err)
		}
	}

	b := sess.Battle()
	if b == nil {
		return fmt.Errorf("script never started a battle")
	}
	v := b.Flags()
	fmt.Fprintf(out, "turn %d: stack %d, graveyard %d, reserved %d\n",
		b.Turn(), v.Stack().Count(), v.Graveyard().Count(), v.Reserved().Count())
	return nil
}
