package net

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
)

var (
	ErrQuit       = errors.New("quit")
	ErrHelp       = errors.New("help")
	ErrBadCommand = errors.New("bad command")
)

const helpText = `Commands:
  start B A T        start with B beats, A actions and T tries
  party N            start with preset N
  seed B B A2 T ...  start with an explicit flag list
  draw B A ...       draw flags into the hand
  bonus T ...        draw bonus flags
  change N F         replace hand slot N (1-based) with flag F
  end                end the turn
  predict CMD; CMD   try commands without applying them
  state              show the battle
  quit`

// Client talks to a session server and provides a terminal REPL.
type Client struct {
	conn io.ReadWriter
	in   io.Reader
	out  io.Writer
}

// NewClient creates a REPL client over conn reading commands from in.
func NewClient(conn io.ReadWriter, in io.Reader, out io.Writer) *Client {
	return &Client{conn: conn, in: in, out: out}
}

// Connect dials a server and runs the REPL on in/out.
func Connect(ctx context.Context, addr string, in io.Reader, out io.Writer) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	fmt.Fprintf(out, "Connected to %s. Type \"help\" for commands.\n", addr)
	return NewClient(conn, in, out).RunREPL(ctx)
}

// RunREPL reads commands until "quit" or end of input, sending each to the
// server and rendering the reply.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)
	scanner := bufio.NewScanner(c.in)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		msg, err := ParseCommand(line)
		switch {
		case errors.Is(err, ErrQuit):
			return nil
		case errors.Is(err, ErrHelp):
			fmt.Fprintln(c.out, helpText)
			continue
		case err != nil:
			fmt.Fprintln(c.out, err)
			continue
		}

		if err := enc.Encode(msg); err != nil {
			return fmt.Errorf("send %s: %w", msg.Type, err)
		}
		var reply ServerMessage
		if err := dec.Decode(&reply); err != nil {
			return fmt.Errorf("read reply: %w", err)
		}
		c.render(reply)
	}
}

// ParseCommand turns one REPL line into a ClientMessage.
func ParseCommand(line string) (ClientMessage, error) {
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ClientMessage{}, fmt.Errorf("%w: empty", ErrBadCommand)
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit", "q":
		return ClientMessage{}, ErrQuit
	case "help", "?":
		return ClientMessage{}, ErrHelp
	case "start":
		if len(args) != 3 {
			return ClientMessage{}, fmt.Errorf("%w: usage: start BEATS ACTIONS TRIES", ErrBadCommand)
		}
		n, err := atois(args)
		if err != nil {
			return ClientMessage{}, err
		}
		return ClientMessage{Type: MsgStart, Beat: n[0], Action: n[1], Try: n[2]}, nil
	case "party":
		if len(args) != 1 {
			return ClientMessage{}, fmt.Errorf("%w: usage: party N", ErrBadCommand)
		}
		n, err := atois(args)
		if err != nil {
			return ClientMessage{}, err
		}
		return ClientMessage{Type: MsgStart, Party: n[0]}, nil
	case "seed":
		return ClientMessage{Type: MsgStart, Flags: args}, nil
	case "draw", "d":
		return ClientMessage{Type: MsgDrawHand, Flags: args}, nil
	case "bonus", "b":
		return ClientMessage{Type: MsgDrawBonus, Flags: args}, nil
	case "change", "c":
		if len(args) != 2 {
			return ClientMessage{}, fmt.Errorf("%w: usage: change SLOT FLAG", ErrBadCommand)
		}
		n, err := atois(args[:1])
		if err != nil {
			return ClientMessage{}, err
		}
		return ClientMessage{Type: MsgOrderChange, Index: n[0] - 1, Flag: args[1]}, nil
	case "end", "e":
		return ClientMessage{Type: MsgTurnEnd}, nil
	case "state", "s":
		return ClientMessage{Type: MsgState}, nil
	case "predict", "p":
		rest := strings.TrimSpace(line[len(fields[0]):])
		var steps []ClientMessage
		for _, part := range strings.Split(rest, ";") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			step, err := ParseCommand(part)
			if err != nil {
				return ClientMessage{}, err
			}
			switch step.Type {
			case MsgDrawHand, MsgDrawBonus, MsgOrderChange, MsgTurnEnd:
			default:
				return ClientMessage{}, fmt.Errorf("%w: cannot predict %q", ErrBadCommand, strings.TrimSpace(part))
			}
			steps = append(steps, step)
		}
		return ClientMessage{Type: MsgPredict, Steps: steps}, nil
	default:
		return ClientMessage{}, fmt.Errorf("%w: %q (try \"help\")", ErrBadCommand, fields[0])
	}
}

func atois(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrBadCommand, a)
		}
		out[i] = n
	}
	return out, nil
}

func (c *Client) render(msg ServerMessage) {
	switch msg.Type {
	case MsgError:
		fmt.Fprintf(c.out, "error: %s\n", msg.Error)
	case MsgPrediction:
		fmt.Fprintln(c.out, "Prediction (nothing applied):")
		c.renderState(msg.State)
	default:
		for _, ev := range msg.Events {
			fmt.Fprintf(c.out, "T%-2d %-11s| %s\n", ev.Turn, ev.Type, ev.Details)
		}
		c.renderState(msg.State)
	}
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}
	fmt.Fprintln(c.out, "╔══════════════════════════════════════════════╗")
	fmt.Fprintf(c.out, "║  Turn %d  Party %d\n", sv.Turn, sv.PartySize)
	fmt.Fprintf(c.out, "║  Stack:     %s\n", formatZone(sv.Stack))
	fmt.Fprintf(c.out, "║  Graveyard: %s\n", formatZone(sv.Graveyard))
	if sv.IsReserved {
		fmt.Fprintf(c.out, "║  Reserved:  %s\n", formatZone(sv.Reserved))
	}
	fmt.Fprintln(c.out, "╚══════════════════════════════════════════════╝")
	if len(sv.Hand) > 0 {
		fmt.Fprint(c.out, "Hand: ")
		for i, name := range sv.Hand {
			fmt.Fprintf(c.out, "[%d] %s  ", i+1, name)
		}
		fmt.Fprintln(c.out)
	}
	if len(sv.Bonus) > 0 {
		fmt.Fprintf(c.out, "Bonus: %s\n", strings.Join(sv.Bonus, " "))
	}
}

func formatZone(z ZoneView) string {
	return fmt.Sprintf("%2d  (B %d / A %d / T %d)", z.Total, z.Beat, z.Action, z.Try)
}
