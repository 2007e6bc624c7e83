package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/orderflag/internal/net"
)

// RegisterTools adds all battle tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startBattleTool(), handleStartBattle)
	s.AddTool(drawHandTool(), handleDrawHand)
	s.AddTool(drawBonusTool(), handleDrawBonus)
	s.AddTool(orderChangeTool(), handleOrderChange)
	s.AddTool(endTurnTool(), handleEndTurn)
	s.AddTool(predictTool(), handlePredict)
	s.AddTool(getStateTool(), handleGetState)
}

const flagsHelp = "Space-separated flags: B = Beat, A = Action, T = Try, optionally numbered (e.g. 'B A2 T')"

// --- Tool definitions ---

func startBattleTool() mcp.Tool {
	return mcp.NewTool("start_battle",
		mcp.WithDescription("Start a new battle, replacing any running one. Give a preset number, an explicit flag list, "+
			"or the beat/action/try counts (their sum must be a multiple of 5 between 5 and 25). Returns the initial state."),
		mcp.WithNumber("party", mcp.Description("Preset number (1-indexed from parties.yaml)")),
		mcp.WithString("flags", mcp.Description(flagsHelp)),
		mcp.WithNumber("beat", mcp.Description("Number of Beat flags")),
		mcp.WithNumber("action", mcp.Description("Number of Action flags")),
		mcp.WithNumber("try", mcp.Description("Number of Try flags")),
	)
}

func drawHandTool() mcp.Tool {
	return mcp.NewTool("draw_hand",
		mcp.WithDescription("Draw flags from the stack into this turn's hand. Fails without changing anything if a flag is not in the stack."),
		mcp.WithString("flags", mcp.Required(), mcp.Description(flagsHelp)),
	)
}

func drawBonusTool() mcp.Tool {
	return mcp.NewTool("draw_bonus",
		mcp.WithDescription("Draw bonus flags gained from an action. They are discarded with the hand at turn end."),
		mcp.WithString("flags", mcp.Required(), mcp.Description(flagsHelp)),
	)
}

func orderChangeTool() mcp.Tool {
	return mcp.NewTool("order_change",
		mcp.WithDescription("Discard the hand flag at index and draw the given flag in its place."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based hand slot")),
		mcp.WithString("flag", mcp.Required(), mcp.Description("Flag to draw, e.g. 'B' or 'A2'")),
	)
}

func endTurnTool() mcp.Tool {
	return mcp.NewTool("end_turn",
		mcp.WithDescription("Discard hand and bonus flags and start the next turn. Reserves the next stack when few flags remain."),
	)
}

func predictTool() mcp.Tool {
	return mcp.NewTool("predict",
		mcp.WithDescription("Show the state after a sequence of operations without applying them. Read-only."),
		mcp.WithString("steps", mcp.Required(), mcp.Description(
			"Semicolon-separated commands: 'draw FLAGS', 'bonus FLAGS', 'change SLOT FLAG' (1-based slot), 'end'. "+
				"Example: 'draw B A; end; draw T'")),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current battle state without changing it. Read-only."),
	)
}

// --- Tool handlers ---

func handleStartBattle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	msg := net.ClientMessage{
		Type:   net.MsgStart,
		Party:  request.GetInt("party", 0),
		Flags:  strings.Fields(request.GetString("flags", "")),
		Beat:   request.GetInt("beat", 0),
		Action: request.GetInt("action", 0),
		Try:    request.GetInt("try", 0),
	}
	return apply(msg), nil
}

func handleDrawHand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	flags := strings.Fields(request.GetString("flags", ""))
	if len(flags) == 0 {
		return mcp.NewToolResultError("flags must name at least one flag."), nil
	}
	return apply(net.ClientMessage{Type: net.MsgDrawHand, Flags: flags}), nil
}

func handleDrawBonus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	flags := strings.Fields(request.GetString("flags", ""))
	if len(flags) == 0 {
		return mcp.NewToolResultError("flags must name at least one flag."), nil
	}
	return apply(net.ClientMessage{Type: net.MsgDrawBonus, Flags: flags}), nil
}

func handleOrderChange(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index := request.GetInt("index", -1)
	flag := request.GetString("flag", "")
	if flag == "" {
		return mcp.NewToolResultError("flag is required."), nil
	}
	return apply(net.ClientMessage{Type: net.MsgOrderChange, Index: index, Flag: flag}), nil
}

func handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return apply(net.ClientMessage{Type: net.MsgTurnEnd}), nil
}

func handlePredict(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	msg, err := net.ParseCommand("predict " + request.GetString("steps", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid steps: %v", err), nil
	}
	return apply(msg), nil
}

func handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return apply(net.ClientMessage{Type: net.MsgState}), nil
}
