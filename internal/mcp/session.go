package mcp

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/peterkuimelis/orderflag/internal/log"
	"github.com/peterkuimelis/orderflag/internal/net"
)

var (
	mu sync.Mutex

	// activeSession is the singleton battle session (one per stdio process).
	activeSession *net.Session

	// partiesFile is the path to the party presets YAML file, set by main.
	partiesFile string

	// newLogger builds the event logger of each battle, set by main.
	newLogger func() log.EventLogger
)

// SetPartiesFile sets the path to the party presets YAML file.
func SetPartiesFile(path string) {
	mu.Lock()
	defer mu.Unlock()
	partiesFile = path
}

// SetEventLogger sets the constructor for each battle's event logger.
func SetEventLogger(fn func() log.EventLogger) {
	mu.Lock()
	defer mu.Unlock()
	newLogger = fn
}

// session returns the active session, creating it on first use when create is set.
func session(create bool) *net.Session {
	mu.Lock()
	defer mu.Unlock()
	if activeSession == nil && create {
		activeSession = net.NewSession(net.SessionConfig{PartiesFile: partiesFile, NewLogger: newLogger})
	}
	return activeSession
}

// reset drops the active session.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	activeSession = nil
}

// apply sends msg to the active session and wraps the reply as a tool result.
func apply(msg net.ClientMessage) *mcp.CallToolResult {
	sess := session(msg.Type == net.MsgStart)
	if sess == nil {
		return mcp.NewToolResultError("No battle is running. Use start_battle first.")
	}
	reply, err := sess.Handle(msg)
	if err != nil {
		return mcp.NewToolResultError(reply.Error)
	}
	return mcp.NewToolResultText(respondJSON(reply))
}

// respondJSON marshals a ServerMessage to a JSON string.
func respondJSON(reply net.ServerMessage) string {
	if reply.Events == nil {
		reply.Events = []net.EventView{}
	}
	data, err := json.MarshalIndent(reply, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"type":"error","error":%q}`, err.Error())
	}
	return string(data)
}
