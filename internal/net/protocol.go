package net

// Message types for the JSON protocol shared by the TCP server, the web
// socket and the MCP tools.

// Client message types.
const (
	MsgStart       = "start"
	MsgDrawHand    = "draw_hand"
	MsgDrawBonus   = "draw_bonus"
	MsgOrderChange = "order_change"
	MsgTurnEnd     = "turn_end"
	MsgPredict     = "predict"
	MsgState       = "state"
)

// Server message types.
const (
	MsgUpdate     = "update"
	MsgPrediction = "prediction"
	MsgError      = "error"
)

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "draw_hand" and "draw_bonus", and "start" with an explicit seed
	Flags []string `json:"flags,omitempty"`

	// For "order_change": 0-based hand slot and the flag drawn in its place
	Index int    `json:"index,omitempty"`
	Flag  string `json:"flag,omitempty"`

	// For "start": flag counts, or a 1-indexed party preset
	Beat   int `json:"beat,omitempty"`
	Action int `json:"action,omitempty"`
	Try    int `json:"try,omitempty"`
	Party  int `json:"party,omitempty"`

	// For "predict": the operations to try, in order
	Steps []ClientMessage `json:"steps,omitempty"`
}

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type   string      `json:"type"`
	State  *StateView  `json:"state,omitempty"`
	Events []EventView `json:"events,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// EventView is a battle event for the client.
type EventView struct {
	Turn    int    `json:"turn"`
	Type    string `json:"type"`
	Flag    string `json:"flag,omitempty"`
	Stack   int    `json:"stack"`
	Details string `json:"details"`
}

// StateView is the battle as a client sees it.
type StateView struct {
	Turn       int      `json:"turn"`
	PartySize  int      `json:"party_size"`
	Hand       []string `json:"hand"`
	Bonus      []string `json:"bonus"`
	Stack      ZoneView `json:"stack"`
	Graveyard  ZoneView `json:"graveyard"`
	Reserved   ZoneView `json:"reserved"`
	IsReserved bool     `json:"is_reserved"`
	Drawable   ZoneView `json:"drawable"`
}

// ZoneView counts the flags of one zone by kind.
type ZoneView struct {
	Total  int      `json:"total"`
	Beat   int      `json:"beat"`
	Action int      `json:"action"`
	Try    int      `json:"try"`
	Flags  []string `json:"flags,omitempty"`
}
