package model

// -----------------------------------------------------------------
// Monitor API Response Models
// -----------------------------------------------------------------

// MonitorResponse is the main response for the monitor API
type MonitorResponse struct {
	Status           string       `json:"status"` // "healthy", "idle"
	Connections      ConnStats    `json:"connections"`
	Rooms            RoomStats    `json:"rooms"`
	Clients          []ClientInfo `json:"clients"`
	DeliveryFailures uint64       `json:"deliveryFailures"` // fan-out writes dropped since start
}

// ConnStats holds connection-related statistics
type ConnStats struct {
	TotalConnections int `json:"totalConnections"` // live websocket sessions
	TotalUsers       int `json:"totalUsers"`       // distinct users with at least one session
}

// RoomStats holds transport-level room join statistics
type RoomStats struct {
	TotalJoinedRooms int        `json:"totalJoinedRooms"` // rooms with at least one joined session
	TypingUsers      int        `json:"typingUsers"`      // (room, user) pairs currently typing
	RoomDetails      []RoomInfo `json:"roomDetails"`
}

// RoomInfo contains information about a single joined room
type RoomInfo struct {
	ConversationID string   `json:"conversationId"`
	JoinedClients  int      `json:"joinedClients"`
	UserIDs        []string `json:"userIds"` // users with a joined session
}

// ClientInfo contains information about a connected client
type ClientInfo struct {
	ClientID    string   `json:"clientId"`
	UserID      string   `json:"userId"`
	JoinedRooms []string `json:"joinedRooms"`
}
