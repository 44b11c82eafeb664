package hub

import (
	"github.com/Dhrutik-Patel/CodeChat/internal/model"
)

// MonitorService provides methods to gather hub statistics
type MonitorService struct {
	hub *Hub
}

// NewMonitorService creates a new monitor service
func NewMonitorService(hub *Hub) *MonitorService {
	return &MonitorService{hub: hub}
}

// GetStats gathers and returns all hub statistics
func (ms *MonitorService) GetStats() model.MonitorResponse {
	connStats := ms.getConnStats()
	roomStats := ms.getRoomStats()
	clients := ms.getClientList()

	// Determine overall health status
	status := "healthy"
	if connStats.TotalConnections == 0 {
		status = "idle"
	}

	return model.MonitorResponse{
		Status:           status,
		Connections:      connStats,
		Rooms:            roomStats,
		Clients:          clients,
		DeliveryFailures: ms.hub.DeliveryFailures(),
	}
}

func (ms *MonitorService) getConnStats() model.ConnStats {
	connections, users := ms.hub.registry.Counts()
	return model.ConnStats{
		TotalConnections: connections,
		TotalUsers:       users,
	}
}

// getRoomStats walks the join-index shards to describe every room with at
// least one joined session.
func (ms *MonitorService) getRoomStats() model.RoomStats {
	stats := model.RoomStats{
		RoomDetails: make([]model.RoomInfo, 0),
		TypingUsers: ms.hub.typing.count(),
	}

	for _, bucket := range ms.hub.rooms.shards {
		bucket.RLock()
		for roomID, room := range bucket.rooms {
			seen := make(map[string]struct{}, len(room))
			userIDs := make([]string, 0, len(room))
			for _, c := range room {
				if _, ok := seen[c.userID]; ok {
					continue
				}
				seen[c.userID] = struct{}{}
				userIDs = append(userIDs, c.userID)
			}

			stats.RoomDetails = append(stats.RoomDetails, model.RoomInfo{
				ConversationID: roomID,
				JoinedClients:  len(room),
				UserIDs:        userIDs,
			})
			stats.TotalJoinedRooms++
		}
		bucket.RUnlock()
	}

	return stats
}

func (ms *MonitorService) getClientList() []model.ClientInfo {
	clients := make([]model.ClientInfo, 0)

	ms.hub.registry.ForEach(func(c *Client) {
		clients = append(clients, model.ClientInfo{
			ClientID:    c.ID,
			UserID:      c.userID,
			JoinedRooms: c.JoinedRooms(),
		})
	})

	return clients
}
