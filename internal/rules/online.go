package rules

import "fmt"

// Destination is where a chat message should be delivered.
type Destination int

const (
	DestinationNone Destination = iota
	DestinationOnlineManager
	DestinationLocal
)

func (d Destination) String() string {
	switch d {
	case DestinationNone:
		return "NONE"
	case DestinationOnlineManager:
		return "ONLINE_MANAGER"
	case DestinationLocal:
		return "LOCAL"
	default:
		return fmt.Sprintf("Destination(%d)", int(d))
	}
}

// RouteDealerChat sends dealer chat through the online manager when there
// is one, otherwise only to the locally displayed table.
func RouteDealerChat(hasOnlineManager, currentTable bool) Destination {
	switch {
	case hasOnlineManager:
		return DestinationOnlineManager
	case currentTable:
		return DestinationLocal
	default:
		return DestinationNone
	}
}

func RouteDirectorChat(hasOnlineManager bool) Destination {
	if hasOnlineManager {
		return DestinationOnlineManager
	}
	return DestinationLocal
}

func ShouldWaitForClient(host, remotePlayer bool) bool {
	return host && remotePlayer
}

func ShouldSendOnlyToWaitList(online, host bool) bool {
	return online && host
}
