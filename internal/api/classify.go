package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// GatewayState is the engine's view of the upstream market-data gateway,
// derived from backend responses. It drives the fetch scheduler's cadence.
type GatewayState string

const (
	GatewayConnected    GatewayState = "connected"    // Live gateway serving data
	GatewayBusy         GatewayState = "busy"         // Gateway up but occupied with another operation
	GatewayDisconnected GatewayState = "disconnected" // Gateway down, fallback source in use
	GatewayUnknown      GatewayState = "unknown"      // No signal yet, or an unclassified failure
)

// Advisory is the user-visible interpretation of a fetch failure.
type Advisory struct {
	State   GatewayState
	Message string
}

// Advisory message strings. The busy and disconnected strings must stay
// distinct; status widgets key off them.
const (
	MsgGatewayBusy         = "gateway busy, waiting for current operation to finish"
	MsgGatewayDisconnected = "gateway disconnected, using fallback data source"
	MsgFetchFailed         = "failed to load chart data"
)

// unavailableDetail is the detail payload of a 503 response.
type unavailableDetail struct {
	Detail struct {
		IBBusy        bool   `json:"ib_busy"`
		BusyOperation string `json:"busy_operation"`
		Message       string `json:"message"`
	} `json:"detail"`
}

// Classify maps a fetch error to a user-visible advisory.
//
// A 503 with the busy flag means the gateway is alive but occupied; a 503
// without it means the gateway is unreachable and the backend is falling back
// to an alternate source. Anything else is a generic failure.
func Classify(err error) Advisory {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusServiceUnavailable {
		return Advisory{State: GatewayUnknown, Message: MsgFetchFailed}
	}

	var detail unavailableDetail
	// Malformed detail bodies classify as disconnected; the status code alone
	// already establishes unavailability.
	json.Unmarshal(apiErr.Body, &detail)

	if detail.Detail.IBBusy {
		return Advisory{State: GatewayBusy, Message: MsgGatewayBusy}
	}
	return Advisory{State: GatewayDisconnected, Message: MsgGatewayDisconnected}
}
