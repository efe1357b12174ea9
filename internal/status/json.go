package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Phase         string       `json:"phase"`
	Charging      bool         `json:"charging"`
	FeedbackOn    bool         `json:"feedback_on"`
	RemainingMs   int64        `json:"remaining_ms"`
	LimitMs       int64        `json:"limit_ms"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of gesture/session counts.
type CountsJSON struct {
	SinglePresses int `json:"single_presses"`
	DoublePresses int `json:"double_presses"`
	LongHolds     int `json:"long_holds"`
	Sessions      int `json:"sessions"`
	Extensions    int `json:"extensions"`
	Stops         int `json:"stops"`
	Interlocks    int `json:"interlocks"`
	Lockouts      int `json:"lockouts"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPPort    string `json:"http_port"`
	WSBroker    string `json:"ws_broker,omitempty"`
	SPIDevice   string `json:"spi_device,omitempty"`
	PinCoil     int    `json:"pin_coil"`
	PinCharge   int    `json:"pin_charge"`
	PinButton   int    `json:"pin_button"`
}

func buildInner(snap Snapshot) StatusInner {
	phase := string(snap.Phase)
	if phase == "" {
		phase = "UNKNOWN"
	}

	return StatusInner{
		Phase:         phase,
		Charging:      snap.Charging,
		FeedbackOn:    snap.FeedbackOn,
		RemainingMs:   snap.RemainingMs,
		LimitMs:       snap.LimitMs,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			SinglePresses: snap.Counts.SinglePresses,
			DoublePresses: snap.Counts.DoublePresses,
			LongHolds:     snap.Counts.LongHolds,
			Sessions:      snap.Counts.Sessions,
			Extensions:    snap.Counts.Extensions,
			Stops:         snap.Counts.Stops,
			Interlocks:    snap.Counts.Interlocks,
			Lockouts:      snap.Counts.Lockouts,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPPort:    snap.Config.HTTPPort,
			WSBroker:    snap.Config.WSBroker,
			SPIDevice:   snap.Config.SPIDevice,
			PinCoil:     snap.Config.PinCoil,
			PinCharge:   snap.Config.PinCharge,
			PinButton:   snap.Config.PinButton,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
