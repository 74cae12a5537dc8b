package model

// Status labels reported by the diagnostics endpoint.
const (
	StatusBackendRunning       = "✅ Running"
	StatusDatabaseNotAvailable = "❌ Not Available"
	StatusDatabaseNotInit      = "⚠️ Available but not initialized"
	StatusDatabaseAvailable    = "✅ Available"
	StatusDatabaseWorking      = "✅ Connected & Working"
	StatusDatabaseListErrorFmt = "⚠️ Connected but Error: %s"
	StatusDatabaseErrorFmt     = "❌ Error: %s"

	ConnectionNotConnected = "Not Connected"
	ConnectionConnected    = "Connected"

	EnvSet    = "✅ Set"
	EnvNotSet = "❌ Not Set"
)

// DiagnosticsSnapshot is a point-in-time view of backend and database health.
// It is rebuilt on every request.
type DiagnosticsSnapshot struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}
