// internal/config/config.go
package config

import "github.com/shopspring/decimal"

type Config struct {
	Logging LoggingConfig  `yaml:"logging"`
	HTTP    *HTTPConfig    `yaml:"http"`
	MQTT    *MQTTConfig    `yaml:"mqtt"`
	Loggers []LoggerConfig `yaml:"loggers"`
}

// ---- AMBIENT ----

type LoggingConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // console|json
}

type HTTPConfig struct {
	Listen string `yaml:"listen"`
}

type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`
	Retain      bool   `yaml:"retain"`
}

// ---- LOGGER ----

const (
	ConnectionPersistent = "persistent"
	ConnectionPerCycle   = "per_cycle"
)

type LoggerConfig struct {
	ID     string `yaml:"id"`
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Serial string `yaml:"serial"`

	PollIntervalS    int    `yaml:"poll_interval_s"`
	TimeoutMs        int    `yaml:"timeout_ms"`
	ReadAttempts     int    `yaml:"read_attempts"`
	OfflineThreshold uint32 `yaml:"offline_threshold"`
	Connection       string `yaml:"connection"`

	// Definition is a file path or a bundled inverter type.
	Definition         string       `yaml:"definition"`
	AdditionalRequests string       `yaml:"additional_requests"`
	EnforceValidation  bool         `yaml:"enforce_validation"`
	Items              []ItemConfig `yaml:"items"`

	Mirror []TargetConfig `yaml:"mirror"`
	Status *StatusConfig  `yaml:"status"`
}

// ItemConfig is an operator-defined item on top of the definition.
type ItemConfig struct {
	Name      string          `yaml:"name"`
	Group     string          `yaml:"group"`
	Rule      int             `yaml:"rule"`
	Registers string          `yaml:"registers"` // "0x0010, 17"
	Scale     decimal.Decimal `yaml:"scale"`
	Offset    decimal.Decimal `yaml:"offset"`
	Uom       string          `yaml:"uom"`
}

// ---- MIRROR TARGET ----

const (
	KindModbus = "modbus"
	KindIngest = "ingest"
)

type TargetConfig struct {
	ID        uint32         `yaml:"id"` // destination unit id
	Endpoint  string         `yaml:"endpoint"`
	Kind      string         `yaml:"kind"`
	TimeoutMs int            `yaml:"timeout_ms"`
	Memories  []MemoryConfig `yaml:"memories"`
}

type MemoryConfig struct {
	MemoryID uint16         `yaml:"memory_id"`
	Offsets  map[int]uint16 `yaml:"offsets"` // delta map; missing FC => 0
}

// ---- STATUS BLOCK ----

type StatusConfig struct {
	Endpoint   string `yaml:"endpoint"`
	Kind       string `yaml:"kind"`
	UnitID     uint8  `yaml:"unit_id"`
	Slot       uint16 `yaml:"slot"`
	DeviceName string `yaml:"device_name"`
}
