// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/solarman-poller/internal/v5"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is empty")
	}
	if len(cfg.Loggers) == 0 {
		return errors.New("no loggers defined")
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format %q: must be console or json", cfg.Logging.Format)
	}

	if cfg.MQTT != nil {
		if cfg.MQTT.Broker == "" {
			return errors.New("mqtt.broker is required when mqtt is set")
		}
		if cfg.MQTT.QoS > 2 {
			return fmt.Errorf("mqtt.qos %d: must be 0, 1 or 2", cfg.MQTT.QoS)
		}
	}

	if cfg.HTTP != nil && cfg.HTTP.Listen == "" {
		return errors.New("http.listen is required when http is set")
	}

	ids := make(map[string]struct{}, len(cfg.Loggers))

	for _, l := range cfg.Loggers {
		if l.ID == "" {
			return errors.New("logger: id is required")
		}
		if _, dup := ids[l.ID]; dup {
			return fmt.Errorf("logger %q: duplicate id", l.ID)
		}
		ids[l.ID] = struct{}{}

		if err := validateLogger(l); err != nil {
			return fmt.Errorf("logger %q: %w", l.ID, err)
		}
	}

	return validateStatusSlots(cfg.Loggers)
}

func validateLogger(l LoggerConfig) error {
	if l.Host == "" {
		return errors.New("host is required")
	}
	if l.Port <= 0 || l.Port > 65535 {
		return fmt.Errorf("port %d out of range", l.Port)
	}
	if _, err := v5.ParseSerial(l.Serial); err != nil {
		return err
	}
	if l.Definition == "" {
		return errors.New("definition is required")
	}
	if l.PollIntervalS < 0 {
		return fmt.Errorf("poll_interval_s %d must not be negative", l.PollIntervalS)
	}
	if l.TimeoutMs < 0 || l.ReadAttempts < 0 {
		return errors.New("timeout_ms and read_attempts must not be negative")
	}

	switch l.Connection {
	case "", ConnectionPersistent, ConnectionPerCycle:
	default:
		return fmt.Errorf("connection %q: must be %s or %s", l.Connection, ConnectionPersistent, ConnectionPerCycle)
	}

	for _, it := range l.Items {
		if it.Name == "" {
			return errors.New("items: name is required")
		}
		if strings.TrimSpace(it.Registers) == "" {
			return fmt.Errorf("item %q: registers are required", it.Name)
		}
	}

	for _, t := range l.Mirror {
		if t.Endpoint == "" {
			return errors.New("mirror: endpoint is required")
		}
		if t.ID > 255 {
			return fmt.Errorf("mirror %s: id %d out of unit id range", t.Endpoint, t.ID)
		}
		if err := validateKind(t.Kind); err != nil {
			return fmt.Errorf("mirror %s: %w", t.Endpoint, err)
		}
	}

	if l.Status != nil {
		if l.Status.Endpoint == "" {
			return errors.New("status: endpoint is required")
		}
		if err := validateKind(l.Status.Kind); err != nil {
			return fmt.Errorf("status: %w", err)
		}
		// device_name sanity (ASCII only)
		for i := 0; i < len(l.Status.DeviceName); i++ {
			if l.Status.DeviceName[i] > 0x7F {
				return errors.New("status: device_name must contain ASCII characters only")
			}
		}
	}

	return nil
}

func validateKind(kind string) error {
	switch kind {
	case "", KindModbus, KindIngest:
		return nil
	}
	return fmt.Errorf("kind %q: must be %s or %s", kind, KindModbus, KindIngest)
}

// validateStatusSlots rejects two loggers sharing one status block.
// key = endpoint | unit_id | slot
func validateStatusSlots(loggers []LoggerConfig) error {
	owner := make(map[string]string)

	for _, l := range loggers {
		if l.Status == nil {
			continue
		}

		key := fmt.Sprintf("%s|%d|%d", l.Status.Endpoint, l.Status.UnitID, l.Status.Slot)

		if prev, exists := owner[key]; exists {
			return fmt.Errorf(
				"status slot collision: endpoint=%s unit_id=%d slot=%d used by loggers %q and %q",
				l.Status.Endpoint,
				l.Status.UnitID,
				l.Status.Slot,
				prev,
				l.ID,
			)
		}
		owner[key] = l.ID
	}

	return nil
}
