// internal/config/normalize.go
package config

import "github.com/tamzrod/solarman-poller/internal/status"

const (
	DefaultPollIntervalS = 60
	DefaultTimeoutMs     = 10000
	DefaultReadAttempts  = 5
	DefaultTopicPrefix   = "solarman"
	DefaultClientID      = "solarman-poller"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.MQTT != nil {
		if cfg.MQTT.TopicPrefix == "" {
			cfg.MQTT.TopicPrefix = DefaultTopicPrefix
		}
		if cfg.MQTT.ClientID == "" {
			cfg.MQTT.ClientID = DefaultClientID
		}
	}

	for i := range cfg.Loggers {
		l := &cfg.Loggers[i]

		if l.PollIntervalS == 0 {
			l.PollIntervalS = DefaultPollIntervalS
		}
		if l.TimeoutMs == 0 {
			l.TimeoutMs = DefaultTimeoutMs
		}
		if l.ReadAttempts == 0 {
			l.ReadAttempts = DefaultReadAttempts
		}
		if l.OfflineThreshold == 0 {
			l.OfflineThreshold = status.DefaultOfflineThreshold
		}
		if l.Connection == "" {
			l.Connection = ConnectionPersistent
		}

		for j := range l.Mirror {
			if l.Mirror[j].Kind == "" {
				l.Mirror[j].Kind = KindModbus
			}
		}

		if l.Status == nil {
			continue
		}
		if l.Status.Kind == "" {
			l.Status.Kind = KindModbus
		}
		if l.Status.DeviceName == "" {
			l.Status.DeviceName = l.ID
		}
		// ASCII already validated
		if len(l.Status.DeviceName) > status.DeviceNameMaxChars {
			l.Status.DeviceName = l.Status.DeviceName[:status.DeviceNameMaxChars]
		}
	}
}
