// internal/writer/mqtt/publisher.go
package mqtt

import (
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	cfg "github.com/tamzrod/solarman-poller/internal/config"
	"github.com/tamzrod/solarman-poller/internal/decode"
	"github.com/tamzrod/solarman-poller/internal/poller"
)

const defaultPublishTimeout = 5 * time.Second

// publishClient is the part of paho.Client the publisher uses.
type publishClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

type Config struct {
	TopicPrefix string
	QoS         byte
	Retain      bool
	Timeout     time.Duration
}

// Publisher sends decoded readings and logger state to an MQTT broker.
//
// Topics:
//
//	<prefix>/<logger>/<channel_id>   value
//	<prefix>/<logger>/status         state, always retained
type Publisher struct {
	client publishClient
	cfg    Config
	log    zerolog.Logger
}

func New(client publishClient, c Config, log zerolog.Logger) *Publisher {
	if c.Timeout <= 0 {
		c.Timeout = defaultPublishTimeout
	}
	return &Publisher{
		client: client,
		cfg:    c,
		log:    log.With().Str("component", "mqtt").Logger(),
	}
}

// Connect dials the broker described by mc and returns a publisher over it.
// The returned func disconnects.
func Connect(mc cfg.MQTTConfig, log zerolog.Logger) (*Publisher, func(), error) {
	opts := paho.NewClientOptions().
		AddBroker(mc.Broker).
		SetClientID(mc.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)
	if mc.Username != "" {
		opts.SetUsername(mc.Username)
		opts.SetPassword(mc.Password)
	}

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, nil, fmt.Errorf("mqtt: connect %s: %w", mc.Broker, token.Error())
	}

	p := New(client, Config{
		TopicPrefix: mc.TopicPrefix,
		QoS:         mc.QoS,
		Retain:      mc.Retain,
	}, log)
	p.log.Info().Str("broker", mc.Broker).Msg("connected")

	return p, func() { client.Disconnect(250) }, nil
}

// Topic returns the topic of one channel of a logger.
func (p *Publisher) Topic(loggerID, channel string) string {
	return p.cfg.TopicPrefix + "/" + loggerID + "/" + channel
}

// Write publishes the logger state and, for reachable cycles, every reading.
func (p *Publisher) Write(res poller.PollResult) error {
	tokens := []pending{{
		topic: p.Topic(res.LoggerID, "status"),
		token: p.client.Publish(p.Topic(res.LoggerID, "status"), p.cfg.QoS, true, res.Status.State.String()),
	}}

	if res.Reachable {
		for _, r := range res.Readings {
			topic := p.Topic(res.LoggerID, r.Item.ID)
			tokens = append(tokens, pending{
				topic: topic,
				token: p.client.Publish(topic, p.cfg.QoS, p.cfg.Retain, Payload(r.Value)),
			})
		}
	}

	var errs []error
	for _, t := range tokens {
		if !t.token.WaitTimeout(p.cfg.Timeout) {
			errs = append(errs, fmt.Errorf("mqtt: publish %s: timeout", t.topic))
			continue
		}
		if err := t.token.Error(); err != nil {
			errs = append(errs, fmt.Errorf("mqtt: publish %s: %w", t.topic, err))
		}
	}

	p.log.Debug().
		Str("logger", res.LoggerID).
		Int("published", len(tokens)).
		Int("failed", len(errs)).
		Msg("cycle published")

	return errors.Join(errs...)
}

type pending struct {
	topic string
	token paho.Token
}

// Payload is the message body of a reading. Numbers are sent bare, without
// their unit, so subscribers can parse them.
func Payload(v decode.Value) string {
	if v.Kind == decode.KindNumeric {
		return v.Number.String()
	}
	return v.Text
}
