// Package publish delivers search outcomes and execution plans to a NATS
// JetStream cluster, the transport the reference router uses for every
// cross-process result it hands off (pkg/nats in the original OMS code).
package publish

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Client wraps a NATS connection with pathfinder-specific publish helpers.
type Client struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *logrus.Entry
	config *Config
}

// Config holds the JetStream connection and stream layout.
type Config struct {
	URL       string
	ClientID  string
	Streams   []StreamConfig
}

// StreamConfig defines one JetStream stream to provision on connect.
type StreamConfig struct {
	Name      string
	Subjects  []string
	Retention nats.RetentionPolicy
	MaxAge    time.Duration
	MaxMsgs   int64
}

// NewClient connects to NATS, opens a JetStream context and provisions the
// configured streams.
func NewClient(config *Config) (*Client, error) {
	logger := logrus.WithField("component", "pathfinder-publisher")

	opts := []nats.Option{
		nats.Name(config.ClientID),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Errorf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			logger.Errorf("NATS error: %v", err)
		}),
	}

	conn, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	client := &Client{conn: conn, js: js, logger: logger, config: config}
	if err := client.initializeStreams(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize streams: %w", err)
	}
	return client, nil
}

func (c *Client) initializeStreams() error {
	for _, streamConfig := range c.config.Streams {
		config := &nats.StreamConfig{
			Name:      streamConfig.Name,
			Subjects:  streamConfig.Subjects,
			Retention: streamConfig.Retention,
			MaxAge:    streamConfig.MaxAge,
			MaxMsgs:   streamConfig.MaxMsgs,
			Storage:   nats.FileStorage,
			Replicas:  1,
		}

		if _, err := c.js.StreamInfo(streamConfig.Name); err == nil {
			if _, err := c.js.UpdateStream(config); err != nil {
				return fmt.Errorf("failed to update stream %s: %w", streamConfig.Name, err)
			}
			c.logger.Infof("Updated stream: %s", streamConfig.Name)
		} else {
			if _, err := c.js.AddStream(config); err != nil {
				return fmt.Errorf("failed to create stream %s: %w", streamConfig.Name, err)
			}
			c.logger.Infof("Created stream: %s", streamConfig.Name)
		}
	}
	return nil
}

// Close closes the underlying NATS connection.
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// PublishOutcome publishes a path-search Outcome (spec.md §6's JSON
// contract) for a given request correlation ID.
func (c *Client) PublishOutcome(requestID string, outcome interface{ MarshalJSON() ([]byte, error) }) error {
	subject := OutcomeSubject(requestID)
	return c.publish(subject, outcome)
}

// PublishExecutionPlan publishes an execution-plan result for a given
// request correlation ID.
func (c *Client) PublishExecutionPlan(requestID string, plan interface{}) error {
	subject := ExecutionPlanSubject(requestID)
	return c.publish(subject, plan)
}

// PublishGuardBreach publishes a standalone alert when a search or
// execution-plan run breaches a guard, independent of the outcome
// message, so operators can alert on it without decoding the full result.
func (c *Client) PublishGuardBreach(requestID string, alert GuardBreachMessage) error {
	return c.publish(GuardBreachSubject(requestID), alert)
}

func (c *Client) publish(subject string, data interface{}) error {
	msg, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if _, err := c.js.Publish(subject, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	c.logger.Debugf("Published to %s", subject)
	return nil
}

// MessageHandler processes an incoming message.
type MessageHandler func(subject string, data []byte) error

// Subscribe subscribes to subject with handler, acking each delivery once
// handled.
func (c *Client) Subscribe(subject string, handler MessageHandler) (*Subscription, error) {
	sub, err := c.js.Subscribe(subject, func(msg *nats.Msg) {
		if err := handler(msg.Subject, msg.Data); err != nil {
			c.logger.Errorf("Handler error for %s: %v", msg.Subject, err)
		}
		msg.Ack()
	}, nats.Durable(fmt.Sprintf("pathfinder-%s", subject)))
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	c.logger.Infof("Subscribed to %s", subject)
	return &Subscription{sub: sub, logger: c.logger}, nil
}

// Subscription wraps a live NATS subscription.
type Subscription struct {
	sub    *nats.Subscription
	logger *logrus.Entry
}

// Unsubscribe cancels the subscription.
func (s *Subscription) Unsubscribe() error {
	if err := s.sub.Unsubscribe(); err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	s.logger.Info("Unsubscribed")
	return nil
}
