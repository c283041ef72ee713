package mqtt

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/muurk/hublink/internal/config"
	"github.com/muurk/hublink/internal/logging"
)

// CommandHandler receives one parsed command for one device address.
type CommandHandler func(addr uint16, cmd Command)

// Client handles the MQTT side of the bridge: it publishes device state
// snapshots and bridge events, and feeds inbound set-commands to the
// registered handler.
type Client struct {
	broker      string
	clientID    string
	username    string
	password    string
	topicPrefix string
	qos         byte

	client    paho.Client
	onCommand CommandHandler
}

// NewClient creates an MQTT client from the bridge configuration. The
// password comes from the caller (environment or prompt), never from
// the config file.
func NewClient(cfg *config.MQTTConfig, password string) *Client {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "hublink"
	}
	prefix := cfg.TopicPrefix
	if prefix == "" {
		prefix = "hublink"
	}
	qos := byte(cfg.QoS)
	if cfg.QoS < 0 || cfg.QoS > 2 {
		qos = 1
	}
	return &Client{
		broker:      cfg.Broker,
		clientID:    clientID,
		username:    cfg.Username,
		password:    password,
		topicPrefix: prefix,
		qos:         qos,
	}
}

// SetCommandHandler sets the callback for received set-commands.
// Set it before Connect.
func (c *Client) SetCommandHandler(handler CommandHandler) {
	c.onCommand = handler
}

// Connect establishes the connection to the MQTT broker. The broker
// keeps a retained bridge status topic: "online" while connected,
// "offline" as the last will.
func (c *Client) Connect() error {
	opts := paho.NewClientOptions()
	opts.AddBroker(c.broker)
	opts.SetClientID(c.clientID)
	if c.username != "" {
		opts.SetUsername(c.username)
		opts.SetPassword(c.password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)

	bridgeTopic := c.topicPrefix + "/bridge/status"
	opts.SetWill(bridgeTopic, "offline", c.qos, true)

	opts.SetOnConnectHandler(func(client paho.Client) {
		logging.Info("Connected to MQTT broker",
			zap.String("broker", c.broker),
			zap.String("client_id", c.clientID),
		)
		client.Publish(bridgeTopic, c.qos, true, "online")
		c.subscribe()
	})

	opts.SetConnectionLostHandler(func(client paho.Client, err error) {
		logging.Warn("MQTT connection lost", zap.Error(err))
	})

	c.client = paho.NewClient(opts)

	token := c.client.Connect()
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return nil
}

// subscribe subscribes to the command topics. Runs on every
// (re)connect, because the broker forgets subscriptions of clean
// sessions.
func (c *Client) subscribe() {
	cmdTopic := c.topicPrefix + "/cmd/+/set"
	token := c.client.Subscribe(cmdTopic, c.qos, func(client paho.Client, msg paho.Message) {
		addr, err := ParseCommandTopic(c.topicPrefix, msg.Topic())
		if err != nil {
			logging.Warn("Ignoring command on unparseable topic",
				zap.String("topic", msg.Topic()),
				zap.Error(err),
			)
			return
		}
		cmd, err := ParseCommand(msg.Payload())
		if err != nil {
			logging.Warn("Ignoring unparseable command payload",
				zap.String("topic", msg.Topic()),
				zap.Error(err),
			)
			return
		}
		if c.onCommand != nil {
			c.onCommand(addr, cmd)
		}
	})

	if token.Wait() && token.Error() != nil {
		logging.Error("Failed to subscribe to command topic",
			zap.String("topic", cmdTopic),
			zap.Error(token.Error()),
		)
		return
	}
	logging.Info("Subscribed to command topic", zap.String("topic", cmdTopic))
}

// Close publishes the offline status and disconnects.
func (c *Client) Close() {
	if c.client != nil && c.client.IsConnected() {
		bridgeTopic := c.topicPrefix + "/bridge/status"
		token := c.client.Publish(bridgeTopic, c.qos, true, "offline")
		token.Wait()
		c.client.Disconnect(1000)
	}
}

// IsConnected returns connection status
func (c *Client) IsConnected() bool {
	return c.client != nil && c.client.IsConnected()
}

// publish sends one payload, optionally retained.
func (c *Client) publish(topic string, payload []byte, retained bool) error {
	token := c.client.Publish(topic, c.qos, retained, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, token.Error())
	}
	return nil
}
