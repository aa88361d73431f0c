package config

import (
	"fmt"

	"github.com/kilianp07/skyops/infra/mqtt"
)

// MQTTConfig enables assignment and status notices over MQTT.
type MQTTConfig struct {
	Enabled     bool   `json:"enabled"`
	TopicPrefix string `json:"topic_prefix"`
	mqtt.Config `json:",squash"`
}

func (c *MQTTConfig) SetDefaults() {
	if c.TopicPrefix == "" {
		c.TopicPrefix = "skyops"
	}
	if c.ClientID == "" {
		c.ClientID = "skyops"
	}
	if c.Broker == "" {
		c.Broker = "tcp://localhost:1883"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
}

func (c MQTTConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.QoS > 2 {
		return fmt.Errorf("qos must be 0, 1 or 2")
	}
	if c.UseTLS && c.TLSConfig == nil && (c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "") {
		return fmt.Errorf("tls requires client_cert, client_key and ca_bundle")
	}
	return nil
}
