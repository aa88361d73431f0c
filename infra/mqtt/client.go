package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	corelogger "github.com/kilianp07/skyops/core/logger"
	"github.com/kilianp07/skyops/core/monitoring"
	coremqtt "github.com/kilianp07/skyops/core/mqtt"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker         string      `json:"broker"`
	ClientID       string      `json:"client_id"`
	Username       string      `json:"username"`
	Password       string      `json:"password"`
	UseTLS         bool        `json:"use_tls"`
	ClientCert     string      `json:"client_cert"`
	ClientKey      string      `json:"client_key"`
	CABundle       string      `json:"ca_bundle"`
	QoS            byte        `json:"qos"`
	Retain         bool        `json:"retain"`
	LWTTopic       string      `json:"lwt_topic"`
	LWTPayload     string      `json:"lwt_payload"`
	MaxRetries     int         `json:"max_retries"`
	BackoffMS      int         `json:"backoff_ms"`
	PublishTimeout int         `json:"publish_timeout_ms"`
	TLSConfig      *tls.Config `json:"-"`
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// PahoClient publishes notices through Eclipse Paho.
type PahoClient struct {
	cli        pahoClient
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	timeout    time.Duration
	log        corelogger.Logger
	mon        monitoring.Monitor
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// NewPahoClient connects to the broker.
func NewPahoClient(cfg Config, log corelogger.Logger, mon monitoring.Monitor) (*PahoClient, error) {
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log = corelogger.OrNop(log)
	pc := &PahoClient{
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		timeout:    time.Duration(cfg.PublishTimeout) * time.Millisecond,
		log:        log,
		mon:        monitoring.OrNop(mon),
	}
	if pc.maxRetries < 0 {
		pc.maxRetries = 0
	}
	if pc.backoff <= 0 {
		pc.backoff = 100 * time.Millisecond
	}
	if pc.timeout <= 0 {
		pc.timeout = 5 * time.Second
	}

	opts.OnConnect = func(paho.Client) { log.Infof("MQTT connected to %s", cfg.Broker) }
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, token.Error())
	}
	pc.cli = c
	return pc, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.QoS, true)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// Publish sends payload to topic, retrying with exponential backoff.
// The final failure is reported to the monitor.
func (p *PahoClient) Publish(topic string, payload []byte) error {
	if p.cli == nil || !p.cli.IsConnected() {
		return coremqtt.ErrNotConnected
	}
	var err error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.qos, p.retain, payload)
		if !token.WaitTimeout(p.timeout) {
			err = coremqtt.ErrPublishTimeout
		} else {
			err = token.Error()
		}
		if err == nil {
			p.log.Debugf("published %d bytes to %s", len(payload), topic)
			return nil
		}
		p.log.Errorf("publish attempt %d to %s failed: %v", attempt+1, topic, err)
		if attempt < p.maxRetries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	err = fmt.Errorf("publish %s: %w", topic, err)
	p.mon.CaptureException(err, map[string]string{"module": "mqtt", "topic": topic})
	return err
}

// Disconnect gracefully closes the MQTT connection.
func (p *PahoClient) Disconnect() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}

var _ coremqtt.Publisher = (*PahoClient)(nil)
