// Package util holds helpers for tests that need a real MQTT broker.
package util

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// BrokerReadyTimeout bounds the wait for the broker to accept clients.
const BrokerReadyTimeout = 10 * time.Second

const brokerConf = `listener 1883
allow_anonymous true
persistence false
log_dest stdout
log_type error
`

// Mosquitto starts an eclipse-mosquitto container for the duration of t and
// returns its tcp:// URL. The test is skipped when no container runtime is
// reachable.
func Mosquitto(t testing.TB) string {
	t.Helper()
	conf := filepath.Join(t.TempDir(), "mosquitto.conf")
	if err := os.WriteFile(conf, []byte(brokerConf), 0o644); err != nil {
		t.Fatalf("write broker config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctr, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "eclipse-mosquitto:2.0",
			ExposedPorts: []string{"1883/tcp"},
			WaitingFor:   wait.ForListeningPort("1883/tcp"),
			Files: []tc.ContainerFile{{
				HostFilePath:      conf,
				ContainerFilePath: "/mosquitto/config/mosquitto.conf",
				FileMode:          0o644,
			}},
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("mosquitto unavailable: %v", err)
	}
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	endpoint, err := ctr.PortEndpoint(ctx, "1883/tcp", "tcp")
	if err != nil {
		t.Fatalf("broker endpoint: %v", err)
	}
	readyCtx, stop := context.WithTimeout(ctx, BrokerReadyTimeout)
	defer stop()
	if err := probe(readyCtx, endpoint); err != nil {
		t.Fatalf("broker not ready: %v", err)
	}
	return endpoint
}

// Subscribe connects a client to broker and forwards every message on
// filter to the returned channel until t ends.
func Subscribe(t testing.TB, broker, filter string) <-chan paho.Message {
	t.Helper()
	out := make(chan paho.Message, 16)
	cli := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID(fmt.Sprintf("skyops-sub-%d", time.Now().UnixNano())))
	if tok := cli.Connect(); tok.Wait() && tok.Error() != nil {
		t.Fatalf("subscriber connect: %v", tok.Error())
	}
	t.Cleanup(func() { cli.Disconnect(100) })
	tok := cli.Subscribe(filter, 1, func(_ paho.Client, m paho.Message) {
		select {
		case out <- m:
		default:
		}
	})
	if tok.Wait() && tok.Error() != nil {
		t.Fatalf("subscribe %s: %v", filter, tok.Error())
	}
	return out
}

func probe(ctx context.Context, broker string) error {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("skyops-probe").SetConnectTimeout(time.Second)
	for {
		cli := paho.NewClient(opts)
		tok := cli.Connect()
		if tok.WaitTimeout(2*time.Second) && tok.Error() == nil {
			cli.Disconnect(100)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}
