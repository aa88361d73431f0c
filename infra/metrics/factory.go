package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/skyops/core/factory"
	coremetrics "github.com/kilianp07/skyops/core/metrics"
)

// PromConfig holds the prometheus sink settings.
type PromConfig struct {
	Port string `json:"prometheus_port"`
}

func init() {
	_ = coremetrics.RegisterMetricsSink("prometheus", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c PromConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		// The port is only used by StartPromServer.
		s, err := NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
		if err != nil {
			return nil, err
		}
		return s, nil
	})

	_ = coremetrics.RegisterMetricsSink("influx", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})
}

// PromAddr returns the listen address of the first prometheus sink, or ""
// when none is configured.
func PromAddr(cfgs []factory.ModuleConfig) string {
	for _, c := range cfgs {
		if c.Type != "prometheus" {
			continue
		}
		var pc PromConfig
		if err := factory.Decode(c.Conf, &pc); err == nil && pc.Port != "" {
			return pc.Port
		}
		return ":9100"
	}
	return ""
}
