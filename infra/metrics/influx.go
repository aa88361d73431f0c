package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/skyops/core/events"
	corelogger "github.com/kilianp07/skyops/core/logger"
	coremetrics "github.com/kilianp07/skyops/core/metrics"
	"github.com/kilianp07/skyops/infra/logger"
)

// InfluxConfig locates an InfluxDB v2 bucket.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes one point per domain event.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      corelogger.Logger
	timeout  time.Duration
}

// NewInfluxSink creates a sink for the given endpoint. A trailing
// /api/v2/write on the URL is tolerated.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
		timeout:  5 * time.Second,
	}
}

// NewInfluxSinkWithFallback pings InfluxDB and returns NopSink when the
// health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

func (s *InfluxSink) write(p *write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, p)
}

func (s *InfluxSink) RecordMatch(ev events.MatchEvent) error {
	return s.write(write.NewPointWithMeasurement("match").
		AddTag("mission_id", ev.MissionID).
		AddTag("subject", ev.Subject).
		AddTag("urgent", strconv.FormatBool(ev.Urgent)).
		AddField("candidates", ev.Candidates).
		AddField("top_score", ev.TopScore).
		SetTime(ev.Time))
}

func (s *InfluxSink) RecordAssignment(ev events.AssignmentEvent) error {
	p := write.NewPointWithMeasurement("assignment").
		AddTag("mission_id", ev.Assignment.MissionID).
		AddTag("pilot_id", ev.Assignment.PilotID).
		AddTag("drone_id", ev.Assignment.DroneID).
		AddTag("result", assignmentResult(ev)).
		AddField("id", ev.Assignment.ID).
		SetTime(ev.Time)
	if ev.Err != nil {
		p.AddField("error", ev.Err.Error())
	}
	return s.write(p)
}

func (s *InfluxSink) RecordStatus(ev events.StatusEvent) error {
	return s.write(write.NewPointWithMeasurement("status_update").
		AddTag("kind", ev.Kind).
		AddTag("id", ev.ID).
		AddField("status", ev.Status).
		SetTime(ev.Time))
}

func (s *InfluxSink) RecordConflicts(ev events.ConflictsEvent) error {
	counts := countConflicts(ev.Conflicts)
	p := write.NewPointWithMeasurement("conflict_scan").
		AddField("total", len(ev.Conflicts)).
		SetTime(ev.Time)
	for key, n := range counts {
		p.AddField(string(key.kind)+"_"+string(key.severity), n)
	}
	return s.write(p)
}

func (s *InfluxSink) RecordReassignment(ev events.ReassignmentEvent) error {
	return s.write(write.NewPointWithMeasurement("reassignment").
		AddTag("mission_id", ev.MissionID).
		AddField("options", ev.Options).
		AddField("best_score", ev.BestScore).
		AddField("reason", ev.Reason).
		SetTime(ev.Time))
}
