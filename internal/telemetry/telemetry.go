// Package telemetry records persistence operation timings to InfluxDB.
// Opt-in via config; when disabled or unreachable every call is a no-op
// so the editor never depends on a metrics backend being up.
package telemetry

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Manager handles the InfluxDB connection and writes.
type Manager struct {
	client  influxdb2.Client
	writer  influxdb2_api.WriteAPI
	isValid bool
	logger  zerolog.Logger
}

// NewManager creates a new telemetry manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{logger: log}
}

// Connect establishes a connection to InfluxDB using viper settings.
// A failed ping leaves the manager disabled rather than erroring the
// editor startup.
func (m *Manager) Connect() error {
	if !viper.GetBool("influx.enabled") {
		return nil
	}

	m.client = influxdb2.NewClientWithOptions(
		fmt.Sprintf(
			"%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(100).
			SetFlushInterval(1000),
	)

	running, err := m.client.Ping(context.Background())
	if err != nil || !running {
		m.isValid = false
		m.logger.Warn().Err(err).Msg("InfluxDB unreachable, operation telemetry disabled")
		return nil
	}

	m.writer = m.client.WriteAPI(
		viper.GetString("influx.org"),
		viper.GetString("influx.bucket"),
	)
	m.isValid = true
	m.logger.Info().Msg("Connected to InfluxDB")
	return nil
}

// RecordOperation writes one point per finished persistence operation.
func (m *Manager) RecordOperation(kind, path string, duration time.Duration, opErr error) {
	if !m.isValid {
		return
	}
	p := influxdb2.NewPointWithMeasurement("persist_operation").
		AddTag("kind", kind).
		AddTag("ok", fmt.Sprintf("%t", opErr == nil)).
		AddField("path", path).
		AddField("duration_ms", duration.Milliseconds()).
		SetTime(time.Now())
	m.writer.WritePoint(p)
}

// Close flushes pending points and shuts the client down.
func (m *Manager) Close() {
	if m.client != nil {
		if m.writer != nil {
			m.writer.Flush()
		}
		m.client.Close()
	}
}
