package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig mirrors the shipped defaults.
func validConfig() *Config {
	return &Config{
		App: AppConfig{Name: "inspiration-service", Version: "1.0.0", Environment: "local"},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  30 * time.Second,
			MaxRequestSize:  DefaultMaxRequestSize,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Client: ClientConfig{
			Timeout: 15 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     1,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      2,
				JitterFactor:    0.25,
			},
			CircuitBreaker: CircuitBreakerConfig{MaxFailures: 5, Timeout: 30 * time.Second, HalfOpenLimit: 3},
			Transport:      TransportConfig{MaxIdleConns: 100, MaxIdleConnsPerHost: 10, IdleConnTimeout: 90 * time.Second},
		},
		Quote: QuoteConfig{
			Endpoint:       DefaultQuoteEndpoint,
			MaxRetries:     2,
			InitialBackoff: time.Second,
			MaxBackoff:     10 * time.Second,
			Multiplier:     2,
			AttemptTimeout: 10 * time.Second,
			FetchOnStart:   true,
		},
		Features: map[string]bool{"quote-refresh": false},
	}
}

func TestValidate_Valid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "defaults"},
		{name: "no automatic retries", mutate: func(c *Config) { c.Quote.MaxRetries = 0 }},
		{name: "constant backoff", mutate: func(c *Config) { c.Quote.MaxBackoff = c.Quote.InitialBackoff }},
		{name: "unbounded write timeout", mutate: func(c *Config) { c.Server.WriteTimeout = 0 }},
		{name: "test environment", mutate: func(c *Config) { c.App.Environment = "test" }},
		{name: "trace logging", mutate: func(c *Config) { c.Log.Level = "trace" }},
		{name: "file logging with path", mutate: func(c *Config) {
			c.Log.File = LogFileConfig{Enabled: true, Path: "/var/log/quote.log", MaxSizeMB: 10}
		}},
		{name: "telemetry enabled", mutate: func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, Endpoint: "http://otel:4317", ServiceName: "quotes", SamplingRate: 0.5}
		}},
		{name: "no features", mutate: func(c *Config) { c.Features = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}

			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		key     string
		message string
	}{
		{name: "missing app name", mutate: func(c *Config) { c.App.Name = "" }, key: "app.name", message: "is required"},
		{name: "unknown environment", mutate: func(c *Config) { c.App.Environment = "staging" }, key: "app.environment", message: "must be one of"},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, key: "server.port", message: "is required"},
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 70000 }, key: "server.port", message: "must be at most 65535"},
		{name: "short request timeout", mutate: func(c *Config) { c.Server.RequestTimeout = time.Millisecond }, key: "server.request_timeout", message: "must be at least"},
		{name: "missing shutdown timeout", mutate: func(c *Config) { c.Server.ShutdownTimeout = 0 }, key: "server.shutdown_timeout", message: "is required"},
		{name: "negative write timeout", mutate: func(c *Config) { c.Server.WriteTimeout = -time.Second }, key: "server.write_timeout", message: "must be at least"},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "verbose" }, key: "log.level", message: "must be one of"},
		{name: "unknown log format", mutate: func(c *Config) { c.Log.Format = "xml" }, key: "log.format", message: "must be one of"},
		{name: "file logging without path", mutate: func(c *Config) { c.Log.File = LogFileConfig{Enabled: true} }, key: "log.file.path", message: "is required when"},
		{name: "huge log file", mutate: func(c *Config) { c.Log.File.MaxSizeMB = 4096 }, key: "log.file.max_size", message: "must be at most"},
		{name: "telemetry without endpoint", mutate: func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "quotes"}
		}, key: "telemetry.endpoint", message: "is required when"},
		{name: "telemetry bad endpoint", mutate: func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "quotes", Endpoint: "not a url"}
		}, key: "telemetry.endpoint", message: "must be a valid URL"},
		{name: "sampling above one", mutate: func(c *Config) { c.Telemetry.SamplingRate = 1.5 }, key: "telemetry.sampling_rate", message: "must be at most 1"},
		{name: "client timeout too short", mutate: func(c *Config) { c.Client.Timeout = time.Millisecond }, key: "client.timeout", message: "must be at least"},
		{name: "client attempts zero", mutate: func(c *Config) { c.Client.Retry.MaxAttempts = 0 }, key: "client.retry.max_attempts", message: "is required"},
		{name: "client interval inverted", mutate: func(c *Config) {
			c.Client.Retry.InitialInterval = 10 * time.Second
		}, key: "client.retry.max_interval", message: "must not be less than client.retry.initial_interval"},
		{name: "breaker failures zero", mutate: func(c *Config) { c.Client.CircuitBreaker.MaxFailures = 0 }, key: "client.circuit_breaker.max_failures", message: "is required"},
		{name: "breaker half open zero", mutate: func(c *Config) { c.Client.CircuitBreaker.HalfOpenLimit = 0 }, key: "client.circuit_breaker.half_open_limit", message: "is required"},
		{name: "missing quote endpoint", mutate: func(c *Config) { c.Quote.Endpoint = "" }, key: "quote.endpoint", message: "is required"},
		{name: "quote endpoint not a url", mutate: func(c *Config) { c.Quote.Endpoint = "quotes" }, key: "quote.endpoint", message: "must be a valid URL"},
		{name: "negative retries", mutate: func(c *Config) { c.Quote.MaxRetries = -1 }, key: "quote.max_retries", message: "must be at least 0"},
		{name: "too many retries", mutate: func(c *Config) { c.Quote.MaxRetries = 11 }, key: "quote.max_retries", message: "must be at most 10"},
		{name: "backoff ceiling below start", mutate: func(c *Config) {
			c.Quote.MaxBackoff = 500 * time.Millisecond
		}, key: "quote.max_backoff", message: "must not be less than quote.initial_backoff"},
		{name: "shrinking backoff", mutate: func(c *Config) { c.Quote.Multiplier = 0.5 }, key: "quote.multiplier", message: "must be at least 1"},
		{name: "attempt timeout too short", mutate: func(c *Config) { c.Quote.AttemptTimeout = time.Millisecond }, key: "quote.attempt_timeout", message: "must be at least 100ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, verr.Has(tt.key), "expected %s in %v", tt.key, verr.Fields)
			assert.Contains(t, err.Error(), tt.key+" "+tt.message)
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	cfg := validConfig()
	cfg.App.Name = ""
	cfg.Quote.Endpoint = ""
	cfg.Log.Level = "loud"

	err := cfg.Validate()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 3)

	assert.True(t, verr.Has("app.name"))
	assert.True(t, verr.Has("quote.endpoint"))
	assert.True(t, verr.Has("log.level"))
	assert.False(t, verr.Has("server.port"))
	assert.Contains(t, err.Error(), "config validation failed:")
}

func TestConfigKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "Config.quote.max_backoff", want: "quote.max_backoff"},
		{in: "Config.client.circuit_breaker.timeout", want: "client.circuit_breaker.timeout"},
		{in: "Config", want: "Config"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, configKey(tt.in))
	}
}

func TestToSnake(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "InitialBackoff", want: "initial_backoff"},
		{in: "InitialInterval", want: "initial_interval"},
		{in: "Port", want: "port"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, toSnake(tt.in))
	}
}
