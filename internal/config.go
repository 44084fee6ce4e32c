package internal

import "time"

type Config struct {
	Port     int    `env:"PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`

	BadgerFilepath  string `env:"BADGER_FILEPATH,required=true"`
	LexiconFilepath string `env:"LEXICON_FILEPATH,required=true"`
	ModelFilepath   string `env:"MODEL_FILEPATH,required=true"`

	// Moderation knobs. The token and notices are configuration rather than
	// hidden literals so deployments can localize them.
	ToxicityThreshold float64 `env:"TOXICITY_THRESHOLD,default=0.85"`
	RedactionToken    string  `env:"REDACTION_TOKEN,default=[censored]"`
	RemovalNotice     string  `env:"REMOVAL_NOTICE,default=[message removed due to toxic content]"`
	BlockedNotice     string  `env:"BLOCKED_NOTICE,default=Your message contained toxic content and was blocked or censored."`
	DefaultAvatarURL  string  `env:"DEFAULT_AVATAR_URL,default=/static/images/default.png"`

	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`

	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=256"`
	TelemetryBufferSize  int           `env:"TELEMETRY_BUFFER_SIZE,default=1024"`
	WriteTimeout         time.Duration `env:"WRITE_TIMEOUT,default=10s"`
	PongTimeout          time.Duration `env:"PONG_TIMEOUT,default=60s"`
	PingInterval         time.Duration `env:"PING_INTERVAL,default=54s"`

	LatencyThreshold time.Duration `env:"LATENCY_THRESHOLD,default=250ms"`
	MetricInterval   time.Duration `env:"METRIC_INTERVAL,default=30s"`
	GCInterval       time.Duration `env:"GC_INTERVAL,default=5m"`
	RestartInterval  time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}
