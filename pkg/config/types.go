package config

// ==================== 基础配置 (所有服务都需要) ====================

// AppConfig 应用基础配置
type AppConfig struct {
	Env    string `yaml:"env" mapstructure:"env"`
	NodeID string `yaml:"node_id" mapstructure:"node_id"`
}

// LogConfig 日志配置
type LogConfig struct {
	Format       string `yaml:"format" mapstructure:"format"`
	Level        string `yaml:"level" mapstructure:"level"`
	ReportCaller bool   `yaml:"report_caller" mapstructure:"report_caller"`
}

// ==================== 传输层配置 ====================

// TransportConfig 长轮询传输配置
type TransportConfig struct {
	// Endpoint 服务端基础地址 (如 https://host/signalr)
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// ReconnectDelaySeconds 重连确认延迟，默认 5 秒
	ReconnectDelaySeconds Duration `yaml:"reconnect_delay_seconds" mapstructure:"reconnect_delay_seconds"`
	// ErrorDelaySeconds 轮询出错后的重试延迟，默认 2 秒
	ErrorDelaySeconds Duration `yaml:"error_delay_seconds" mapstructure:"error_delay_seconds"`
	// NegotiateTimeoutSeconds negotiate 请求超时，默认 30 秒
	NegotiateTimeoutSeconds Duration `yaml:"negotiate_timeout_seconds" mapstructure:"negotiate_timeout_seconds"`
	// PollTimeoutSeconds 单次轮询请求超时，默认 110 秒 (服务端 long poll 上限之上)
	PollTimeoutSeconds Duration `yaml:"poll_timeout_seconds" mapstructure:"poll_timeout_seconds"`
}

// ==================== 基础设施配置 ====================

// RedisConfig Redis 连接配置 (token 缓存使用)
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	Db       int    `yaml:"db" mapstructure:"db"`
}

// KafkaConfig Kafka 配置 (relay 使用)
type KafkaConfig struct {
	Enabled       bool     `yaml:"enabled" mapstructure:"enabled"`
	Brokers       []string `yaml:"brokers" mapstructure:"brokers"`
	Topic         string   `yaml:"topic" mapstructure:"topic"`
	ClientID      string   `yaml:"client_id" mapstructure:"client_id"`
	Username      string   `yaml:"username" mapstructure:"username"`
	Password      string   `yaml:"password" mapstructure:"password"`
	SASLMechanism string   `yaml:"sasl_mechanism" mapstructure:"sasl_mechanism"`
	TLSEnabled    bool     `yaml:"tls_enabled" mapstructure:"tls_enabled"`
}

// ==================== 认证配置 ====================

// AuthConfig 请求认证配置
type AuthConfig struct {
	// Token 静态 bearer token，为空则不附加 Authorization 头
	Token string `yaml:"token" mapstructure:"token"`
	// RefreshAheadSeconds JWT 过期前多久触发刷新，默认 30 秒
	RefreshAheadSeconds Duration `yaml:"refresh_ahead_seconds" mapstructure:"refresh_ahead_seconds"`
	// CachePrefix Redis token 缓存键前缀
	CachePrefix string `yaml:"cache_prefix" mapstructure:"cache_prefix"`
}

// ==================== 可观测性配置 ====================

// TracingConfig 分布式追踪配置
type TracingConfig struct {
	Exporter     string            `yaml:"exporter" mapstructure:"exporter"`
	Endpoint     string            `yaml:"endpoint" mapstructure:"endpoint"`
	ServiceName  string            `yaml:"service_name" mapstructure:"service_name"`
	Insecure     bool              `yaml:"insecure" mapstructure:"insecure"`
	Headers      map[string]string `yaml:"headers" mapstructure:"headers"`
	SampleRatio  float64           `yaml:"sample_ratio" mapstructure:"sample_ratio"`
	ResourceTags map[string]string `yaml:"resource_tags" mapstructure:"resource_tags"`
}
