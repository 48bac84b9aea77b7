package config

// ==================== TransportConfig 默认值 ====================

// ApplyDefaults 应用传输层配置默认值
func (t *TransportConfig) ApplyDefaults() {
	if t.ReconnectDelaySeconds <= 0 {
		t.ReconnectDelaySeconds = 5
	}
	if t.ErrorDelaySeconds <= 0 {
		t.ErrorDelaySeconds = 2
	}
	if t.NegotiateTimeoutSeconds <= 0 {
		t.NegotiateTimeoutSeconds = 30
	}
	if t.PollTimeoutSeconds <= 0 {
		t.PollTimeoutSeconds = 110
	}
}

// ==================== AuthConfig 默认值 ====================

// ApplyDefaults 应用认证配置默认值
func (a *AuthConfig) ApplyDefaults() {
	if a.RefreshAheadSeconds <= 0 {
		a.RefreshAheadSeconds = 30
	}
	if a.CachePrefix == "" {
		a.CachePrefix = "lpl"
	}
}

// ==================== TracingConfig 默认值 ====================

// ApplyDefaults 应用 Tracing 配置默认值
func (t *TracingConfig) ApplyDefaults() {
	if t.Exporter == "" {
		t.Exporter = "stdout"
	}
	if t.SampleRatio <= 0 {
		t.SampleRatio = 1.0
	}
}
