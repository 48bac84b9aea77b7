// Package bootstrap provides common initialization utilities for services
// embedding the long polling transport.
//
// This package consolidates repeated initialization logic including:
//   - Logger setup with file rotation
//   - OpenTelemetry tracing initialization
//
// Example usage:
//
//	type serviceConfig struct {
//	    Log     config.LogConfig     `mapstructure:"log"`
//	    Tracing config.TracingConfig `mapstructure:"tracing"`
//	}
//
//	func main() {
//	    cfg := &serviceConfig{}
//	    if err := config.LoadConfig(cfg); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Initialize logger
//	    if err := bootstrap.InitLoggerWithFile(cfg.Log, "my-service"); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Initialize tracing
//	    shutdown, err := bootstrap.InitTracing(ctx, cfg.Tracing)
//	    if err != nil {
//	        log.Warn(err)
//	    }
//	    defer shutdown(ctx)
//	}
package bootstrap
