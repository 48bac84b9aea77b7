// Package config provides common configuration types and utilities for
// services embedding the long polling transport.
//
// Usage:
//
//	import "github.com/Goden-Gun/longpoll-lib/pkg/config"
//
//	type MyConfig struct {
//	    App       config.AppConfig       `yaml:"app" mapstructure:"app"`
//	    Transport config.TransportConfig `yaml:"transport" mapstructure:"transport"`
//	    Log       config.LogConfig       `yaml:"log" mapstructure:"log"`
//	    // ... service-specific configs
//	}
//
//	func LoadMyConfig() (*MyConfig, error) {
//	    cfg := &MyConfig{}
//	    if err := config.LoadConfig(cfg); err != nil {
//	        return nil, err
//	    }
//	    cfg.App.Env = config.GetEnv()
//	    cfg.Transport.ApplyDefaults()
//	    return cfg, nil
//	}
package config
