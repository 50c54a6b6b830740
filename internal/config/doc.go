// Package config manages user settings stored at ~/.ormstarter/config.yaml
// and ORMSTARTER_* environment variables via Viper. It owns the defaults for
// the templates root, readiness timeouts, probe target and output markers.
package config
