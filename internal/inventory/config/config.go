package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ecomworks/orderflow/pkg/config"
	"github.com/ecomworks/orderflow/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer  config.HTTPConfig     `koanf:"server"`
	Database    config.DatabaseConfig `koanf:"database"`
	Log         config.LogConfig      `koanf:"log"`
	PProf       config.PProfConfig    `koanf:"pprof"`
	Shutdown    config.ShutdownConfig `koanf:"shutdown"`
	Reservation struct {
		TTL           time.Duration `koanf:"ttl"`
		SweepInterval time.Duration `koanf:"sweepInterval"`
		SweepBatch    int32         `koanf:"sweepBatch"`
	} `koanf:"reservation"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("\n--- Server Configuration ---\n")
	b.WriteString(fmt.Sprintf("  server.port: %d\n", c.HTTPServer.Port))
	b.WriteString("\n--- Database Configuration ---\n")
	b.WriteString(fmt.Sprintf("  database.url: %s\n", config.MaskURL(c.Database.URL)))
	b.WriteString("\n--- Reservations ---\n")
	b.WriteString(fmt.Sprintf("  reservation.ttl: %s\n", c.Reservation.TTL))
	b.WriteString(fmt.Sprintf("  reservation.sweepInterval: %s\n", c.Reservation.SweepInterval))
	b.WriteString(fmt.Sprintf("  reservation.sweepBatch: %d\n", c.Reservation.SweepBatch))
	b.WriteString("\n--- Observability & Logging ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))
	b.WriteString(fmt.Sprintf("  pprof.enabled: %t\n", c.PProf.Enabled))
	b.WriteString("\n--- Application Behavior ---\n")
	b.WriteString(fmt.Sprintf("  shutdown.timeout: %s\n", c.Shutdown.Timeout))
	return b.String()
}

func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if c.Reservation.TTL <= 0 {
		return fmt.Errorf("reservation TTL is not configured")
	}
	return nil
}
