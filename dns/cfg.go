package dns

import "time"

type Config struct {
	Nameserver string        `mapstructure:"nameserver"`
	Net        string        `mapstructure:"net"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

func (c Config) Enabled() bool {
	return c.Nameserver != ""
}
