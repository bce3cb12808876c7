package notify

type Config struct {
	URL      string `yaml:"url"`
	Token    string `yaml:"token"`
	Priority int    `yaml:"priority,omitempty"`
}

func (c Config) Enabled() bool {
	return c.URL != "" && c.Token != ""
}
