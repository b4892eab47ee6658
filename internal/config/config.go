package config

import "time"

// Config is the root configuration for smartplan.
type Config struct {
	Gateway   GatewayConfig   `json:"gateway"`
	Storage   StorageConfig   `json:"storage"`
	Models    ModelsConfig    `json:"models"`
	Events    EventsConfig    `json:"events"`
	Reminders RemindersConfig `json:"reminders"`
	Retention RetentionConfig `json:"retention"`
}

// GatewayConfig holds the gateway server settings.
type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Backend is "file" (JSON blob per collection) or "sqlite".
	Backend string `json:"backend"`
	// Dir is the data directory for the file backend (default: $SMARTPLAN_PATH/data).
	Dir string `json:"dir,omitempty"`
	// DSN is the SQLite path for the sqlite backend (default: $SMARTPLAN_PATH/smartplan.db).
	DSN string `json:"dsn,omitempty"`
}

// ModelsConfig holds planner model provider configuration.
type ModelsConfig struct {
	Default   string                    `json:"default"`
	Providers map[string]ProviderConfig `json:"providers"`
}

// ProviderConfig configures a single LLM provider.
type ProviderConfig struct {
	Driver    string         `json:"driver"` // "openai", "ollama", "claude"
	Model     string         `json:"model"`
	BaseURL   string         `json:"base_url,omitempty"`
	APIKey    string         `json:"api_key,omitempty"` // direct key or ${{ .Env.VAR }} template
	MaxTokens int            `json:"max_tokens,omitempty"`
	Timeout   Duration       `json:"timeout,omitempty"`
	Options   map[string]any `json:"options,omitempty"`
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	BufferSize int `json:"buffer_size"`
}

// RemindersConfig holds reminder scheduler settings. Reminders are on unless
// explicitly disabled.
type RemindersConfig struct {
	Disabled bool `json:"disabled,omitempty"`
	// Lead is how long before a task's scheduled time the reminder fires.
	Lead Duration `json:"lead,omitempty"`
}

// RetentionConfig holds the background retention sweep settings. The sweep is
// on unless explicitly disabled.
type RetentionConfig struct {
	Disabled bool `json:"disabled,omitempty"`
	// CronSpec is the sweep schedule in standard 5-field cron syntax.
	CronSpec string `json:"cron_spec,omitempty"`
}

// Duration wraps time.Duration for JSON unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
