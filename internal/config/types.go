package config

// Config is the on-disk configuration (JSON or YAML).
//
// Every section is optional; Default() fills in what the file omits and
// SCHOOLNEWS_* environment variables override both.
type Config struct {
	Logging     LoggingConfig     `json:"logging"`
	Remote      RemoteConfig      `json:"remote"`
	Local       LocalConfig       `json:"local"`
	Collections CollectionsConfig `json:"collections"`
	Articles    ArticlesConfig    `json:"articles"`
	Mail        MailConfig        `json:"mail"`
	Notify      NotifyConfig      `json:"notify"`
}

type LoggingConfig struct {
	Level   string      `json:"level" env:"SCHOOLNEWS_LOG_LEVEL"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path" env:"SCHOOLNEWS_LOG_FILE"`
}

// RemoteConfig describes the remote document store.
//
// ProjectID is the fixed project identity; without it the remote backend is
// never selected. APIKey is a credential and is never logged.
//
// URL, when set, replaces Driver and DSN (e.g. "sqlite:./data/remote.db").
//
// Example:
//
//	"remote": { "driver": "sqlite", "dsn": "./data/remote.db", "project_id": "school-news" }
type RemoteConfig struct {
	URL       string `json:"url,omitempty" env:"SCHOOLNEWS_REMOTE_URL"`
	Driver    string `json:"driver" env:"SCHOOLNEWS_REMOTE_DRIVER"`
	DSN       string `json:"dsn" env:"SCHOOLNEWS_REMOTE_DSN"`
	ProjectID string `json:"project_id" env:"SCHOOLNEWS_REMOTE_PROJECT_ID"`
	APIKey    string `json:"api_key,omitempty" env:"SCHOOLNEWS_REMOTE_API_KEY"`

	// Go duration strings.
	ConnectTimeout string `json:"connect_timeout,omitempty"`
	BusyTimeout    string `json:"busy_timeout,omitempty"` // sqlite only
}

// LocalConfig describes the local fallback storage used when the remote
// store is unreachable.
type LocalConfig struct {
	Driver      string `json:"driver" env:"SCHOOLNEWS_LOCAL_DRIVER"`
	Path        string `json:"path" env:"SCHOOLNEWS_LOCAL_PATH"`
	ArticlesKey string `json:"articles_key,omitempty"`
}

type CollectionsConfig struct {
	Articles    string `json:"articles"`
	Subscribers string `json:"subscribers"`
	Publishers  string `json:"publishers"`
	Admins      string `json:"admins"`
}

type ArticlesConfig struct {
	// Locale is a BCP 47 tag used for the human-readable publish date.
	Locale string `json:"locale" env:"SCHOOLNEWS_LOCALE"`
}

// MailConfig configures the mail relay.
//
// Driver values:
//   - "http": EmailJS-compatible REST endpoint
//   - "log": log each send, deliver nothing
//   - "none": notifications disabled
type MailConfig struct {
	Driver     string `json:"driver" env:"SCHOOLNEWS_MAIL_DRIVER"`
	Endpoint   string `json:"endpoint,omitempty" env:"SCHOOLNEWS_MAIL_ENDPOINT"`
	ServiceID  string `json:"service_id" env:"SCHOOLNEWS_MAIL_SERVICE_ID"`
	TemplateID string `json:"template_id" env:"SCHOOLNEWS_MAIL_TEMPLATE_ID"`
	PublicKey  string `json:"public_key,omitempty" env:"SCHOOLNEWS_MAIL_PUBLIC_KEY"`
	Timeout    string `json:"timeout,omitempty"`
}

type NotifyConfig struct {
	ExcerptLength int    `json:"excerpt_length,omitempty"`
	Ellipsis      string `json:"ellipsis,omitempty"`
	RatePerSec    int    `json:"rate_per_sec,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Console: true},
		Remote: RemoteConfig{
			Driver:         "sqlite",
			DSN:            "./data/remote.db",
			ConnectTimeout: "5s",
			BusyTimeout:    "1s",
		},
		Local: LocalConfig{
			Driver:      "file",
			Path:        "./data/local.json",
			ArticlesKey: "articulos",
		},
		Collections: CollectionsConfig{
			Articles:    "articulos",
			Subscribers: "suscriptores",
			Publishers:  "publishers",
			Admins:      "admins",
		},
		Articles: ArticlesConfig{Locale: "es-ES"},
		Mail: MailConfig{
			Driver:   "log",
			Endpoint: "https://api.emailjs.com/api/v1.0/email/send",
			Timeout:  "15s",
		},
		Notify: NotifyConfig{ExcerptLength: 200, Ellipsis: "...", RatePerSec: 10},
	}
}
