package config

// LangPair is a main/second language selection.
type LangPair struct {
	Main   string `yaml:"main" koanf:"main"`
	Second string `yaml:"second" koanf:"second"`
}

// SMTPConfig holds outgoing mail settings. An empty Host disables real
// sending; the mailer then logs the message body instead.
type SMTPConfig struct {
	Host   string `yaml:"host" koanf:"host"`
	Port   int    `yaml:"port" koanf:"port"`
	User   string `yaml:"user" koanf:"user"`
	Pass   string `yaml:"pass" koanf:"pass"`
	Sender string `yaml:"sender" koanf:"sender"`
	UseSSL bool   `yaml:"use_ssl" koanf:"use_ssl"`
}

// Config is the top-level service configuration, corresponding to
// .scriptures.yml.
type Config struct {
	Port    int    `yaml:"port" koanf:"port"`
	DataDir string `yaml:"data_dir" koanf:"data_dir"`

	// Upstream scripture site settings.
	UpstreamBase   string `yaml:"upstream_base" koanf:"upstream_base"`
	UserAgent      string `yaml:"user_agent" koanf:"user_agent"`
	FetchTimeout   int    `yaml:"fetch_timeout_seconds" koanf:"fetch_timeout_seconds"`
	FetchRetries   int    `yaml:"fetch_retries" koanf:"fetch_retries"`
	BooksCacheTTL  int    `yaml:"books_cache_ttl_seconds" koanf:"books_cache_ttl_seconds"`

	// Default language pairs. The books page and the chapter page ship
	// with different defaults; that asymmetry is observed behavior and
	// kept configurable rather than unified.
	BooksLangs   LangPair `yaml:"books_langs" koanf:"books_langs"`
	ChapterLangs LangPair `yaml:"chapter_langs" koanf:"chapter_langs"`

	// Account system.
	SecretKey    string     `yaml:"secret_key" koanf:"secret_key"`
	TokenMaxAge  int        `yaml:"token_max_age_seconds" koanf:"token_max_age_seconds"`
	ShowDevLinks bool       `yaml:"show_dev_links" koanf:"show_dev_links"`
	SMTP         SMTPConfig `yaml:"smtp" koanf:"smtp"`
}
