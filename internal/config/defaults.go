package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:          5050,
		DataDir:       "data",
		UpstreamBase:  "https://www.churchofjesuschrist.org/study/scriptures/bofm",
		UserAgent:     "Mozilla/5.0",
		FetchTimeout:  30,
		FetchRetries:  3,
		BooksCacheTTL: 24 * 60 * 60,
		BooksLangs:    LangPair{Main: "por", Second: "fra"},
		ChapterLangs:  LangPair{Main: "spa", Second: "eng"},
		SecretKey:     "dev-change-me",
		TokenMaxAge:   3600,
		ShowDevLinks:  true,
		SMTP: SMTPConfig{
			Port:   587,
			Sender: "no-reply@example.com",
		},
	}
}
