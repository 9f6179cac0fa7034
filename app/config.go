package main

import "github.com/spf13/viper"

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	Version     string `mapstructure:"VERSION"`

	TrustedOrigins []string `mapstructure:"TRUSTED_ORIGINS"`

	RateLimitRPS     float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int     `mapstructure:"RATE_LIMIT_BURST"`
	RateLimitEnabled bool    `mapstructure:"RATE_LIMIT_ENABLED"`

	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`

	DBHost     string `mapstructure:"POSTGRES_HOST"`
	DBPort     string `mapstructure:"POSTGRES_PORT"`
	DBUser     string `mapstructure:"POSTGRES_USER"`
	DBPassword string `mapstructure:"POSTGRES_PASSWORD"`
	DBName     string `mapstructure:"POSTGRES_DB"`

	MQHost     string `mapstructure:"RABBITMQ_HOST"`
	MQPort     string `mapstructure:"RABBITMQ_PORT"`
	MQUser     string `mapstructure:"RABBITMQ_USER"`
	MQPassword string `mapstructure:"RABBITMQ_PASSWORD"`

	MailHost     string `mapstructure:"MAIL_HOST"`
	MailPort     int    `mapstructure:"MAIL_PORT"`
	MailUser     string `mapstructure:"MAIL_USER"`
	MailPassword string `mapstructure:"MAIL_PASSWORD"`

	// NoReplyEmail is the sender of every notification; ContactEmail is
	// the fixed mailbox the contact form delivers to.
	NoReplyEmail string `mapstructure:"NOREPLY_EMAIL"`
	ContactEmail string `mapstructure:"CONTACT_EMAIL"`

	// SiteScheme and SiteDomain build the absolute URLs embedded in
	// notification emails, which are read outside any request context.
	SiteScheme string `mapstructure:"SITE_SCHEME"`
	SiteDomain string `mapstructure:"SITE_DOMAIN"`

	MediaDir      string `mapstructure:"MEDIA_DIR"`
	DefaultAvatar string `mapstructure:"DEFAULT_AVATAR"`
}

func loadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)

	viper.SetDefault("SITE_SCHEME", "http")
	viper.SetDefault("MEDIA_DIR", "media")
	viper.SetDefault("DEFAULT_AVATAR", "avatars/default_avatar/blank-profile-picture.png")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
