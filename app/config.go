package main

import "github.com/spf13/viper"

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	Version     string `mapstructure:"VERSION"`
	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	DB struct {
		Host     string `mapstructure:"POSTGRES_HOST"`
		Port     string `mapstructure:"POSTGRES_PORT"`
		User     string `mapstructure:"POSTGRES_USER"`
		Password string `mapstructure:"POSTGRES_PASSWORD"`
		Name     string `mapstructure:"POSTGRES_DB"`
	}

	Mail struct {
		Host      string `mapstructure:"MAIL_HOST"`
		Port      int    `mapstructure:"MAIL_PORT"`
		User      string `mapstructure:"MAIL_USER"`
		Password  string `mapstructure:"MAIL_PASSWORD"`
		Sender    string `mapstructure:"MAIL_SENDER"`
		Moderator string `mapstructure:"MAIL_MODERATOR"`
	}

	RabbitMQ struct {
		Host     string `mapstructure:"RABBITMQ_HOST"`
		Port     string `mapstructure:"RABBITMQ_PORT"`
		User     string `mapstructure:"RABBITMQ_USER"`
		Password string `mapstructure:"RABBITMQ_PASSWORD"`
	}

	Admin struct {
		Email    string `mapstructure:"ADMIN_EMAIL"`
		Password string `mapstructure:"ADMIN_PASSWORD"`
		Name     string `mapstructure:"ADMIN_NAME"`
	}

	// comma-separated emails allowed through federated sign-in; overrides
	// the startup account snapshot when non-empty
	AllowedUserEmails string `mapstructure:"ALLOWED_USER_EMAILS"`

	FederatedUserinfoURL string `mapstructure:"FEDERATED_USERINFO_URL"`

	AI struct {
		URL string `mapstructure:"AI_URL"`
		Key string `mapstructure:"AI_KEY"`
	}

	Media struct {
		URL    string `mapstructure:"MEDIA_URL"`
		Key    string `mapstructure:"MEDIA_KEY"`
		Folder string `mapstructure:"MEDIA_FOLDER"`
	}
}

func loadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
