package app

import (
	"github.com/praxis-markets/praxis/app/database"
	"github.com/praxis-markets/praxis/app/user"
	"github.com/praxis-markets/praxis/internal/nexus"
)

type Config struct {
	DB   database.Config
	User user.Config

	AppHost string `env:"APP_HOST" env-default:"localhost"`
	AppPort string `env:"APP_PORT" env-default:"8080"`
	Env     string `env:"APP_ENV" env-default:"development"`
}

// LoadConfig loads the application configuration from environment variables or a config file.
func LoadConfig() (*Config, error) {
	c := &Config{}
	err := nexus.NewLoader().Load(c)
	return c, err
}
