package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Survey   SurveyConfig
	Redis    RedisConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Path string
}

// SurveyConfig locates the survey schema document and tunes report caching.
type SurveyConfig struct {
	SchemaPath     string
	ReportCacheTTL time.Duration
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LoggerConfig struct {
	Level string
	Env   string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("database.path", "survey.db")
	viper.SetDefault("survey.schema_path", "config/survey.yaml")
	viper.SetDefault("survey.report_cache_ttl", 300)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Database: DatabaseConfig{
			Path: viper.GetString("database.path"),
		},
		Survey: SurveyConfig{
			SchemaPath:     viper.GetString("survey.schema_path"),
			ReportCacheTTL: viper.GetDuration("survey.report_cache_ttl") * time.Second,
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
	}

	// Override with environment variables if set
	if path := os.Getenv("SURVEY_DB_PATH"); path != "" {
		config.Database.Path = path
	}
	if path := os.Getenv("SURVEY_SCHEMA_PATH"); path != "" {
		config.Survey.SchemaPath = path
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}

	return config, nil
}

// GetDSN builds the SQLite DSN. WAL keeps concurrent aggregate reads
// consistent while a submission transaction is being written.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		c.Database.Path)
}
