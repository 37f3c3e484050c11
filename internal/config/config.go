package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	OpenRouter OpenRouterConfig
	Storage    StorageConfig
	Prompts    PromptsConfig
	Logger     LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type OpenRouterConfig struct {
	BaseURL string
	APIKey  string
	// VisionTimeout bounds a single vision request. Text requests rely on
	// the client's defaults.
	VisionTimeout time.Duration
	RetryAttempts int
	RetryWait     time.Duration
}

type StorageConfig struct {
	// DataDir is the root under which syllabus documents, generated
	// worksheets and grading results are written.
	DataDir string
	// WorksheetTemplate is the path of the static HTML shell that
	// generated worksheet content is substituted into.
	WorksheetTemplate string
}

type PromptsConfig struct {
	// Path of the prompts YAML file, keyed by operation name.
	Path string
}

type LoggerConfig struct {
	Env   string
	Level string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 120)
	viper.SetDefault("server.body_limit_mb", 25)
	viper.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	viper.SetDefault("openrouter.vision_timeout", 60)
	viper.SetDefault("openrouter.retry_attempts", 3)
	viper.SetDefault("openrouter.retry_wait", 2)
	viper.SetDefault("storage.data_dir", "data")
	viper.SetDefault("storage.worksheet_template", "web/templates/worksheet_template.html")
	viper.SetDefault("prompts.path", "config/prompts.yaml")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("logger.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; defaults plus env cover a bare setup.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
			BodyLimit:    viper.GetInt("server.body_limit_mb") * 1024 * 1024,
		},
		OpenRouter: OpenRouterConfig{
			BaseURL:       viper.GetString("openrouter.base_url"),
			APIKey:        viper.GetString("openrouter.api_key"),
			VisionTimeout: viper.GetDuration("openrouter.vision_timeout") * time.Second,
			RetryAttempts: viper.GetInt("openrouter.retry_attempts"),
			RetryWait:     viper.GetDuration("openrouter.retry_wait") * time.Second,
		},
		Storage: StorageConfig{
			DataDir:           viper.GetString("storage.data_dir"),
			WorksheetTemplate: viper.GetString("storage.worksheet_template"),
		},
		Prompts: PromptsConfig{
			Path: viper.GetString("prompts.path"),
		},
		Logger: LoggerConfig{
			Env:   viper.GetString("logger.env"),
			Level: viper.GetString("logger.level"),
		},
	}

	// Override with environment variables if set
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		config.OpenRouter.APIKey = key
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		config.Server.Port = viper.GetInt("SERVER_PORT")
	}
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		config.Storage.DataDir = dataDir
	}
	if env := os.Getenv("ENV"); env != "" {
		config.Logger.Env = env
	}

	return config, nil
}

// Validate checks the settings the pipelines cannot run without.
func (c *Config) Validate() error {
	if c.OpenRouter.APIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY is required")
	}
	if c.Prompts.Path == "" {
		return fmt.Errorf("prompts.path is required")
	}
	return nil
}
