package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	BaseURL        string `validate:"required,url"`
	RestaurantName string `validate:"required"`
	BearerToken    string `validate:"required"`
	OpenAIAPIKey   string `validate:"required"`
	OpenAIBaseURL  string `validate:"omitempty,url"`
	OpenAIModel    string `validate:"required"`
	LogLevel       string
}

func loadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	conf := &Config{
		BaseURL:        os.Getenv("BASE_URL"),
		RestaurantName: os.Getenv("RESTAURANT_NAME"),
		BearerToken:    os.Getenv("BEARER_TOKEN"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:    getenvDefault("OPENAI_MODEL", "gpt-4o"),
		LogLevel:       getenvDefault("LOG_LEVEL", "info"),
	}
	if err := validator.New().Struct(conf); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return conf, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
