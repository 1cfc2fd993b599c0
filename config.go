package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultLLMEndpoint = "https://openrouter.ai/api/v1"
	defaultLLMModel    = "openai/gpt-5-chat"
)

// config collects every environment-driven setting in one place so the
// pipeline stages receive it explicitly instead of reading globals.
type config struct {
	// OpenAI-compatible chat endpoint for the style brief.
	LLMEndpoint string
	LLMModel    string
	LLMAPIKey   string

	// S3 upload target.
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	S3Bucket           string
}

// loadConfig reads a project .env if present, then the process environment.
// Nothing is validated here; each optional stage validates what it needs.
func loadConfig() config {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := config{
		LLMEndpoint:        os.Getenv("OPENAI_API_ENDPOINT"),
		LLMModel:           os.Getenv("OPENAI_DEFAULT_MODEL"),
		LLMAPIKey:          os.Getenv("OPENAI_API_KEY"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:          os.Getenv("AWS_REGION"),
		S3Bucket:           os.Getenv("S3_BUCKET_NAME"),
	}
	if cfg.LLMEndpoint == "" {
		cfg.LLMEndpoint = defaultLLMEndpoint
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = defaultLLMModel
	}
	return cfg
}

// validateLLM checks the settings the brief generator and ping need.
func (c config) validateLLM() error {
	if c.LLMAPIKey == "" {
		return fmt.Errorf("missing OPENAI_API_KEY in environment (.env)")
	}
	return nil
}

// validateS3 checks the settings the uploader needs.
func (c config) validateS3() error {
	var missing []string
	if c.AWSAccessKeyID == "" {
		missing = append(missing, "AWS_ACCESS_KEY_ID")
	}
	if c.AWSSecretAccessKey == "" {
		missing = append(missing, "AWS_SECRET_ACCESS_KEY")
	}
	if c.AWSRegion == "" {
		missing = append(missing, "AWS_REGION")
	}
	if c.S3Bucket == "" {
		missing = append(missing, "S3_BUCKET_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables for S3 upload: %v", missing)
	}
	return nil
}
