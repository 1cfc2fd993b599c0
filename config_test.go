package main

import (
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_ENDPOINT", "")
	t.Setenv("OPENAI_DEFAULT_MODEL", "")
	cfg := loadConfig()
	if cfg.LLMEndpoint != defaultLLMEndpoint {
		t.Errorf("LLMEndpoint = %q, want default", cfg.LLMEndpoint)
	}
	if cfg.LLMModel != defaultLLMModel {
		t.Errorf("LLMModel = %q, want default", cfg.LLMModel)
	}
}

func TestValidateLLM(t *testing.T) {
	if err := (config{}).validateLLM(); err == nil {
		t.Error("validateLLM() error = nil without API key")
	}
	if err := (config{LLMAPIKey: "sk-test"}).validateLLM(); err != nil {
		t.Errorf("validateLLM() error = %v with API key", err)
	}
}

func TestValidateS3(t *testing.T) {
	full := config{
		AWSAccessKeyID:     "id",
		AWSSecretAccessKey: "secret",
		AWSRegion:          "ap-southeast-1",
		S3Bucket:           "bucket",
	}
	if err := full.validateS3(); err != nil {
		t.Errorf("validateS3() error = %v for complete config", err)
	}

	partial := full
	partial.S3Bucket = ""
	err := partial.validateS3()
	if err == nil {
		t.Fatal("validateS3() error = nil with missing bucket")
	}
	if !strings.Contains(err.Error(), "S3_BUCKET_NAME") {
		t.Errorf("validateS3() error = %q, want it to name S3_BUCKET_NAME", err)
	}
}
