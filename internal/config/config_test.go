package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.AWS.Region != "us-east-1" {
		t.Fatalf("expected default aws region us-east-1, got %s", cfg.AWS.Region)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected default addr %s", cfg.Server.Addr)
	}
	if cfg.Tables.Orders != "trendora-orders" {
		t.Fatalf("unexpected default orders table %s", cfg.Tables.Orders)
	}
}

func TestLoadRegionOverride(t *testing.T) {
	t.Setenv("TRENDORA_AWS_REGION", "eu-west-2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AWS.Region != "eu-west-2" {
		t.Fatalf("expected eu-west-2, got %s", cfg.AWS.Region)
	}
}

func TestRequireAuthSecret(t *testing.T) {
	var cfg Config
	if err := cfg.RequireAuthSecret(); err == nil {
		t.Fatal("expected error without a secret")
	}
	cfg.Auth.JWTSecret = "s3cret"
	if err := cfg.RequireAuthSecret(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
