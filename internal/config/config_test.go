package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load with defaults failed: %v", err)
	}
	if cfg.Server.Port != "8000" {
		t.Fatalf("want default port 8000 got %s", cfg.Server.Port)
	}
	if cfg.Store.Backend != StoreBackendMemory {
		t.Fatalf("want default memory backend got %s", cfg.Store.Backend)
	}
	if cfg.SheetsEnabled() {
		t.Fatal("sheets export must be disabled by default")
	}
}

func TestValidateMongoBackendRequiresURI(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{Port: "8000"},
		Store:     StoreConfig{Backend: StoreBackendMongo, MongoDBName: "oreka"},
		Reporting: ReportingConfig{CronSchedule: "0 23 * * *", Timezone: "UTC"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for mongo backend without URI")
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{Port: "8000"},
		Store:     StoreConfig{Backend: "postgres"},
		Reporting: ReportingConfig{CronSchedule: "0 23 * * *", Timezone: "UTC"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown backend")
	}
}

func TestValidateSheetsPairing(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{Port: "8000"},
		Store:     StoreConfig{Backend: StoreBackendMemory},
		Reporting: ReportingConfig{CronSchedule: "0 23 * * *", Timezone: "UTC"},
		Sheets:    SheetsConfig{CredentialsPath: "creds.json"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error when only one sheets value is set")
	}
}
