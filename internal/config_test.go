package internal

import (
	"strings"
	"testing"
)

func TestConfig_DefaultsAreValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Backend.Default != BackendCSV {
		t.Errorf("default backend = %q", cfg.Backend.Default)
	}
}

func TestBackendConfig_EmptyDefaultsToCSV(t *testing.T) {
	cfg := BackendConfig{Default: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty default should pass: %v", err)
	}
	if cfg.Default != BackendCSV {
		t.Errorf("default = %q, want %q", cfg.Default, BackendCSV)
	}
}

func TestBackendConfig_InvalidDefault(t *testing.T) {
	cfg := BackendConfig{Default: "postgres"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown backend should fail validation")
	}
}

// The session cap applies to search responses from either backend, so
// it lives in the backend section and must validate without any mongo
// settings present.
func TestBackendConfig_SessionLimit(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Backend.SessionLimit != 10 {
		t.Errorf("default session limit = %d, want 10", cfg.Backend.SessionLimit)
	}

	bc := BackendConfig{Default: BackendCSV, SessionLimit: -1}
	if err := bc.Validate(); err == nil {
		t.Fatal("negative session limit should fail validation")
	}
	bc.SessionLimit = 0
	if err := bc.Validate(); err != nil {
		t.Fatalf("uncapped session limit should pass: %v", err)
	}
}

func TestConfig_MongoDefaultRequiresURI(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Backend.Default = BackendMongo
	err := cfg.Validate()
	if err == nil {
		t.Fatal("mongo default without URI should fail")
	}
	if !strings.Contains(err.Error(), "mongo.uri is empty") {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.Mongo.URI = "mongodb://localhost:27017"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("mongo default with URI should pass: %v", err)
	}
}

func TestMongoConfig_URIRequiresDatabase(t *testing.T) {
	cfg := MongoConfig{URI: "mongodb://localhost:27017", Database: ""}
	if err := cfg.Validate(); err == nil {
		t.Fatal("URI without database name should fail")
	}
}

func TestHTTPConfig_PortRange(t *testing.T) {
	cfg := HTTPConfig{Port: 0}
	if err := cfg.Validate(); err == nil {
		t.Fatal("port 0 should fail")
	}
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("port 70000 should fail")
	}
	cfg.Port = 8080
	if err := cfg.Validate(); err != nil {
		t.Fatalf("port 8080 should pass: %v", err)
	}
}

func TestDataConfig_DirRequired(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Data.Dir = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty data dir should fail")
	}
}
