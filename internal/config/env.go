package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// legacyEnv maps config keys to the unprefixed variable names older
// deployments set. The prefixed name is always tried first.
var legacyEnv = map[string]string{
	"ai.apiKey":                  "GEMINI_API_KEY",
	"server.port":                "ENV_PORT",
	"app.environment":            "ENV",
	"server.cors.allowedOrigins": "FRONTEND_ORIGIN",
}

// loadDotEnv loads a .env file into the process environment without
// overriding variables that are already set. It returns the path loaded,
// or "" when there was nothing to load.
func loadDotEnv(path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("[CONFIG] Warning: failed to load %s: %v", path, err)
		return ""
	}
	return path
}

func bindLegacyEnv(v *viper.Viper) error {
	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

// applyFallbacks normalizes values that environment variables deliver in
// a looser shape than the config file.
func (c *Config) applyFallbacks() {
	c.applyServerAPIKeyFallbacks()
	c.Server.CORS.AllowedOrigins = splitAndTrim(c.Server.CORS.AllowedOrigins)
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()
}

func (c *Config) applyServerAPIKeyFallbacks() {
	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv(EnvPrefix + "_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = strings.Split(apiKeysEnv, ",")
		}
	}
	c.Server.APIKeys = splitAndTrim(c.Server.APIKeys)
}

// splitAndTrim flattens comma separated entries and drops blanks.
func splitAndTrim(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.Mode == "" {
		c.Server.TLS.Mode = "disabled"
	}
	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}
}

func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
}

func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources logs where each important value came from, with
// secrets masked.
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")
	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		EnvPrefix + "_AI_APIKEY",
		EnvPrefix + "_AI_MODEL",
		EnvPrefix + "_SERVER_PORT",
		EnvPrefix + "_APP_LOGLEVEL",
		EnvPrefix + "_VAULT_ENABLED",
	}
	for _, legacy := range []string{"GEMINI_API_KEY", "ENV_PORT", "ENV", "FRONTEND_ORIGIN"} {
		envVars = append(envVars, legacy)
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		hasEnvVars = true
		if strings.Contains(strings.ToLower(envVar), "key") {
			log.Printf("[CONFIG]   %s=***MASKED***", envVar)
		} else {
			log.Printf("[CONFIG]   %s=%s", envVar, value)
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] AI Provider: %s", c.AI.Provider)
	log.Printf("[CONFIG] AI Model: %s", c.AI.Model)
	if c.AI.APIKey != "" {
		log.Println("[CONFIG] AI API Key: ***CONFIGURED***")
	} else {
		log.Println("[CONFIG] AI API Key: ***NOT SET***")
	}
	log.Printf("[CONFIG] Environment: %s", c.App.Environment)
	log.Printf("[CONFIG] Server: %s:%s", c.Server.Host, c.Server.Port)
	log.Printf("[CONFIG] Allowed Origins: %s", strings.Join(c.Server.CORS.AllowedOrigins, ", "))
	log.Printf("[CONFIG] TLS Mode: %s", c.Server.TLS.Mode)
	log.Printf("[CONFIG] Templates Dir: %s", c.Documents.TemplatesDir)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Scoring - Model: %s", firstNonEmpty(c.AI.Scoring.Model, c.AI.Model))
	log.Printf("[CONFIG] Enhancement - Model: %s", firstNonEmpty(c.AI.Enhancement.Model, c.AI.Model))
	log.Println("[CONFIG] =====================================")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
