package config

// applyOperationDefaults fills unset service fields from the global AI section.
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		timeout := c.AI.Timeout
		opCfg.Timeout = &timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.Temperature == nil {
		temperature := c.AI.Temperature
		opCfg.Temperature = &temperature
	}
	if opCfg.UseSystemPrompts == nil {
		useSystem := c.AI.UseSystemPrompts
		opCfg.UseSystemPrompts = &useSystem
	}
	if opCfg.ModelCheckTimeout == 0 {
		opCfg.ModelCheckTimeout = c.Observability.HealthCheck.AIModelCheckTimeout
	}
}

// GetScoringConfig returns the resolved configuration of the scoring service.
func (c *Config) GetScoringConfig() OperationAIConfig {
	cfg := c.AI.Scoring
	c.applyOperationDefaults(&cfg)
	return cfg
}

// GetEnhancementConfig returns the resolved configuration of the enhancement service.
func (c *Config) GetEnhancementConfig() OperationAIConfig {
	cfg := c.AI.Enhancement
	c.applyOperationDefaults(&cfg)
	return cfg
}
