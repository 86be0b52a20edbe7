package config

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// IsDevelopment returns true if the configured environment is development.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProductionLike returns true if running in staging or production environment.
// Use this when you need to enforce production-like configuration requirements.
func (c *Config) IsProductionLike() bool {
	return c.Server.Environment == EnvStaging || c.Server.Environment == EnvProduction
}
