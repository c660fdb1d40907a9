package api

// Config holds server configuration.
type Config struct {
	Port           int
	StorePath      string   // Path to the geometry store database ("" = store disabled)
	AllowedOrigins []string // CORS allowed origins (empty = allow all)
}

// ServerConfig is the active server configuration.
var ServerConfig Config
