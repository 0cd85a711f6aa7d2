package mentor

// Config holds mentor generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the settings used for weekly advice.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   500,
		Temperature: 0.7,
	}
}
