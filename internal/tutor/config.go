package tutor

import "time"

// Config controls the model calls made by Service.
type Config struct {
	// Questions is how many quiz questions to ask for.
	Questions int

	// MaxTokens is the token budget for quiz responses. Prose calls use
	// the provider default.
	MaxTokens int

	// Temperature controls quiz output randomness (0.0-1.0).
	Temperature float64

	// Timeout bounds each call made through Fallback, retries included.
	// Zero means no bound beyond the caller's context.
	Timeout time.Duration
}

// DefaultConfig returns the standard five-question setup.
func DefaultConfig() Config {
	return Config{
		Questions:   5,
		MaxTokens:   2048,
		Temperature: 0.7,
		Timeout:     45 * time.Second,
	}
}
