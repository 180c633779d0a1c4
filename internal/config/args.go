package config

import (
	"strconv"
)

// Args holds what was given on the command line.
// There are no flags: an all-digit argument is a max price, anything else is the API key.
type Args struct {
	// APIKey is the first non-numeric argument, if any
	APIKey string

	// MaxPrice is the last numeric argument; 0 when none was given
	MaxPrice int
}

// ParseArgs classifies positional arguments (without the program name).
func ParseArgs(args []string) Args {
	var a Args
	for _, arg := range args {
		if isDigits(arg) {
			if n, err := strconv.Atoi(arg); err == nil {
				a.MaxPrice = n
			}
			continue
		}
		if a.APIKey == "" && arg != "" {
			a.APIKey = arg
		}
	}
	return a
}

// ApplyArgs overlays command-line values, which take precedence over the environment.
func (c *Config) ApplyArgs(a Args) {
	if a.APIKey != "" {
		c.Tequila.APIKey = a.APIKey
	}
	if a.MaxPrice > 0 {
		c.Search.MaxPrice = a.MaxPrice
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
