package github

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

// ReadTokenFile loads access tokens from a file, one per line. Blank lines
// and #-comments are skipped.
func ReadTokenFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open token file: %v", err)
	}
	defer f.Close()

	var tokens []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens = append(tokens, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading token file: %v", err)
	}

	if len(tokens) == 0 {
		return nil, fmt.Errorf("token file is empty: %s", path)
	}

	return tokens, nil
}

// CollectTokens gathers the credential pool: a token file via --tokens, a
// single --token, or the GHMARKET_TOKENS env var (comma-separated), in that
// order. A .env file in the working directory is honored.
func CollectTokens(c *cli.Context) ([]string, error) {
	godotenv.Load()

	if path := c.String("tokens"); path != "" {
		return ReadTokenFile(path)
	}

	if token := c.String("token"); token != "" {
		return []string{token}, nil
	}

	if env := os.Getenv("GHMARKET_TOKENS"); env != "" {
		var tokens []string
		for _, token := range strings.Split(env, ",") {
			if token = strings.TrimSpace(token); token != "" {
				tokens = append(tokens, token)
			}
		}
		if len(tokens) > 0 {
			return tokens, nil
		}
	}

	return nil, nil
}
