package web

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tokens maps bearer tokens to the user they authenticate.
type Tokens map[string]string

type tokenFile struct {
	Tokens []struct {
		Token string `yaml:"token"`
		User  string `yaml:"user"`
	} `yaml:"tokens"`
}

// LoadTokens reads a YAML file of the form
//
//	tokens:
//	  - token: 3f9c...
//	    user: alice
func LoadTokens(path string) (Tokens, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	return ParseTokens(data)
}

func ParseTokens(data []byte) (Tokens, error) {
	var f tokenFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	tokens := make(Tokens, len(f.Tokens))
	for i, t := range f.Tokens {
		token, user := strings.TrimSpace(t.Token), strings.TrimSpace(t.User)
		if token == "" || user == "" {
			return nil, fmt.Errorf("token entry %d needs both token and user", i+1)
		}
		if _, dup := tokens[token]; dup {
			return nil, fmt.Errorf("token entry %d repeats an earlier token", i+1)
		}
		tokens[token] = user
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("token file defines no tokens")
	}
	return tokens, nil
}

// User returns the user for token, or "" if the token is unknown.
func (t Tokens) User(token string) string {
	if token == "" {
		return ""
	}
	return t[token]
}
