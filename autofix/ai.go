package autofix

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/securejs/jssec/issue"
)

const (
	AIPrompt = `Provide a brief explanation and a solution to fix this security issue
  found by a JavaScript static analyzer: %q.
  Answer in markdown format and keep the response limited to 200 words.`

	timeout = 30 * time.Second
)

// GenAIClient defines the interface for the GenAI client
type GenAIClient interface {
	// GenerateSolution generates a solution for the given prompt
	GenerateSolution(ctx context.Context, prompt string) (string, error)
}

// NewGenAIClient creates a new GenAI client for the given backend
func NewGenAIClient(aiAPIProvider, aiAPIKey string) (GenAIClient, error) {
	if strings.HasPrefix(aiAPIProvider, "gemini") {
		return NewGeminiClient(aiAPIProvider, aiAPIKey)
	}
	return nil, fmt.Errorf("unsupported AI backend: %s", aiAPIProvider)
}

func generateSolution(client GenAIClient, issues []*issue.Issue) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cachedAutofix := make(map[string]string)
	for _, issue := range issues {
		if val, ok := cachedAutofix[issue.What]; ok {
			issue.Autofix = val
			continue
		}

		prompt := fmt.Sprintf(AIPrompt, issue.What)
		resp, err := client.GenerateSolution(ctx, prompt)
		if err != nil {
			return fmt.Errorf("generating autofix with gemini: %w", err)
		}

		if resp == "" {
			return errors.New("no autofix returned by gemini")
		}

		issue.Autofix = resp
		cachedAutofix[issue.What] = issue.Autofix
	}
	return nil
}

// GenerateSolution generates a solution for the given issues using the specified AI backend
func GenerateSolution(aiAPIProvider, aiAPIKey string, issues []*issue.Issue) error {
	client, err := NewGenAIClient(aiAPIProvider, aiAPIKey)
	if err != nil {
		return err
	}

	return generateSolution(client, issues)
}
