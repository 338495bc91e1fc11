package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// PromptOperations names every AI operation whose prompts can be overridden.
// Keys are lowercase because viper folds map keys.
var PromptOperations = []string{
	"ats_score",
	"keyword_analysis",
	"enhance_resume",
	"enhance_section",
	"generate_summary",
	"enhance_bullets",
	"suggest_improvements",
	"cover_letter",
}

// LoadedPrompt is the file content loaded for one operation.
type LoadedPrompt struct {
	System string
	User   string
}

var loadedPrompts = struct {
	sync.RWMutex
	byOperation map[string]LoadedPrompt
}{byOperation: make(map[string]LoadedPrompt)}

// GetLoadedPrompt returns prompts loaded from files for an operation.
func GetLoadedPrompt(operation string) LoadedPrompt {
	loadedPrompts.RLock()
	defer loadedPrompts.RUnlock()
	return loadedPrompts.byOperation[operation]
}

// PromptFor returns the system and user prompt overrides for an operation.
// File content wins over inline config; empty strings mean "use the built-in".
func (c *Config) PromptFor(operation string) (system, user string) {
	loaded := GetLoadedPrompt(operation)
	inline := c.AI.Prompts[operation]
	return firstNonEmpty(loaded.System, inline.System), firstNonEmpty(loaded.User, inline.User)
}

func (c *Config) validatePromptFiles() error {
	var problems []string
	check := func(path, kind, operation string) {
		if path == "" {
			return
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid path for %s %s prompt: %s", kind, operation, path))
			return
		}
		if _, err := os.Stat(absPath); errors.Is(err, os.ErrNotExist) {
			problems = append(problems, fmt.Sprintf("%s %s prompt file not found: %s", kind, operation, absPath))
		}
	}

	for operation, override := range c.AI.Prompts {
		check(override.SystemFile, "system", operation)
		check(override.UserFile, "user", operation)
	}

	if len(problems) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}

// loadPromptsFromFiles reads every configured prompt file into the registry,
// replacing whatever a previous load stored.
func (c *Config) loadPromptsFromFiles() error {
	loaded := make(map[string]LoadedPrompt, len(c.AI.Prompts))

	for operation, override := range c.AI.Prompts {
		var prompt LoadedPrompt
		var err error
		if override.SystemFile != "" {
			if prompt.System, err = readPromptFile(override.SystemFile, "system", operation); err != nil {
				return err
			}
		}
		if override.UserFile != "" {
			if prompt.User, err = readPromptFile(override.UserFile, "user", operation); err != nil {
				return err
			}
		}
		if prompt != (LoadedPrompt{}) {
			loaded[operation] = prompt
		}
	}

	loadedPrompts.Lock()
	loadedPrompts.byOperation = loaded
	loadedPrompts.Unlock()

	if len(loaded) == 0 {
		log.Println("[CONFIG] No custom prompt files loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Custom prompt files loaded for %d operation(s)", len(loaded))
	}
	return nil
}

func readPromptFile(path, kind, operation string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s %s prompt file '%s': %w", kind, operation, path, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", kind, operation, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", kind, operation, absPath)
	}

	log.Printf("[CONFIG] Loaded %s %s prompt from %s (%d characters)", kind, operation, absPath, len(trimmed))
	return trimmed, nil
}
