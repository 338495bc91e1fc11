// Package templates manages the LaTeX resume templates shipped with the service.
package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	appErrors "resumeforge/internal/errors"
	"resumeforge/internal/types"
)

const (
	templateExt = ".tex"
	detailsFile = "templates.yaml"
)

// fallbackNames is the listing reported when the template directory is missing.
var fallbackNames = []string{"template1", "template2"}

var builtinDetails = map[string]types.TemplateInfo{
	"template1": {Name: "Professional", Description: "Clean and modern design for corporate roles"},
	"template2": {Name: "Creative", Description: "Eye-catching layout for creative industries"},
	"template3": {Name: "Academic", Description: "Structured format for research positions"},
}

// Catalog lists and loads the templates of one directory.
type Catalog struct {
	dir    string
	logger *appErrors.Logger

	mu      sync.RWMutex
	names   []string
	details map[string]types.TemplateInfo
}

// NewCatalog scans dir. A missing directory is not an error.
func NewCatalog(dir string, logger *appErrors.Logger) *Catalog {
	if logger == nil {
		logger = appErrors.NewNopLogger()
	}
	c := &Catalog{dir: dir, logger: logger}
	if err := c.Refresh(); err != nil {
		logger.Warn("Failed to scan templates", "dir", dir, "error", err.Error())
	}
	return c
}

// Dir returns the directory the catalog reads.
func (c *Catalog) Dir() string {
	return c.dir
}

// Refresh rescans the directory and the optional details file.
func (c *Catalog) Refresh() error {
	names, err := scanNames(c.dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.setState(slices.Clone(fallbackNames), maps.Clone(builtinDetails))
			return err
		}
		c.logger.Warn("Templates directory not found", "dir", c.dir)
		names = slices.Clone(fallbackNames)
	}

	details, err := loadDetails(filepath.Join(c.dir, detailsFile))
	c.setState(names, details)
	if err != nil {
		return err
	}

	c.logger.Info("Templates loaded", "dir", c.dir, "count", len(names))
	return nil
}

func (c *Catalog) setState(names []string, details map[string]types.TemplateInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = names
	c.details = details
}

// List returns the template names in sorted order.
func (c *Catalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.names)
}

// Details returns the display metadata per template.
func (c *Catalog) Details() map[string]types.TemplateInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.details)
}

// Get returns the contents of the named template. found is false when the
// built-in default was substituted.
func (c *Catalog) Get(name string) (content string, found bool) {
	if !validName(name) {
		c.logger.Warn("Rejected template name", "template", name)
		return defaultTemplate, false
	}

	data, err := os.ReadFile(filepath.Join(c.dir, name+templateExt))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.LogError(err, "Error loading template", "template", name)
		} else {
			c.logger.Warn("Template not found, using default", "template", name)
		}
		return defaultTemplate, false
	}
	return string(data), true
}

// Save writes a template into the catalog directory.
func (c *Catalog) Save(name, content string) error {
	if !validName(name) {
		return appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest,
			fmt.Sprintf("Invalid template name: %q", name), nil)
	}
	if err := os.MkdirAll(c.dir, 0750); err != nil {
		return appErrors.NewIOError("DIRECTORY_CREATE_FAILED", "Cannot create templates directory", err)
	}
	if err := os.WriteFile(filepath.Join(c.dir, name+templateExt), []byte(content), 0600); err != nil {
		return appErrors.NewIOError("FILE_WRITE_FAILED", "Cannot write template", err)
	}
	c.logger.Info("Template created", "template", name)
	return c.Refresh()
}

// Populate fills the contact placeholders of a template from record.
func Populate(template string, record types.ResumeRecord) string {
	info := record.PersonalInfo
	name := info.DisplayName()

	// Order matters: later placeholders are matched in already replaced text.
	replacements := []struct{ placeholder, value string }{
		{"NAME", name},
		{"EMAIL", info.Email.String()},
		{"PHONE", info.Phone.String()},
		{"LOCATION", info.Location.String()},
		{"WEBSITE", info.Website.String()},
	}
	for _, r := range replacements {
		template = strings.ReplaceAll(template, r.placeholder, r.value)
	}
	return template
}

func scanNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), templateExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), templateExt))
	}
	slices.Sort(names)
	return names, nil
}

// loadDetails merges the optional details file over the built-in metadata.
func loadDetails(path string) (map[string]types.TemplateInfo, error) {
	details := maps.Clone(builtinDetails)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return details, nil
		}
		return details, fmt.Errorf("read %s: %w", path, err)
	}

	var overrides map[string]types.TemplateInfo
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return details, fmt.Errorf("parse %s: %w", path, err)
	}
	maps.Copy(details, overrides)
	return details, nil
}

func validName(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\`) && name != "." && name != ".."
}
