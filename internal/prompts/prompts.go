// Package prompts loads prompt templates from disk once at startup and
// renders them with strict variable checking, so a typo in a template or a
// missing substitution fails the request instead of reaching the model.
package prompts

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/refertrack/backend/internal/utils"
)

const (
	ProfileExtractor   = "profile_extractor"
	CompanyInformation = "company_information"
	ColdMessage        = "cold_message"
	ResumePrompt       = "resume_prompt"
)

type Library struct {
	templates map[string]*template.Template
}

// Load parses every .txt file in dir as a template named after the file.
func Load(dir string) (*Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read prompts dir %q: %w", dir, err)
	}

	lib := &Library{templates: make(map[string]*template.Template)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".txt")
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read prompt %q: %w", name, err)
		}
		tmpl, err := template.New(name).Option("missingkey=error").Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("parse prompt %q: %w", name, err)
		}
		lib.templates[name] = tmpl
	}
	return lib, nil
}

func (l *Library) Render(name string, vars map[string]any) (string, error) {
	const op = "prompts.Render"

	tmpl, ok := l.templates[name]
	if !ok {
		return "", utils.E(utils.CodeNotFound, op, fmt.Sprintf("prompt template %q not found", name), nil)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("prompt template %q: missing or invalid variable", name), err)
	}
	return buf.String(), nil
}
