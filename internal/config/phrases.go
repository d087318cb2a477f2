package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PhraseFile is the YAML overlay that extends the quality gate's
// assistant-voice phrase list.
type PhraseFile struct {
	AssistantPhrases []string `yaml:"assistant_phrases"`
}

// LoadPhrases reads extra assistant-voice phrases from path. An empty path
// yields no phrases. Entries are lowercased and trimmed; blanks are dropped.
func LoadPhrases(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read phrases file: %w", err)
	}

	var pf PhraseFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse phrases file: %w", err)
	}

	out := make([]string, 0, len(pf.AssistantPhrases))
	for _, p := range pf.AssistantPhrases {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
