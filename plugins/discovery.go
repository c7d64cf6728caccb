package plugins

import (
	"fmt"

	"github.com/kingrea/switchscan/internal/classify"
	"github.com/kingrea/switchscan/internal/config"
)

// RegisterClassificationRules discovers YAML and Go rule sets under the
// configured rules directory and installs them on policy. Rule sets apply in
// path order, so a later file overrides an earlier one. It returns how many
// rules were installed.
func RegisterClassificationRules(policy *classify.Policy, cfg *config.Config) (int, error) {
	if policy == nil || cfg == nil {
		return 0, nil
	}
	defs, err := loadAllDefinitionFiles(cfg.RulesDir())
	if err != nil {
		return 0, err
	}
	seen := make(map[string]string)
	installed := 0
	for _, file := range defs {
		def := file.Definition
		if existing, ok := seen[def.ID]; ok {
			return installed, fmt.Errorf("plugin: duplicate rule set id %s (%s and %s)", def.ID, existing, file.Path)
		}
		seen[def.ID] = file.Path
		rules, err := def.Resolve()
		if err != nil {
			return installed, fmt.Errorf("plugin: %s: %w", file.Path, err)
		}
		if err := policy.AddRules(rules...); err != nil {
			return installed, fmt.Errorf("plugin: install %s from %s: %w", def.ID, file.Path, err)
		}
		installed += len(rules)
	}
	return installed, nil
}

func loadAllDefinitionFiles(dir string) ([]DefinitionFile, error) {
	yamlDefs, err := LoadDefinitionDir(dir)
	if err != nil {
		return nil, err
	}
	goDefs, err := LoadGoDefinitionDir(dir)
	if err != nil {
		return nil, err
	}
	all := append(yamlDefs, goDefs...)
	sortByPath(all)
	return all, nil
}
