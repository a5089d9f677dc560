package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/navtree/internal/errors"
	"git.home.luguber.info/inful/navtree/internal/tree"
)

// Validate checks the configuration for values the build cannot work with.
func Validate(cfg *Config) error {
	if len(cfg.Locales) == 0 {
		return errors.ValidationFailed("locales", "at least one locale prefix is required")
	}

	seen := make(map[string]string, len(cfg.Locales))
	for _, name := range cfg.LocaleNames() {
		prefix := cfg.Locales[name]
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) {
			return errors.ValidationFailed("locales", fmt.Sprintf("invalid locale name %q", name))
		}
		if !strings.HasPrefix(prefix, "/") || !strings.HasSuffix(prefix, "/") {
			return errors.ValidationFailed("locales."+name, fmt.Sprintf("prefix %q must start and end with /", prefix))
		}
		if other, dup := seen[prefix]; dup {
			return errors.ValidationFailed("locales."+name, fmt.Sprintf("prefix %q already used by locale %q", prefix, other))
		}
		seen[prefix] = name
	}

	if _, err := tree.ParsePolicy(cfg.Tree.MissingParent); err != nil {
		return errors.ValidationFailed("tree.missing_parent", err.Error())
	}
	if cfg.Pages == "" && cfg.ContentDir == "" {
		return errors.ValidationFailed("content_dir", "either content_dir or pages is required")
	}
	return nil
}
