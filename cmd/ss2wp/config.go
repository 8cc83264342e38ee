package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// YAMLLoader is a kong.ConfigurationLoader for flat YAML files whose keys
// are flag names, either hyphenated or with underscores:
//
//	filename-scheme: hash
//	suppress_first_image: true
func YAMLLoader(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	values := map[string]any{}
	if strings.TrimSpace(string(data)) != "" {
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	var resolver kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		for _, key := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
			v, ok := values[key]
			if !ok || v == nil {
				continue
			}
			switch v.(type) {
			case map[string]any, []any:
				return nil, fmt.Errorf("config key %q must be a scalar", key)
			}
			return fmt.Sprint(v), nil
		}
		return nil, nil
	}
	return resolver, nil
}
