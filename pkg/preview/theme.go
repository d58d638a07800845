package preview

import (
	"fmt"

	theme "github.com/goliatone/go-theme"
)

// BuiltinThemes returns the manifests shipped with the renderer. Callers can
// register additional manifests alongside these.
func BuiltinThemes() []*theme.Manifest {
	return []*theme.Manifest{
		{
			Name:    "newsroom",
			Version: "1.0.0",
			Tokens: map[string]string{
				"color-accent":  "#b91c1c",
				"color-bg":      "#ffffff",
				"color-text":    "#111827",
				"font-body":     "Georgia, serif",
				"font-headline": "'Helvetica Neue', sans-serif",
			},
			Variants: map[string]theme.Variant{
				"dark": {
					Tokens: map[string]string{
						"color-bg":   "#111827",
						"color-text": "#f9fafb",
					},
				},
			},
		},
		{
			Name:    "studio",
			Version: "1.0.0",
			Tokens: map[string]string{
				"color-accent":  "#2563eb",
				"color-bg":      "#f8fafc",
				"color-text":    "#0f172a",
				"font-body":     "'Inter', sans-serif",
				"font-headline": "'Inter', sans-serif",
			},
		},
	}
}

// ManifestSelector is a theme.ThemeSelector over a fixed set of manifests.
// Variant tokens overlay the base tokens in the returned manifest.
type ManifestSelector struct {
	manifests map[string]*theme.Manifest
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector indexes the given manifests by name.
func NewManifestSelector(manifests ...*theme.Manifest) *ManifestSelector {
	indexed := make(map[string]*theme.Manifest, len(manifests))
	for _, manifest := range manifests {
		if manifest == nil || manifest.Name == "" {
			continue
		}
		indexed[manifest.Name] = manifest
	}
	return &ManifestSelector{manifests: indexed}
}

// Select implements theme.ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("preview: unknown theme %q", name)
	}
	resolved := manifest
	if variant != "" {
		overlay, ok := manifest.Variants[variant]
		if !ok {
			return nil, fmt.Errorf("preview: theme %q has no variant %q", name, variant)
		}
		merged := *manifest
		merged.Tokens = make(map[string]string, len(manifest.Tokens)+len(overlay.Tokens))
		for token, value := range manifest.Tokens {
			merged.Tokens[token] = value
		}
		for token, value := range overlay.Tokens {
			merged.Tokens[token] = value
		}
		resolved = &merged
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: resolved}, nil
}
