// Package i18n loads per-language text documents and resolves dotted keys
// such as "bmi.interp_normal" against them.
package i18n

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// Bundle is one language's nested text document.
type Bundle struct {
	lang    string
	tree    map[string]any
	version string
}

// Parse decodes a language document. JSON and YAML are both accepted.
func Parse(lang string, data []byte) (*Bundle, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse %s bundle: %w", lang, err)
	}
	if tree == nil {
		tree = map[string]any{}
	}
	return &Bundle{
		lang:    lang,
		tree:    tree,
		version: strconv.FormatUint(xxhash.Sum64(data), 16),
	}, nil
}

func (b *Bundle) Lang() string { return b.lang }

// Version is a fingerprint of the source document.
func (b *Bundle) Version() string { return b.version }

// Tree returns the decoded document. Callers must not modify it.
func (b *Bundle) Tree() map[string]any { return b.tree }

// Resolve walks the dotted key. Only string leaves resolve; a missing key or
// a key naming a section reports false.
func (b *Bundle) Resolve(key string) (string, bool) {
	if b == nil {
		return "", false
	}
	var node any = b.tree
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return "", false
		}
		if node, ok = m[part]; !ok {
			return "", false
		}
	}
	s, ok := node.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
