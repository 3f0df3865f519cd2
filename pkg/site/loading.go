package site

import (
	"io/fs"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	ffs "github.com/homelab-run/homelab-srv/pkg/fs"
)

// Mapping is a parsed YAML mapping with its keys kept in document order.
// All scalars in the tree are strings: the loader never coerces numbers or
// booleans, so values like port numbers and PUID/PGID survive verbatim.
type Mapping []Entry

type Entry struct {
	Key   string
	Value any
}

// Get returns the value for the given key, or nil if the key is absent.
func (m Mapping) Get(key string) any {
	for _, entry := range m {
		if entry.Key == key {
			return entry.Value
		}
	}
	return nil
}

// GetMapping returns the sub-mapping for the given key, or nil if the key is
// absent or holds a non-mapping value.
func (m Mapping) GetMapping(key string) Mapping {
	sub, _ := m.Get(key).(Mapping)
	return sub
}

// GetString returns the scalar value for the given key, or "" if the key is
// absent or holds a non-scalar value.
func (m Mapping) GetString(key string) string {
	s, _ := m.Get(key).(string)
	return s
}

// Keys returns the mapping's keys in document order.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for _, entry := range m {
		keys = append(keys, entry.Key)
	}
	return keys
}

// ReadYAML parses the YAML document at filePath in the provided filesystem.
// A missing file yields a nil Mapping without an error; a file which exists
// but can't be parsed yields a wrapped error which callers are expected to
// log and then treat the document as absent.
func ReadYAML(fsys ffs.PathedFS, filePath string) (Mapping, error) {
	buf, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "couldn't read %s/%s", fsys.Path(), filePath)
	}

	doc := &yaml.Node{}
	if err = yaml.Unmarshal(buf, doc); err != nil {
		return nil, errors.Wrapf(err, "couldn't parse %s/%s", fsys.Path(), filePath)
	}
	mapping, _ := convertNode(doc).(Mapping)
	return mapping, nil
}

func convertNode(node *yaml.Node) any {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil
		}
		return convertNode(node.Content[0])
	case yaml.ScalarNode:
		return node.Value
	case yaml.SequenceNode:
		values := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			values = append(values, convertNode(child))
		}
		return values
	case yaml.MappingNode:
		mapping := make(Mapping, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			mapping = append(mapping, Entry{
				Key:   node.Content[i].Value,
				Value: convertNode(node.Content[i+1]),
			})
		}
		return mapping
	case yaml.AliasNode:
		return convertNode(node.Alias)
	}
	return nil
}

// Words flattens a scalar-or-sequence value into its whitespace-separated
// words, so `rps: unitA unitB` and `rps: [unitA, unitB]` parse identically.
func Words(value any) []string {
	switch v := value.(type) {
	case string:
		return strings.Fields(v)
	case []any:
		var words []string
		for _, item := range v {
			words = append(words, Words(item)...)
		}
		return words
	}
	return nil
}

// splitNames splits a comma-separated selector into its non-empty names.
func splitNames(names string) []string {
	var split []string
	for _, name := range strings.Split(names, ",") {
		if name = strings.TrimSpace(name); name != "" {
			split = append(split, name)
		}
	}
	return split
}
