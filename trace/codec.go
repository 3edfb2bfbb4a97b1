package trace

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry maps serialization tags to config factories for one characteristic
// kind. Decoding reads the single-key tagged-union form ({"StaticBw": {...}}),
// looks the tag up here and reconstructs the concrete variant. An unknown tag
// fails the whole decode; nothing partially decoded is ever returned.
//
// Config types register themselves from the model package's init, so
// importing that package makes every built-in tag decodable.
type Registry[S any] struct {
	kind      string
	factories map[string]func() Config[S]
}

// NewRegistry creates an empty registry for the named characteristic kind.
// The kind only appears in error messages.
func NewRegistry[S any](kind string) *Registry[S] {
	return &Registry[S]{
		kind:      kind,
		factories: make(map[string]func() Config[S]),
	}
}

// Register adds a config factory. The tag is taken from a freshly constructed
// value. Registering the same tag twice panics: that is a programming error,
// not a runtime condition.
func (r *Registry[S]) Register(fn func() Config[S]) {
	tag := fn().Tag()
	if _, dup := r.factories[tag]; dup {
		panic(fmt.Sprintf("%s config tag %q registered twice", r.kind, tag))
	}
	r.factories[tag] = fn
}

// Kind returns the characteristic kind this registry serves.
func (r *Registry[S]) Kind() string { return r.kind }

// Tags returns all registered tags, sorted.
func (r *Registry[S]) Tags() []string {
	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// New constructs an empty config for the given tag.
func (r *Registry[S]) New(tag string) (Config[S], error) {
	fn, ok := r.factories[tag]
	if !ok {
		return nil, fmt.Errorf("unknown %s config tag %q", r.kind, tag)
	}
	return fn(), nil
}

// === JSON codec (structured numeric form) ===

// EncodeJSON encodes a config tree in the tagged-union JSON form. Magnitude
// fields serialize as raw integers (bits/s, nanoseconds).
func (r *Registry[S]) EncodeJSON(cfg Config[S]) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("encoding %s config: nil config", r.kind)
	}
	body, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding %s config %q: %w", r.kind, cfg.Tag(), err)
	}
	return json.Marshal(map[string]json.RawMessage{cfg.Tag(): body})
}

// DecodeJSON decodes a tagged-union JSON document into a validated config
// tree. Any unknown tag, malformed body or validation failure fails the
// entire decode.
func (r *Registry[S]) DecodeJSON(data []byte) (Config[S], error) {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("decoding %s config: %w", r.kind, err)
	}
	if len(wrapper) != 1 {
		return nil, fmt.Errorf("decoding %s config: want exactly one type tag, got %d", r.kind, len(wrapper))
	}
	for tag, body := range wrapper {
		cfg, err := r.New(tag)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(body, cfg); err != nil {
			return nil, fmt.Errorf("decoding %s config %q: %w", r.kind, tag, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("decoding %s config %q: %w", r.kind, tag, err)
		}
		return cfg, nil
	}
	return nil, fmt.Errorf("decoding %s config: empty document", r.kind)
}

// === YAML codec (humanized form) ===

// EncodeYAML encodes a config tree in the tagged-union YAML form. Magnitude
// fields serialize as unit-suffixed strings ("12Mbps", "1s").
func (r *Registry[S]) EncodeYAML(cfg Config[S]) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("encoding %s config: nil config", r.kind)
	}
	out, err := yaml.Marshal(map[string]Config[S]{cfg.Tag(): cfg})
	if err != nil {
		return nil, fmt.Errorf("encoding %s config %q: %w", r.kind, cfg.Tag(), err)
	}
	return out, nil
}

// DecodeYAML decodes a tagged-union YAML document, with the same atomic
// failure behavior as DecodeJSON.
func (r *Registry[S]) DecodeYAML(data []byte) (Config[S], error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decoding %s config: %w", r.kind, err)
	}
	if len(root.Content) != 1 {
		return nil, fmt.Errorf("decoding %s config: want a single tagged document", r.kind)
	}
	return r.DecodeYAMLNode(root.Content[0])
}

// DecodeYAMLNode decodes one tagged mapping node. Shared by DecodeYAML and
// the nested pattern decoders.
func (r *Registry[S]) DecodeYAMLNode(node *yaml.Node) (Config[S], error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return nil, fmt.Errorf("decoding %s config: want a mapping with exactly one type tag", r.kind)
	}
	tag := node.Content[0].Value
	cfg, err := r.New(tag)
	if err != nil {
		return nil, err
	}
	if err := node.Content[1].Decode(cfg); err != nil {
		return nil, fmt.Errorf("decoding %s config %q: %w", r.kind, tag, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("decoding %s config %q: %w", r.kind, tag, err)
	}
	return cfg, nil
}

// === Nested-tree helpers ===

// Pattern lists and single-child wrapper configs delegate their element
// encoding here so that nesting works to arbitrary depth in both formats.

func marshalPatternJSON[S any](r *Registry[S], cfgs []Config[S]) ([]byte, error) {
	elems := make([]json.RawMessage, 0, len(cfgs))
	for _, cfg := range cfgs {
		raw, err := r.EncodeJSON(cfg)
		if err != nil {
			return nil, err
		}
		elems = append(elems, raw)
	}
	return json.Marshal(elems)
}

func unmarshalPatternJSON[S any](r *Registry[S], data []byte) ([]Config[S], error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("decoding %s pattern: %w", r.kind, err)
	}
	cfgs := make([]Config[S], 0, len(elems))
	for i, raw := range elems {
		cfg, err := r.DecodeJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("pattern element %d: %w", i, err)
		}
		cfgs = append(cfgs, cfg)
	}
	return cfgs, nil
}

func marshalPatternYAML[S any](r *Registry[S], cfgs []Config[S]) (interface{}, error) {
	elems := make([]map[string]Config[S], 0, len(cfgs))
	for _, cfg := range cfgs {
		if cfg == nil {
			return nil, fmt.Errorf("encoding %s pattern: nil element", r.kind)
		}
		elems = append(elems, map[string]Config[S]{cfg.Tag(): cfg})
	}
	return elems, nil
}

func unmarshalPatternYAML[S any](r *Registry[S], node *yaml.Node) ([]Config[S], error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("decoding %s pattern: want a sequence", r.kind)
	}
	cfgs := make([]Config[S], 0, len(node.Content))
	for i, elem := range node.Content {
		cfg, err := r.DecodeYAMLNode(elem)
		if err != nil {
			return nil, fmt.Errorf("pattern element %d: %w", i, err)
		}
		cfgs = append(cfgs, cfg)
	}
	return cfgs, nil
}
