package model

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/emutrace/emutrace/trace"
)

// Forever wraps a child generator so it never exhausts. The child's config
// is retained; whenever the live instance runs out it is discarded and a
// brand-new one is built from the config. Rebuilding instead of resetting
// guarantees each restart behaves exactly like a fresh build. A child that
// produces nothing even when freshly built leaves Forever exhausted, so a
// degenerate wrap cannot loop endlessly.
type Forever[S any] struct {
	config trace.Config[S]
	cur    trace.Trace[S]
	done   bool
}

// NewForever returns an endless generator rebuilt from config on exhaustion.
func NewForever[S any](config trace.Config[S]) *Forever[S] {
	return &Forever[S]{config: config}
}

func (m *Forever[S]) Next() (S, bool) {
	var zero S
	if m.done || m.config == nil {
		m.done = true
		return zero, false
	}
	if m.cur == nil {
		m.cur = m.config.Build()
	}
	if s, ok := m.cur.Next(); ok {
		return s, true
	}
	m.cur = m.config.Build()
	if s, ok := m.cur.Next(); ok {
		return s, true
	}
	m.done = true
	return zero, false
}

func marshalForeverJSON[S any](r *trace.Registry[S], of trace.Config[S]) ([]byte, error) {
	inner, err := r.EncodeJSON(of)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]json.RawMessage{"of": inner})
}

func unmarshalForeverJSON[S any](r *trace.Registry[S], data []byte) (trace.Config[S], error) {
	var body struct {
		Of json.RawMessage `json:"of"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	if len(body.Of) == 0 {
		return nil, fmt.Errorf("forever %s config: missing \"of\" child", r.Kind())
	}
	return r.DecodeJSON(body.Of)
}

func marshalForeverYAML[S any](of trace.Config[S]) (interface{}, error) {
	if of == nil {
		return nil, fmt.Errorf("forever config: missing child")
	}
	return map[string]interface{}{
		"of": map[string]trace.Config[S]{of.Tag(): of},
	}, nil
}

func unmarshalForeverYAML[S any](r *trace.Registry[S], node *yaml.Node) (trace.Config[S], error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 || node.Content[0].Value != "of" {
		return nil, fmt.Errorf("forever %s config: expected a single \"of\" child", r.Kind())
	}
	return r.DecodeYAMLNode(node.Content[1])
}

// ForeverBwConfig wraps a bandwidth config into an endless one.
type ForeverBwConfig struct {
	Of trace.BwConfig
}

func (c *ForeverBwConfig) Tag() string { return "ForeverBw" }

func (c *ForeverBwConfig) Validate() error { return validateChild(c.Tag(), c.Of) }

func (c *ForeverBwConfig) Build() trace.BwTrace { return NewForever(c.Of) }

func (c *ForeverBwConfig) MarshalJSON() ([]byte, error) {
	return marshalForeverJSON(trace.BwConfigs, c.Of)
}

func (c *ForeverBwConfig) UnmarshalJSON(data []byte) error {
	of, err := unmarshalForeverJSON(trace.BwConfigs, data)
	if err != nil {
		return err
	}
	c.Of = of
	return nil
}

func (c *ForeverBwConfig) MarshalYAML() (interface{}, error) {
	return marshalForeverYAML(c.Of)
}

func (c *ForeverBwConfig) UnmarshalYAML(node *yaml.Node) error {
	of, err := unmarshalForeverYAML(trace.BwConfigs, node)
	if err != nil {
		return err
	}
	c.Of = of
	return nil
}

// ForeverDelayConfig wraps a delay config into an endless one.
type ForeverDelayConfig struct {
	Of trace.DelayConfig
}

func (c *ForeverDelayConfig) Tag() string { return "ForeverDelay" }

func (c *ForeverDelayConfig) Validate() error { return validateChild(c.Tag(), c.Of) }

func (c *ForeverDelayConfig) Build() trace.DelayTrace { return NewForever(c.Of) }

func (c *ForeverDelayConfig) MarshalJSON() ([]byte, error) {
	return marshalForeverJSON(trace.DelayConfigs, c.Of)
}

func (c *ForeverDelayConfig) UnmarshalJSON(data []byte) error {
	of, err := unmarshalForeverJSON(trace.DelayConfigs, data)
	if err != nil {
		return err
	}
	c.Of = of
	return nil
}

func (c *ForeverDelayConfig) MarshalYAML() (interface{}, error) {
	return marshalForeverYAML(c.Of)
}

func (c *ForeverDelayConfig) UnmarshalYAML(node *yaml.Node) error {
	of, err := unmarshalForeverYAML(trace.DelayConfigs, node)
	if err != nil {
		return err
	}
	c.Of = of
	return nil
}

// ForeverLossConfig wraps a loss config into an endless one.
type ForeverLossConfig struct {
	Of trace.LossConfig
}

func (c *ForeverLossConfig) Tag() string { return "ForeverLoss" }

func (c *ForeverLossConfig) Validate() error { return validateChild(c.Tag(), c.Of) }

func (c *ForeverLossConfig) Build() trace.LossTrace { return NewForever(c.Of) }

func (c *ForeverLossConfig) MarshalJSON() ([]byte, error) {
	return marshalForeverJSON(trace.LossConfigs, c.Of)
}

func (c *ForeverLossConfig) UnmarshalJSON(data []byte) error {
	of, err := unmarshalForeverJSON(trace.LossConfigs, data)
	if err != nil {
		return err
	}
	c.Of = of
	return nil
}

func (c *ForeverLossConfig) MarshalYAML() (interface{}, error) {
	return marshalForeverYAML(c.Of)
}

func (c *ForeverLossConfig) UnmarshalYAML(node *yaml.Node) error {
	of, err := unmarshalForeverYAML(trace.LossConfigs, node)
	if err != nil {
		return err
	}
	c.Of = of
	return nil
}

// ForeverDuplicateConfig wraps a duplication config into an endless one.
type ForeverDuplicateConfig struct {
	Of trace.DuplicateConfig
}

func (c *ForeverDuplicateConfig) Tag() string { return "ForeverDuplicate" }

func (c *ForeverDuplicateConfig) Validate() error { return validateChild(c.Tag(), c.Of) }

func (c *ForeverDuplicateConfig) Build() trace.DuplicateTrace { return NewForever(c.Of) }

func (c *ForeverDuplicateConfig) MarshalJSON() ([]byte, error) {
	return marshalForeverJSON(trace.DuplicateConfigs, c.Of)
}

func (c *ForeverDuplicateConfig) UnmarshalJSON(data []byte) error {
	of, err := unmarshalForeverJSON(trace.DuplicateConfigs, data)
	if err != nil {
		return err
	}
	c.Of = of
	return nil
}

func (c *ForeverDuplicateConfig) MarshalYAML() (interface{}, error) {
	return marshalForeverYAML(c.Of)
}

func (c *ForeverDuplicateConfig) UnmarshalYAML(node *yaml.Node) error {
	of, err := unmarshalForeverYAML(trace.DuplicateConfigs, node)
	if err != nil {
		return err
	}
	c.Of = of
	return nil
}

// ForeverPktDelayConfig wraps a per-packet delay config into an endless one.
type ForeverPktDelayConfig struct {
	Of trace.PktDelayConfig
}

func (c *ForeverPktDelayConfig) Tag() string { return "ForeverPktDelay" }

func (c *ForeverPktDelayConfig) Validate() error {
	return validateChild[time.Duration](c.Tag(), c.Of)
}

func (c *ForeverPktDelayConfig) Build() trace.PktDelayTrace {
	return NewForever[time.Duration](c.Of)
}

func (c *ForeverPktDelayConfig) MarshalJSON() ([]byte, error) {
	return marshalForeverJSON(trace.PktDelayConfigs, c.Of)
}

func (c *ForeverPktDelayConfig) UnmarshalJSON(data []byte) error {
	of, err := unmarshalForeverJSON(trace.PktDelayConfigs, data)
	if err != nil {
		return err
	}
	c.Of = of
	return nil
}

func (c *ForeverPktDelayConfig) MarshalYAML() (interface{}, error) {
	return marshalForeverYAML[time.Duration](c.Of)
}

func (c *ForeverPktDelayConfig) UnmarshalYAML(node *yaml.Node) error {
	of, err := unmarshalForeverYAML(trace.PktDelayConfigs, node)
	if err != nil {
		return err
	}
	c.Of = of
	return nil
}
