package trace

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Shared registries, one per characteristic kind. The model package fills
// them from its init.
var (
	BwConfigs        = NewRegistry[BwSegment]("bandwidth")
	DelayConfigs     = NewRegistry[DelaySegment]("delay")
	LossConfigs      = NewRegistry[LossSegment]("loss")
	DuplicateConfigs = NewRegistry[DuplicateSegment]("duplicate")
	PktDelayConfigs  = NewRegistry[time.Duration]("packet-delay")
)

// The pattern types below are ordered child-config lists for the repeated
// pattern combinators. Insertion order is playback order. Each type wires
// its kind's registry into the JSON/YAML codecs so heterogeneous nested
// trees round-trip in both encodings.

// BwPattern is an ordered list of bandwidth child configs.
type BwPattern []BwConfig

func (p BwPattern) MarshalJSON() ([]byte, error) { return marshalPatternJSON(BwConfigs, p) }
func (p *BwPattern) UnmarshalJSON(data []byte) error {
	cfgs, err := unmarshalPatternJSON(BwConfigs, data)
	if err != nil {
		return err
	}
	*p = cfgs
	return nil
}
func (p BwPattern) MarshalYAML() (interface{}, error) { return marshalPatternYAML(BwConfigs, p) }
func (p *BwPattern) UnmarshalYAML(node *yaml.Node) error {
	cfgs, err := unmarshalPatternYAML(BwConfigs, node)
	if err != nil {
		return err
	}
	*p = cfgs
	return nil
}

// DelayPattern is an ordered list of delay child configs.
type DelayPattern []DelayConfig

func (p DelayPattern) MarshalJSON() ([]byte, error) { return marshalPatternJSON(DelayConfigs, p) }
func (p *DelayPattern) UnmarshalJSON(data []byte) error {
	cfgs, err := unmarshalPatternJSON(DelayConfigs, data)
	if err != nil {
		return err
	}
	*p = cfgs
	return nil
}
func (p DelayPattern) MarshalYAML() (interface{}, error) { return marshalPatternYAML(DelayConfigs, p) }
func (p *DelayPattern) UnmarshalYAML(node *yaml.Node) error {
	cfgs, err := unmarshalPatternYAML(DelayConfigs, node)
	if err != nil {
		return err
	}
	*p = cfgs
	return nil
}

// LossPattern is an ordered list of loss child configs.
type LossPattern []LossConfig

func (p LossPattern) MarshalJSON() ([]byte, error) { return marshalPatternJSON(LossConfigs, p) }
func (p *LossPattern) UnmarshalJSON(data []byte) error {
	cfgs, err := unmarshalPatternJSON(LossConfigs, data)
	if err != nil {
		return err
	}
	*p = cfgs
	return nil
}
func (p LossPattern) MarshalYAML() (interface{}, error) { return marshalPatternYAML(LossConfigs, p) }
func (p *LossPattern) UnmarshalYAML(node *yaml.Node) error {
	cfgs, err := unmarshalPatternYAML(LossConfigs, node)
	if err != nil {
		return err
	}
	*p = cfgs
	return nil
}

// DuplicatePattern is an ordered list of duplication child configs.
type DuplicatePattern []DuplicateConfig

func (p DuplicatePattern) MarshalJSON() ([]byte, error) {
	return marshalPatternJSON(DuplicateConfigs, p)
}
func (p *DuplicatePattern) UnmarshalJSON(data []byte) error {
	cfgs, err := unmarshalPatternJSON(DuplicateConfigs, data)
	if err != nil {
		return err
	}
	*p = cfgs
	return nil
}
func (p DuplicatePattern) MarshalYAML() (interface{}, error) {
	return marshalPatternYAML(DuplicateConfigs, p)
}
func (p *DuplicatePattern) UnmarshalYAML(node *yaml.Node) error {
	cfgs, err := unmarshalPatternYAML(DuplicateConfigs, node)
	if err != nil {
		return err
	}
	*p = cfgs
	return nil
}

// PktDelayPattern is an ordered list of per-packet delay child configs.
type PktDelayPattern []PktDelayConfig

func (p PktDelayPattern) MarshalJSON() ([]byte, error) {
	return marshalPatternJSON(PktDelayConfigs, p)
}
func (p *PktDelayPattern) UnmarshalJSON(data []byte) error {
	cfgs, err := unmarshalPatternJSON(PktDelayConfigs, data)
	if err != nil {
		return err
	}
	*p = cfgs
	return nil
}
func (p PktDelayPattern) MarshalYAML() (interface{}, error) {
	return marshalPatternYAML(PktDelayConfigs, p)
}
func (p *PktDelayPattern) UnmarshalYAML(node *yaml.Node) error {
	cfgs, err := unmarshalPatternYAML(PktDelayConfigs, node)
	if err != nil {
		return err
	}
	*p = cfgs
	return nil
}
