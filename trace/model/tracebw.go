package model

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/emutrace/emutrace/trace"
)

// TraceBwStage is one recorded stage: every bandwidth in Bw is held for Step.
type TraceBwStage struct {
	Step time.Duration
	Bw   []trace.Bandwidth
}

// TraceBw plays a recorded bandwidth pattern back verbatim.
type TraceBw struct {
	stages []TraceBwStage
	stage  int
	offset int
}

func (m *TraceBw) Next() (trace.BwSegment, bool) {
	for m.stage < len(m.stages) {
		st := m.stages[m.stage]
		if m.offset < len(st.Bw) {
			bw := st.Bw[m.offset]
			m.offset++
			return trace.BwSegment{Bw: bw, Duration: st.Step}, true
		}
		m.stage++
		m.offset = 0
	}
	return trace.BwSegment{}, false
}

// TraceBwConfig configures TraceBw. Its wire form, in both JSON and YAML, is
// the compact pairs encoding recorded traces ship in:
//
//	[[step_ms, [mbps, mbps, ...]], ...]
type TraceBwConfig struct {
	Pattern []TraceBwStage
}

func (c *TraceBwConfig) Tag() string { return "TraceBw" }

func (c *TraceBwConfig) Validate() error {
	if len(c.Pattern) == 0 {
		return fmt.Errorf("TraceBw: pattern must not be empty")
	}
	for i, st := range c.Pattern {
		if st.Step <= 0 {
			return fmt.Errorf("TraceBw: stage %d step must be positive, got %s", i, st.Step)
		}
		if len(st.Bw) == 0 {
			return fmt.Errorf("TraceBw: stage %d has no bandwidth values", i)
		}
	}
	return nil
}

func (c *TraceBwConfig) Build() trace.BwTrace {
	stages := make([]TraceBwStage, len(c.Pattern))
	copy(stages, c.Pattern)
	return &TraceBw{stages: stages}
}

func (c *TraceBwConfig) pairs() []interface{} {
	out := make([]interface{}, 0, len(c.Pattern))
	for _, st := range c.Pattern {
		mbps := make([]float64, 0, len(st.Bw))
		for _, bw := range st.Bw {
			mbps = append(mbps, bw.BitsPerSec()/1e6)
		}
		out = append(out, []interface{}{
			float64(st.Step) / float64(time.Millisecond),
			mbps,
		})
	}
	return out
}

func stageFromPair(stepMs float64, mbps []float64) (TraceBwStage, error) {
	if stepMs < 0 || math.IsNaN(stepMs) || math.IsInf(stepMs, 0) {
		return TraceBwStage{}, fmt.Errorf("TraceBw: invalid stage step %g ms", stepMs)
	}
	st := TraceBwStage{Step: time.Duration(math.Round(stepMs * float64(time.Millisecond)))}
	for _, v := range mbps {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return TraceBwStage{}, fmt.Errorf("TraceBw: invalid bandwidth %g Mbps", v)
		}
		st.Bw = append(st.Bw, trace.Bandwidth(math.Round(v*1e6)))
	}
	return st, nil
}

func (c *TraceBwConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.pairs())
}

func (c *TraceBwConfig) UnmarshalJSON(data []byte) error {
	var raw [][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("TraceBw: %w", err)
	}
	pattern := make([]TraceBwStage, 0, len(raw))
	for i, pair := range raw {
		if len(pair) != 2 {
			return fmt.Errorf("TraceBw: stage %d must be a [step_ms, [mbps...]] pair", i)
		}
		var stepMs float64
		if err := json.Unmarshal(pair[0], &stepMs); err != nil {
			return fmt.Errorf("TraceBw: stage %d step: %w", i, err)
		}
		var mbps []float64
		if err := json.Unmarshal(pair[1], &mbps); err != nil {
			return fmt.Errorf("TraceBw: stage %d bandwidths: %w", i, err)
		}
		st, err := stageFromPair(stepMs, mbps)
		if err != nil {
			return err
		}
		pattern = append(pattern, st)
	}
	c.Pattern = pattern
	return nil
}

func (c *TraceBwConfig) MarshalYAML() (interface{}, error) {
	return c.pairs(), nil
}

func (c *TraceBwConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("TraceBw: expected a sequence of [step_ms, [mbps...]] pairs")
	}
	pattern := make([]TraceBwStage, 0, len(node.Content))
	for i, pair := range node.Content {
		if pair.Kind != yaml.SequenceNode || len(pair.Content) != 2 {
			return fmt.Errorf("TraceBw: stage %d must be a [step_ms, [mbps...]] pair", i)
		}
		var stepMs float64
		if err := pair.Content[0].Decode(&stepMs); err != nil {
			return fmt.Errorf("TraceBw: stage %d step: %w", i, err)
		}
		var mbps []float64
		if err := pair.Content[1].Decode(&mbps); err != nil {
			return fmt.Errorf("TraceBw: stage %d bandwidths: %w", i, err)
		}
		st, err := stageFromPair(stepMs, mbps)
		if err != nil {
			return err
		}
		pattern = append(pattern, st)
	}
	c.Pattern = pattern
	return nil
}
