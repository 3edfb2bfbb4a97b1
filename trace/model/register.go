package model

import (
	"github.com/emutrace/emutrace/trace"
)

// Every config in this package registers itself with the core registries so
// tagged documents decode without callers naming concrete types. Importing
// this package (even blank) is enough to make the full set decodable.
func init() {
	trace.BwConfigs.Register(func() trace.BwConfig { return &StaticBwConfig{} })
	trace.BwConfigs.Register(func() trace.BwConfig { return &NormalBwConfig{} })
	trace.BwConfigs.Register(func() trace.BwConfig { return &SawtoothBwConfig{} })
	trace.BwConfigs.Register(func() trace.BwConfig { return &TraceBwConfig{} })
	trace.BwConfigs.Register(func() trace.BwConfig { return &RepeatedBwPatternConfig{} })
	trace.BwConfigs.Register(func() trace.BwConfig { return &ForeverBwConfig{} })

	trace.DelayConfigs.Register(func() trace.DelayConfig { return &StaticDelayConfig{} })
	trace.DelayConfigs.Register(func() trace.DelayConfig { return &RepeatedDelayPatternConfig{} })
	trace.DelayConfigs.Register(func() trace.DelayConfig { return &ForeverDelayConfig{} })

	trace.LossConfigs.Register(func() trace.LossConfig { return &StaticLossConfig{} })
	trace.LossConfigs.Register(func() trace.LossConfig { return &RepeatedLossPatternConfig{} })
	trace.LossConfigs.Register(func() trace.LossConfig { return &ForeverLossConfig{} })

	trace.DuplicateConfigs.Register(func() trace.DuplicateConfig { return &StaticDuplicateConfig{} })
	trace.DuplicateConfigs.Register(func() trace.DuplicateConfig { return &RepeatedDuplicatePatternConfig{} })
	trace.DuplicateConfigs.Register(func() trace.DuplicateConfig { return &ForeverDuplicateConfig{} })

	trace.PktDelayConfigs.Register(func() trace.PktDelayConfig { return &StaticPktDelayConfig{} })
	trace.PktDelayConfigs.Register(func() trace.PktDelayConfig { return &NormalPktDelayConfig{} })
	trace.PktDelayConfigs.Register(func() trace.PktDelayConfig { return &RepeatedPktDelayPatternConfig{} })
	trace.PktDelayConfigs.Register(func() trace.PktDelayConfig { return &ForeverPktDelayConfig{} })
}
