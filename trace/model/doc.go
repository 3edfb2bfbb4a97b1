// Package model provides the built-in generator models for every
// characteristic kind: constant holds (StaticBw, StaticDelay, StaticLoss,
// StaticDuplicate, StaticPktDelay), randomized draws (NormalBw,
// NormalPktDelay), shaped sweeps (SawtoothBw), recorded playback (TraceBw),
// and the composition combinators (Repeated, Forever).
//
// Each model comes as a pair: the generator itself, holding only run state,
// and its *Config, holding the declarative parameters. Configs validate
// eagerly and build generators on demand; combinators keep child configs
// rather than child generators so every repetition or restart begins from a
// clean build.
//
// All configs register themselves with the registries in the parent package
// at init time, so importing this package makes every tag decodable.
package model
