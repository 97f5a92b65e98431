package effects

import effectmodel "github.com/on-the-ground/listiter/effects/internal/model"

// EffectScopeConfig sizes the worker pool behind a registered handler.
type EffectScopeConfig = effectmodel.EffectScopeConfig

// NewEffectScopeConfig clamps non-positive sizes to 1.
func NewEffectScopeConfig(bufferSize, numWorkers int) EffectScopeConfig {
	return effectmodel.NewEffectScopeConfig(bufferSize, numWorkers)
}
