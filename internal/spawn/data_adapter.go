package spawn

import (
	"context"
	"fmt"
	"strings"

	"github.com/Auriosi/AuriNPC/internal/model"
)

// ConfigPresetRepo implements PresetRepository over presets declared inline
// in the server config.
type ConfigPresetRepo struct {
	presets []model.Preset
}

// NewConfigPresetRepo creates a ConfigPresetRepo adapter.
func NewConfigPresetRepo(presets []model.Preset) *ConfigPresetRepo {
	return &ConfigPresetRepo{presets: presets}
}

// LoadAll returns copies of every declared preset.
func (r *ConfigPresetRepo) LoadAll(_ context.Context) ([]*model.Preset, error) {
	out := make([]*model.Preset, 0, len(r.presets))
	for i := range r.presets {
		p := r.presets[i]
		out = append(out, &p)
	}
	return out, nil
}

// LoadByName returns a copy of the named preset (case-insensitive).
func (r *ConfigPresetRepo) LoadByName(_ context.Context, name string) (*model.Preset, error) {
	for i := range r.presets {
		if strings.EqualFold(r.presets[i].Name, name) {
			p := r.presets[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
}

// MultiRepo concatenates presets from several repositories in order.
type MultiRepo []PresetRepository

// LoadAll loads from every repository and stops at the first error.
func (m MultiRepo) LoadAll(ctx context.Context) ([]*model.Preset, error) {
	var out []*model.Preset
	for _, r := range m {
		presets, err := r.LoadAll(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, presets...)
	}
	return out, nil
}
