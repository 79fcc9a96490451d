package prefs

// EnabledPlugins returns the plugins the user explicitly enabled.
func (p *Prefs) EnabledPlugins() []string {
	return p.getStringSliceOr("plugins.enabled", nil)
}

// DisabledPlugins returns the plugins the user explicitly disabled.
func (p *Prefs) DisabledPlugins() []string {
	return p.getStringSliceOr("plugins.disabled", nil)
}

// PluginStates returns the persisted plugin enable and disable lists.
func (p *Prefs) PluginStates() (enabled, disabled []string) {
	return p.EnabledPlugins(), p.DisabledPlugins()
}

// SetPluginStates replaces both plugin lists wholesale. The lists are
// always rewritten in full so a plugin moved back to its default state
// disappears from both.
func (p *Prefs) SetPluginStates(enabled, disabled []string) error {
	if enabled == nil {
		enabled = []string{}
	}
	if disabled == nil {
		disabled = []string{}
	}
	if err := p.Set("plugins.disabled", disabled); err != nil {
		return err
	}
	return p.Set("plugins.enabled", enabled)
}
