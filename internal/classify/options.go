package classify

// Options is an immutable snapshot of the filter toggles. Classification is a
// pure function of (text, Options); runtime toggle changes produce a new
// snapshot via the With* methods instead of mutating shared state.
type Options struct {
	// FilterEnabled is the master switch. When false every non-empty line
	// passes unconditionally.
	FilterEnabled bool
	// KeepSystem keeps join/leave/achievement announcements.
	KeepSystem bool
	// KeepRewards keeps reward/XP/token toasts that are otherwise dropped.
	KeepRewards bool
	// ShowAll keeps Info lines for display in addition to Chat/System.
	ShowAll bool
}

// DefaultOptions matches the shipped configuration: filter on, system and
// reward lines dropped.
func DefaultOptions() Options {
	return Options{FilterEnabled: true}
}

// WithFilterEnabled returns a copy with the master filter toggled.
func (o Options) WithFilterEnabled(v bool) Options { o.FilterEnabled = v; return o }

// WithKeepSystem returns a copy with the keep-system toggle set.
func (o Options) WithKeepSystem(v bool) Options { o.KeepSystem = v; return o }

// WithKeepRewards returns a copy with the keep-rewards toggle set.
func (o Options) WithKeepRewards(v bool) Options { o.KeepRewards = v; return o }

// WithShowAll returns a copy with the show-all toggle set.
func (o Options) WithShowAll(v bool) Options { o.ShowAll = v; return o }
