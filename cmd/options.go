package cmd

// Options holds the shared command-line options for the bilisweep CLI.
type Options struct {
	ConfigPath  string
	CookiesPath string
	Format      string
	Verbosity   int
	DryRun      bool

	// Policy overrides. Empty / unset values defer to the config file;
	// runSweep only applies a flag the user actually changed.
	Inactive          string // duration of inactivity before removal (e.g. "365", "1y", "6mo")
	Mode              string // feed or submission
	SkipRecent        int
	PageSize          int
	LagMin            int
	LagMax            int
	NoAutoWhitelist   bool
	RemoveNoActivity  bool
	RemoveDeactivated bool
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format (table, json).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithDryRun enables dry-run mode.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.DryRun = dryRun
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithMode sets the activity detection mode (feed, submission).
func WithMode(mode string) Option {
	return func(o *Options) {
		o.Mode = mode
	}
}
