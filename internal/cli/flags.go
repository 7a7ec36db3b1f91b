package cli

import "rtc/internal/config"

// Flags holds command-line flags
type Flags struct {
	BatchSize  int
	Endpoint   string
	Permissive bool
	DryRun     bool
	NoProgress bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		BatchSize:  f.BatchSize,
		Endpoint:   f.Endpoint,
		Permissive: f.Permissive,
		DryRun:     f.DryRun,
		NoProgress: f.NoProgress,
	}
}
