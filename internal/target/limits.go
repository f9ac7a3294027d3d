package target

// Default expansion bounds.
const (
	DefaultMaxFiles      = 30
	DefaultMaxTotalBytes = 300 * 1024
	DefaultMaxDepth      = 16
	DefaultMaxEntries    = 1000
)

// Limits bounds directory expansion. Exceeding any bound fails resolution
// as a whole.
type Limits struct {
	// MaxFiles is the maximum number of files a directory may expand to.
	MaxFiles int
	// MaxTotalBytes is the maximum aggregate size of the expanded files.
	MaxTotalBytes int64
	// MaxDepth is the maximum directory depth below the expanded directory.
	MaxDepth int
	// MaxEntries is the maximum number of directory entries visited,
	// files and directories combined. Ignored entries do not count.
	MaxEntries int
	// MaxArgs caps the number of literal arguments. 0 means no cap.
	MaxArgs int
	// Ignore holds glob patterns matched against entry base names.
	Ignore []string
}

// DefaultLimits returns the bounds used when nothing is configured.
func DefaultLimits() Limits {
	return Limits{
		MaxFiles:      DefaultMaxFiles,
		MaxTotalBytes: DefaultMaxTotalBytes,
		MaxDepth:      DefaultMaxDepth,
		MaxEntries:    DefaultMaxEntries,
	}
}

// withDefaults fills zero bounds. MaxArgs keeps its zero value.
func (l Limits) withDefaults() Limits {
	if l.MaxFiles <= 0 {
		l.MaxFiles = DefaultMaxFiles
	}
	if l.MaxTotalBytes <= 0 {
		l.MaxTotalBytes = DefaultMaxTotalBytes
	}
	if l.MaxDepth <= 0 {
		l.MaxDepth = DefaultMaxDepth
	}
	if l.MaxEntries <= 0 {
		l.MaxEntries = DefaultMaxEntries
	}
	return l
}
