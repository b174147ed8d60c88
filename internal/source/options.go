package source

import "regexp"

// Options configures directory walking.
type Options struct {
	// MaxRecords stops the walk after this many records.
	// Zero means unlimited.
	MaxRecords int

	// MaxErrors is the maximum number of errors before aborting.
	// Zero means unlimited.
	MaxErrors int

	// ExcludePatterns are regular expressions for paths to skip. A matching
	// directory is skipped together with its contents.
	ExcludePatterns []*regexp.Regexp
}

// DefaultOptions returns sensible defaults for walking.
func DefaultOptions() *Options {
	opts := &Options{}
	// NFS snapshot directories duplicate the live tree
	opts.AddExcludePattern(`/\.snapshot(/|$)`)
	return opts
}

// WithMaxRecords sets the record limit.
func (o *Options) WithMaxRecords(n int) *Options {
	o.MaxRecords = n
	return o
}

// WithMaxErrors sets the maximum error count.
func (o *Options) WithMaxErrors(n int) *Options {
	o.MaxErrors = n
	return o
}

// AddExcludePattern adds a pattern to exclude.
func (o *Options) AddExcludePattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	o.ExcludePatterns = append(o.ExcludePatterns, re)
	return nil
}

// ShouldExclude checks if a path matches any exclude pattern.
func (o *Options) ShouldExclude(path string) bool {
	for _, re := range o.ExcludePatterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
