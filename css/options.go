package css

// Options configures a Parser. Every field defaults to false, mirroring
// the teacher's preference for plain structs assigned into directly
// over builder patterns.
type Options struct {
	// StarHack accepts a leading "*" on a property name as the IE6/7
	// star-hack marker instead of raising a syntax error.
	StarHack bool
	// UnderscoreHack accepts a leading "_" on a property name as the
	// IE6 underscore-hack marker.
	UnderscoreHack bool
	// IEFilters enables IE_FUNCTION ("progid:...(...)") as a legal term.
	IEFilters bool
	// Strict, when true, lets SyntaxError/ReaderError propagate out of
	// the ruleset and declaration-block recovery boundaries instead of
	// being caught, logged as an error event, and resynced past.
	Strict bool
	// Logf receives low-level parser diagnostics (one line per
	// recovered error). Nil disables logging.
	Logf func(string, ...interface{})
}

func (o Options) logf(format string, args ...interface{}) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}
