// Package searchselect implements a single-select control with debounced
// local or remote search, windowed option rendering and incremental loading.
//
// A Select is a state machine: callers feed it events (Open, Type, Choose,
// SetProps, ...) and render View. Caller callbacks never run while the select
// holds its lock, so they may call back into it.
package searchselect

// Option is a selectable value/label pair. Value is the selection key.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Resolve returns the option displayed for value: the loaded option with the
// same value, otherwise details when it carries that value. An empty value
// or no match resolves to nil.
func Resolve(options []Option, value string, details *Option) *Option {
	if value == "" {
		return nil
	}
	for i := range options {
		if options[i].Value == value {
			opt := options[i]
			return &opt
		}
	}
	if details != nil && details.Value == value {
		opt := *details
		return &opt
	}
	return nil
}

func indexOf(options []Option, value string) int {
	for i, opt := range options {
		if opt.Value == value {
			return i
		}
	}
	return -1
}
