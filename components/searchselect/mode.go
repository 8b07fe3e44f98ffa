package searchselect

// SearchMode selects where filtering happens. It is either LocalSearch or
// RemoteSearch.
type SearchMode interface {
	searchMode()
}

// LocalSearch filters the loaded options in memory as the user types.
type LocalSearch struct {
	// Matcher defaults to SubstringMatcher.
	Matcher Matcher
}

// RemoteSearch delegates filtering to the caller, who answers by supplying
// new Options through SetProps.
type RemoteSearch struct {
	// OnSearchChange receives the debounced search term.
	OnSearchChange func(term string)
	// OnLoadMore requests the next page. Nil disables incremental loading.
	OnLoadMore func()
	HasMore    bool
	// TotalCount is the size of the full result set, 0 when unknown.
	TotalCount int
}

func (LocalSearch) searchMode()  {}
func (RemoteSearch) searchMode() {}

// CanLoadMore reports whether the load-more affordance applies. An unknown
// total (0) defers to HasMore alone.
func (r RemoteSearch) CanLoadMore(loaded int) bool {
	if r.OnLoadMore == nil || !r.HasMore {
		return false
	}
	return r.TotalCount == 0 || r.TotalCount > loaded
}

func remoteMode(mode SearchMode) (RemoteSearch, bool) {
	switch m := mode.(type) {
	case RemoteSearch:
		return m, true
	case *RemoteSearch:
		if m != nil {
			return *m, true
		}
	}
	return RemoteSearch{}, false
}

func localMatcher(mode SearchMode) Matcher {
	switch m := mode.(type) {
	case LocalSearch:
		if m.Matcher != nil {
			return m.Matcher
		}
	case *LocalSearch:
		if m != nil && m.Matcher != nil {
			return m.Matcher
		}
	}
	return SubstringMatcher{}
}
