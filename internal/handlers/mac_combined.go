package handlers

// MacCombined is handler id 2, the legacy predecessor of MacTable (id
// 5). The task runner hands it every raw row captured for the node in
// one call rather than grouping by request — the two handlers overlap
// in responsibility but are kept as separate registrations with an
// identical external contract (SPEC_FULL.md design notes).
type MacCombined struct {
	MacTable
}

func (h *MacCombined) Name() string { return "MacCombined" }
