package persist

// State is the adapter lifecycle: Uninitialized → Loading → Ready, then
// Ready → Saving → Ready for every write.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
	Saving
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Saving:
		return "saving"
	default:
		return "uninitialized"
	}
}
