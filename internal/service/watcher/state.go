package watcher

// State 감시 루프의 현재 상태
type State int32

const (
	StateIdle State = iota
	StateFetching
	StateProcessing
	StateSleeping
	StateStopped
)

var stateNames = [...]string{
	StateIdle:       "idle",
	StateFetching:   "fetching",
	StateProcessing: "processing",
	StateSleeping:   "sleeping",
	StateStopped:    "stopped",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
