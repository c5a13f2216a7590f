package hooks

// HookType identifies the kind of a hook slot. A slot's kind is fixed the
// first time its ordinal is visited.
type HookType uint8

const (
	HookState HookType = iota + 1
	HookRef
	HookMemo
	HookCallback
	HookEffect
)

// String returns a human-readable name for the hook type.
func (h HookType) String() string {
	switch h {
	case HookState:
		return "State"
	case HookRef:
		return "Ref"
	case HookMemo:
		return "Memo"
	case HookCallback:
		return "Callback"
	case HookEffect:
		return "Effect"
	default:
		return "Unknown"
	}
}

// cell is the storage behind one slot.
//
// commit and rollback bracket a render pass: values staged while rendering
// become authoritative on commit and are discarded on rollback.
type cell interface {
	kind() HookType
	commit()
	rollback()
}
