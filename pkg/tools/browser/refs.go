package browser

// ResolveRef converts a ref id into a target descriptor against the given
// ref table.
//
// A ref present in the table resolves by its stored role, with an exact
// accessible-name requirement when the snapshot captured a name. A ref
// absent from the table — stale after a newer snapshot, or never seen —
// falls back to raw-id addressing through the driver's element tagging,
// bypassing role and name entirely. Stored role/name data from an older
// table is never reused for a stale ref.
func ResolveRef(refID string, refs map[string]RefEntry) TargetDescriptor {
	if entry, ok := refs[refID]; ok {
		return TargetDescriptor{
			Strategy: TargetByRole,
			Role:     entry.Role,
			Name:     entry.Name,
			Nth:      entry.Nth,
		}
	}
	return TargetDescriptor{
		Strategy: TargetByRawRef,
		RawRef:   refID,
	}
}

// Locate builds a live element locator for a resolved descriptor.
func Locate(page Page, desc TargetDescriptor) Target {
	switch desc.Strategy {
	case TargetByRawRef:
		return page.ByRawRef(desc.RawRef)
	default:
		target := page.ByRoleName(desc.Role, desc.Name, desc.Name != "")
		// Nth is a zero-based offset among same-role/name matches; zero
		// selects the first match, same as an unspecified nth.
		return target.Nth(desc.Nth)
	}
}
