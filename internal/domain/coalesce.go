package domain

import "time"

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// IntFromPtrWithDefault returns the first non-nil *int value, or the fallback.
func IntFromPtrWithDefault(fallback int, ptrs ...*int) int {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

// StrFromPtrWithDefault returns the first non-nil *string value, or the fallback.
func StrFromPtrWithDefault(fallback string, ptrs ...*string) string {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

// ProfilePatch holds optional overrides for a UserProfile. Nil fields keep
// the current value.
type ProfilePatch struct {
	WorkDays     []time.Weekday
	WorkStartMin *int
	WorkEndMin   *int
	BinMinutes   *int
	Timezone     *string
}

// Patched returns a copy of p with the set fields of patch applied.
func (p UserProfile) Patched(patch ProfilePatch) UserProfile {
	out := p
	out.WorkDays = append([]time.Weekday(nil), p.WorkDays...)
	if patch.WorkDays != nil {
		out.WorkDays = append([]time.Weekday(nil), patch.WorkDays...)
	}
	out.WorkStartMin = IntFromPtrWithDefault(p.WorkStartMin, patch.WorkStartMin)
	out.WorkEndMin = IntFromPtrWithDefault(p.WorkEndMin, patch.WorkEndMin)
	out.BinMinutes = IntFromPtrWithDefault(p.BinMinutes, patch.BinMinutes)
	out.Timezone = StrFromPtrWithDefault(p.Timezone, patch.Timezone)
	return out
}
