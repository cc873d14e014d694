package repository

// IsValidFamily returns true if f is a supported record family.
func IsValidFamily(f MetricFamily) bool {
	switch f {
	case FamilySleep, FamilyReadiness, FamilyActivity:
		return true
	default:
		return false
	}
}

// DefaultFamily returns the default record family.
func DefaultFamily() MetricFamily { return FamilySleep }

// NormalizeFamily converts a raw string to a valid family (or default).
func NormalizeFamily(s string) MetricFamily {
	if s == "" {
		return DefaultFamily()
	}
	f := MetricFamily(s)
	if IsValidFamily(f) {
		return f
	}
	return DefaultFamily()
}
