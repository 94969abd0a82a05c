package evidence

// Tier is the recommendation band for a composite score
type Tier int

const (
	Inadequate Tier = iota
	Weak
	Adequate
	Good
	Strong
	Excellent
	Exceptional
	Invalid
)

// tierFloors holds the lowest composite of each band above Inadequate
var tierFloors = []struct {
	min  float64
	tier Tier
}{
	{8.5, Exceptional},
	{7.5, Excellent},
	{6.5, Strong},
	{5.5, Good},
	{4.5, Adequate},
	{3.5, Weak},
}

// TierFor maps a composite score to its band
func TierFor(composite float64) Tier {
	for _, f := range tierFloors {
		if composite >= f.min {
			return f.tier
		}
	}
	return Inadequate
}

func (t Tier) String() string {
	switch t {
	case Inadequate:
		return "Inadequate"
	case Weak:
		return "Weak"
	case Adequate:
		return "Adequate"
	case Good:
		return "Good"
	case Strong:
		return "Strong"
	case Excellent:
		return "Excellent"
	case Exceptional:
		return "Exceptional"
	case Invalid:
		return "Invalid"
	default:
		return "unknown"
	}
}

// MarshalText encodes the tier by name
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
