package domain

// Settings is the per-user trade configuration.
type Settings struct {
	PriorityFeeSOL      float64 // additional inclusion fee, in SOL
	MevProtection       bool    // route through protected relays when true
	DefaultBuyAmountSOL float64 // pre-selected buy size, in SOL
	SlippageBps         int     // max tolerated quote deviation, basis points
}

// DefaultSettings returns the documented default record handed to users
// who never configured anything.
func DefaultSettings() Settings {
	return Settings{
		PriorityFeeSOL:      0.001,
		MevProtection:       true,
		DefaultBuyAmountSOL: 0.1,
		SlippageBps:         1500,
	}
}

// SettingsPatch is a partial settings update. Nil fields keep their
// prior values; Apply is a pure merge.
type SettingsPatch struct {
	PriorityFeeSOL      *float64
	MevProtection       *bool
	DefaultBuyAmountSOL *float64
	SlippageBps         *int
}

// Apply merges the patch onto s and returns the result.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.PriorityFeeSOL != nil {
		s.PriorityFeeSOL = *p.PriorityFeeSOL
	}
	if p.MevProtection != nil {
		s.MevProtection = *p.MevProtection
	}
	if p.DefaultBuyAmountSOL != nil {
		s.DefaultBuyAmountSOL = *p.DefaultBuyAmountSOL
	}
	if p.SlippageBps != nil {
		s.SlippageBps = *p.SlippageBps
	}
	return s
}
