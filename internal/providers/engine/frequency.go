package engine

type band struct {
	name  string
	below float64
	color string
}

var bands = []band{
	{name: "infra-low", below: 100, color: "#3A0CA3"},
	{name: "low", below: 300, color: "#4361EE"},
	{name: "mid", below: 600, color: "#4CC9F0"},
	{name: "high", below: 900, color: "#F72585"},
}

const (
	ultraBand      = "ultra"
	ultraBandColor = "#FFD60A"
	neutralBand    = "mid"
	neutralColor   = "#888888"
)

// Band maps a frequency to its named band and display colour.
func Band(hz float64) (name, color string) {
	for _, b := range bands {
		if hz < b.below {
			return b.name, b.color
		}
	}
	return ultraBand, ultraBandColor
}

// BandColor returns the display colour of a named band, or false when the name is unknown.
func BandColor(name string) (string, bool) {
	if name == ultraBand {
		return ultraBandColor, true
	}
	for _, b := range bands {
		if b.name == name {
			return b.color, true
		}
	}
	return "", false
}

func analyzeFrequency(hz *float64) FrequencyAnalysis {
	if hz == nil {
		return FrequencyAnalysis{Band: neutralBand, BandColorHex: neutralColor}
	}
	v := *hz
	name, color := Band(v)
	return FrequencyAnalysis{
		HasInput:               true,
		InterpretedFrequencyHz: &v,
		Band:                   name,
		BandColorHex:           color,
	}
}
