package usecase

import "agri-advisor/internal/domain/entity"

// Advisory messages, grouped by tier.
const (
	MsgAcidic     = "Soil is acidic (pH below 6). Add agricultural lime to raise the pH."
	MsgAlkaline   = "Soil is alkaline (pH above 8). Add sulphur or organic matter to lower the pH."
	MsgOptimalPH  = "Soil pH is in the optimal range for most crops."
	MsgDry        = "Soil moisture is low. Irrigate the field soon."
	MsgWaterlog   = "Soil is waterlogged. Improve drainage and reduce irrigation."
	MsgGoodMoist  = "Soil moisture is in a good range."
	MsgLowTemp    = "Temperature is low. Protect crops from frost."
	MsgHighTemp   = "Temperature is high. Provide shade and irrigate during cooler hours."
	MsgFavorTemp  = "Temperature is favorable for crop growth."
	MsgVeryAcidic = "Very acidic soil detected. Apply lime in split doses and retest after four weeks."
	MsgStrongAlk  = "Strongly alkaline soil detected. Apply gypsum and work in organic compost."
	MsgExtremeDry = "Extremely dry soil. Start irrigation immediately and mulch to hold moisture."
	MsgRootRot    = "Excess moisture creates a risk of root rot. Pause irrigation and open drainage channels."
	MsgColdStress = "Severe cold stress likely. Use row covers or delay sowing."
	MsgHeatStress = "Heat stress likely. Irrigate in the evening and consider shade nets."
	MsgNutrients  = "pH outside 6-8 limits nutrient availability (phosphorus, iron, zinc). Get a soil nutrient test."
	MsgPestRisk   = "Warm conditions raise pest and fungal disease risk. Scout fields regularly and keep canopies ventilated."
	MsgCropSuit   = "Conditions suit crops such as wheat, maize, rice, soybean and most vegetables."
)

// Evaluate runs the rule tiers over a reading and returns advisories in tier
// order. Rules that need temperature are skipped when it is nil.
func Evaluate(r entity.SoilReading) []string {
	out := make([]string, 0, 8)

	// basic
	switch {
	case r.PH < 6:
		out = append(out, MsgAcidic)
	case r.PH > 8:
		out = append(out, MsgAlkaline)
	default:
		out = append(out, MsgOptimalPH)
	}

	switch {
	case r.Moisture < 30:
		out = append(out, MsgDry)
	case r.Moisture > 70:
		out = append(out, MsgWaterlog)
	default:
		out = append(out, MsgGoodMoist)
	}

	if t := r.Temperature; t != nil {
		switch {
		case *t < 15:
			out = append(out, MsgLowTemp)
		case *t > 35:
			out = append(out, MsgHighTemp)
		default:
			out = append(out, MsgFavorTemp)
		}
	}

	// advanced
	if r.PH < 5.5 {
		out = append(out, MsgVeryAcidic)
	} else if r.PH > 8.5 {
		out = append(out, MsgStrongAlk)
	}
	if r.Moisture < 20 {
		out = append(out, MsgExtremeDry)
	} else if r.Moisture > 80 {
		out = append(out, MsgRootRot)
	}
	if t := r.Temperature; t != nil {
		if *t < 10 {
			out = append(out, MsgColdStress)
		} else if *t > 40 {
			out = append(out, MsgHeatStress)
		}
	}

	// scientific
	if r.PH < 6 || r.PH > 8 {
		out = append(out, MsgNutrients)
	}
	if t := r.Temperature; t != nil && ((r.Moisture > 70 && *t > 30) || *t > 35) {
		out = append(out, MsgPestRisk)
	}
	if r.PH >= 6 && r.PH <= 7.5 && r.Moisture >= 30 && r.Moisture <= 70 {
		out = append(out, MsgCropSuit)
	}

	return out
}
