package engine

// FuturePerformance blends the soft-skill average (45%), fit (40%) and
// stability (15%) and applies the interaction adjustments:
//
//	fit >= 80 and soft >= 75: +5
//	fit >= 80 and soft < 50:  -8
//	soft >= 80 and fit < 50:  -8
func FuturePerformance(fit int, soft SoftSkills, stability int) int {
	avg := soft.Average()
	f := float64(fit)
	combined := avg*0.45 + f*0.4 + float64(stability)*0.15

	if fit >= 80 && avg >= 75 {
		combined += 5
	}
	if fit >= 80 && avg < 50 {
		combined -= 8
	}
	if avg >= 80 && fit < 50 {
		combined -= 8
	}
	return round(clamp(combined, 0, 100))
}
