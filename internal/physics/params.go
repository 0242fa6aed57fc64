package physics

// Boltzmann constant in pN·nm/K.
const Boltzmann = 0.0138064852

// Params holds the physical parameters of the freely-jointed chain.
// Units: nm for lengths, pN·nm for k_b, pN/nm for k_s, K for temperature.
type Params struct {
	KuhnLength     float64 // l_k
	BendStiffness  float64 // k_b
	StretchModulus float64 // k_s
	BaseLength     float64 // l_b, contour length per base
	Temperature    float64 // T
	Step           float64 // proposal-size tuning parameter
}

// KT returns the thermal energy scale in pN·nm.
func (p Params) KT() float64 {
	return Boltzmann * p.Temperature
}
