package systems

import "github.com/pthm-cable/goldswarm/swarm"

// KineticEnergy returns the sum of squared speeds over active slots.
func KineticEnergy(st *swarm.Store) float64 {
	var e float64
	for _, v := range st.Vel[:st.ActiveCount()] {
		e += float64(v.Dot(v))
	}
	return e
}

// Speeds appends the speed of every active slot to dst.
func Speeds(st *swarm.Store, dst []float64) []float64 {
	for _, v := range st.Vel[:st.ActiveCount()] {
		dst = append(dst, float64(v.Len()))
	}
	return dst
}
