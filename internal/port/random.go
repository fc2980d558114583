package port

// RandomSource yields uniform numbers in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}
