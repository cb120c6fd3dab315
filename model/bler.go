package model

// BlerEstimate is the outcome of one predictor evaluation: the probability
// that a transport block of the given sizing fails decoding, plus how many
// code blocks the transport block was split into.
type BlerEstimate struct {
	Bler       float64
	CodeBlocks int
}

// HarqAttempt records one previous transmission attempt of the same transport
// block. Predictors may combine the attempt SINRs with the current sample.
type HarqAttempt struct {
	Mcs    int
	SinrDb float64
}
