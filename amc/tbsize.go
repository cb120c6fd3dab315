package amc

import "fmt"

// blockParityBits is the per-block parity overhead subtracted from the
// payload when sizing transport blocks for non-legacy error models. With
// segmentation, every code block carries its own parity.
const blockParityBits = 24

// CalculateTbSize computes the transport-block size in bits for numRb
// resource blocks at the given MCS.
//
// For the legacy model family the transport block equals the raw payload.
// Otherwise one block of parity is subtracted, and if the provisional size
// exceeds the model's code-block limit the block is segmented into
// C = ceil(tbSize/cbSize) code blocks, each carrying its own parity. The
// segmentation decision is made against the size before it is reduced for
// segmentation overhead; reordering those two steps changes the result at
// the boundary.
func (a *Amc) CalculateTbSize(mcs, numRb int) (int, error) {
	if mcs < 0 || mcs > a.em.MaxMcs() {
		return 0, fmt.Errorf("%w: mcs %d, max %d", ErrMcsRange, mcs, a.em.MaxMcs())
	}
	if numRb <= 0 {
		return 0, fmt.Errorf("amc: resource block count %d must be positive", numRb)
	}

	payload := a.em.PayloadSize(a.usableSubcarriers, mcs, numRb, a.direction)
	if a.em.Legacy() {
		return payload, nil
	}

	tbSize := payload
	if payload >= blockParityBits {
		tbSize = payload - blockParityBits
	}
	cbSize := a.em.MaxCodeBlockSize(payload, mcs)
	if cbSize > 0 && tbSize > cbSize {
		blocks := (tbSize + cbSize - 1) / cbSize
		tbSize = payload - blocks*blockParityBits
	}
	return tbSize, nil
}
