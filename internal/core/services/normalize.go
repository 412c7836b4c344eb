package services

// NormalizeScores rescales raw scores onto [0,1] with a min-max transform
// over the current batch. The transform is monotone non-decreasing, so
// within-source ordering is preserved.
//
// Rescaling happens per batch rather than against global constants because
// absolute score ranges vary by query and by engine; intra-query
// correctness is worth more than cross-query comparability here.
//
// A batch of size 1, or a batch where every score is equal, normalizes to
// 1.0 for every element: within an otherwise-empty comparison set each
// candidate is maximally relevant, and dividing by a zero range must not
// produce NaN.
func NormalizeScores(raw []float64) []float64 {
	if len(raw) == 0 {
		return nil
	}

	lo, hi := raw[0], raw[0]
	for _, v := range raw[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	normalized := make([]float64, len(raw))
	if hi == lo {
		for i := range normalized {
			normalized[i] = 1.0
		}
		return normalized
	}

	span := hi - lo
	for i, v := range raw {
		normalized[i] = (v - lo) / span
	}
	return normalized
}
