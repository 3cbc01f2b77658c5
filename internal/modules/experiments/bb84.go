package experiments

// BB84 intercept-resend simulation. Alice encodes a random bit in a random
// basis; an optional Eve measures in her own random basis and resends, which
// randomizes the bit whenever her basis disagrees with Alice's; Bob measures
// in his own random basis. Rounds where Alice's and Bob's original bases
// match form the sifted key; disagreement inside the sifted key is the QBER.
// With Eve on every round the asymptotic QBER is 25%.

// basis is Z (0) or X (1).
type basis int

const (
	basisZ basis = iota
	basisX
)

func (b basis) String() string {
	if b == basisX {
		return "X"
	}
	return "Z"
}

// maxTraceRounds caps the per-round trace included in results, keeping
// transport size bounded for large runs.
const maxTraceRounds = 50

// BB84Round records one round for UI display.
type BB84Round struct {
	AliceBit   int    `json:"aliceBit"`
	AliceBasis string `json:"aliceBasis"`
	EveBasis   string `json:"eveBasis,omitempty"`
	BobBasis   string `json:"bobBasis"`
	BobBit     int    `json:"bobBit"`
	Sifted     bool   `json:"sifted"`
	Error      bool   `json:"error"`
}

// BB84Result aggregates a protocol run.
type BB84Result struct {
	Rounds          int         `json:"rounds"`
	SiftedKeyLength int         `json:"siftedKeyLength"`
	ErrorRate       float64     `json:"errorRate"`
	Trace           []BB84Round `json:"trace"`
}

// BB84 runs the protocol for the given number of rounds.
func (s *Sampler) BB84(rounds int, withEve bool) BB84Result {
	result := BB84Result{Rounds: rounds, Trace: make([]BB84Round, 0, min(rounds, maxTraceRounds))}
	errors := 0

	for i := 0; i < rounds; i++ {
		aliceBit := s.randBit()
		aliceBasis := s.randBasis()

		// The qubit in flight: starts as Alice prepared it.
		transmittedBit := aliceBit
		transmittedBasis := aliceBasis

		var eveBasis basis
		eveActive := false
		if withEve {
			eveActive = true
			eveBasis = s.randBasis()
			if eveBasis != aliceBasis {
				// Eve's wrong-basis measurement destroys the encoding; she
				// resends in her basis with a random result.
				transmittedBit = s.randBit()
			}
			transmittedBasis = eveBasis
		}

		bobBasis := s.randBasis()
		var bobBit int
		if bobBasis == transmittedBasis {
			bobBit = transmittedBit
		} else {
			bobBit = s.randBit()
		}

		// Sifting compares the original bases, regardless of what Eve did.
		sifted := aliceBasis == bobBasis
		roundErr := sifted && bobBit != aliceBit
		if sifted {
			result.SiftedKeyLength++
			if roundErr {
				errors++
			}
		}

		if len(result.Trace) < maxTraceRounds {
			row := BB84Round{
				AliceBit:   aliceBit,
				AliceBasis: aliceBasis.String(),
				BobBasis:   bobBasis.String(),
				BobBit:     bobBit,
				Sifted:     sifted,
				Error:      roundErr,
			}
			if eveActive {
				row.EveBasis = eveBasis.String()
			}
			result.Trace = append(result.Trace, row)
		}
	}

	if result.SiftedKeyLength > 0 {
		result.ErrorRate = float64(errors) / float64(result.SiftedKeyLength)
	}
	return result
}

func (s *Sampler) randBit() int {
	return int(s.rng.Uint64() & 1)
}

func (s *Sampler) randBasis() basis {
	return basis(s.rng.Uint64() & 1)
}
