package issuecorrelation

// FindingKey is the identity of a finding used for correlation.
// Fields:
//   - ID: optional reference back to the caller's finding, not used by correlation.
//   - Repository, Path: where the finding was reported.
//   - Severity: the risk bucket.
//   - Issue: the one-line issue summary.
//   - TextHash: fingerprint of the full finding text, see TextHash.
type FindingKey struct {
	ID         int
	Repository string
	Path       string
	Severity   string
	Issue      string
	TextHash   string
}

// Match groups a single known finding with the current findings correlated to it.
// A current finding may appear in several Match.Current slices.
type Match struct {
	Known   FindingKey
	Current []FindingKey
}

// Correlator computes correlations between the findings of the current run
// and the findings of a previous (known) run. Call Process, or any accessor
// which runs it on demand, then inspect Matches, UnmatchedCurrent and
// UnmatchedKnown.
type Correlator struct {
	Current []FindingKey
	Known   []FindingKey

	knownToCurrent map[int][]int
	currentToKnown map[int][]int

	processed bool
}

// NewCorrelator constructs a Correlator. It is inert until Process is called.
func NewCorrelator(current, known []FindingKey) *Correlator {
	return &Correlator{
		Current: current,
		Known:   known,
	}
}

// Process correlates every known finding with every current finding in four
// ordered stages. A finding matched in an earlier stage is excluded from the
// later ones. All stages require repository and path to be equal.
// 1) severity + texthash
// 2) texthash (severity was re-rated)
// 3) severity + issue (details were reworded)
// 4) issue
// Process is idempotent.
func (c *Correlator) Process() {
	if c.processed {
		return
	}
	c.knownToCurrent = make(map[int][]int)
	c.currentToKnown = make(map[int][]int)

	matchedKnown := make(map[int]bool)
	matchedCurrent := make(map[int]bool)

	for stage := 1; stage <= 4; stage++ {
		// several matches inside one stage are allowed, so promotion waits for the stage to end
		knownThis := make(map[int]bool)
		currentThis := make(map[int]bool)

		for ki, k := range c.Known {
			if matchedKnown[ki] {
				continue
			}
			for ci, cur := range c.Current {
				if matchedCurrent[ci] {
					continue
				}
				if matchStage(k, cur, stage) {
					c.knownToCurrent[ki] = append(c.knownToCurrent[ki], ci)
					c.currentToKnown[ci] = append(c.currentToKnown[ci], ki)
					knownThis[ki] = true
					currentThis[ci] = true
				}
			}
		}

		for ki := range knownThis {
			matchedKnown[ki] = true
		}
		for ci := range currentThis {
			matchedCurrent[ci] = true
		}
	}

	c.processed = true
}

func matchStage(a, b FindingKey, stage int) bool {
	if a.Repository != b.Repository || a.Path != b.Path {
		return false
	}

	switch stage {
	case 1:
		return a.TextHash != "" && a.TextHash == b.TextHash && a.Severity == b.Severity
	case 2:
		return a.TextHash != "" && a.TextHash == b.TextHash
	case 3:
		return a.Issue != "" && a.Issue == b.Issue && a.Severity == b.Severity
	case 4:
		return a.Issue != "" && a.Issue == b.Issue
	default:
		return false
	}
}

// UnmatchedCurrent returns the current findings with no known counterpart.
func (c *Correlator) UnmatchedCurrent() []FindingKey {
	c.Process()

	var out []FindingKey
	for ci, cur := range c.Current {
		if len(c.currentToKnown[ci]) == 0 {
			out = append(out, cur)
		}
	}
	return out
}

// UnmatchedKnown returns the known findings that no longer appear.
func (c *Correlator) UnmatchedKnown() []FindingKey {
	c.Process()

	var out []FindingKey
	for ki, k := range c.Known {
		if len(c.knownToCurrent[ki]) == 0 {
			out = append(out, k)
		}
	}
	return out
}

// Matches returns one entry per known finding that has at least one
// correlated current finding, in known order.
func (c *Correlator) Matches() []Match {
	c.Process()

	var out []Match
	for ki, k := range c.Known {
		idxs := c.knownToCurrent[ki]
		if len(idxs) == 0 {
			continue
		}
		m := Match{Known: k, Current: make([]FindingKey, 0, len(idxs))}
		for _, ci := range idxs {
			m.Current = append(m.Current, c.Current[ci])
		}
		out = append(out, m)
	}
	return out
}
