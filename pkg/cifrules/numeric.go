package cifrules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v2"
)

// numericPattern recognises CIF's numeric grammar (spec §3.2, §8): an
// optionally signed float, with an optional d/D exponent marker (an
// older Fortran convention some CIF writers still emit alongside e/E),
// and an optional parenthetical uncertainty on the integer digit count.
var numericPattern = regexp.MustCompile(`^([+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eEdD][+-]?[0-9]+)?)(?:\(([0-9]+)\))?$`)

// parseNumeric recognises the "N" or "N(k)" grammar (spec §4.4.3, §8): ok
// is false for anything that isn't numeric at all, in which case the
// caller falls back to Text. When an uncertainty suffix is present, its
// magnitude is k * 10^-fractional_digits(N), computed with apd so the
// fractional digit count comes from the decimal's own exponent rather
// than a second, error-prone string scan.
func parseNumeric(text string) (value, uncertainty float64, hasUncertainty bool, ok bool) {
	m := numericPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false, false
	}
	normalized := strings.NewReplacer("d", "e", "D", "e").Replace(m[1])
	f, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, 0, false, false
	}
	if m[2] == "" {
		return f, 0, false, true
	}

	k, err := strconv.ParseUint(m[2], 10, 32)
	if err != nil {
		return f, 0, false, true
	}
	dec, _, err := apd.NewFromString(normalized)
	if err != nil {
		return f, 0, false, true
	}
	uncertaintyDec := apd.New(int64(k), dec.Exponent)
	u, err := uncertaintyDec.Float64()
	if err != nil {
		return f, 0, false, true
	}
	return f, u, true, true
}
