// Package ingredient turns free-form ingredient lines such as
// "1 1/2 cups plain flour" into structured values.
package ingredient

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Ingredient is a parsed ingredient line. Count is nil when the line carries
// no recognizable quantity.
type Ingredient struct {
	Count      *float64 `json:"count"`
	Unit       string   `json:"unit"`
	Ingredient string   `json:"ingredient"`
}

// Scale returns a copy with the count multiplied by factor.
// Ingredients without a count are returned unchanged.
func (i Ingredient) Scale(factor float64) Ingredient {
	if i.Count == nil {
		return i
	}
	c := *i.Count * factor
	i.Count = &c
	return i
}

// unitAliases maps unit spellings to the canonical form.
var unitAliases = map[string]string{
	"tablespoons": "tbsp",
	"tablespoon":  "tbsp",
	"tbsps":       "tbsp",
	"tbsp":        "tbsp",
	"tbs":         "tbsp",
	"teaspoons":   "tsp",
	"teaspoon":    "tsp",
	"tsps":        "tsp",
	"tsp":         "tsp",
	"ounces":      "oz",
	"ounce":       "oz",
	"oz":          "oz",
	"cups":        "cup",
	"cup":         "cup",
	"pounds":      "pound",
	"pound":       "pound",
	"lbs":         "pound",
	"lb":          "pound",
	"kg":          "kg",
	"g":           "g",
}

var vulgarFractions = map[rune]float64{
	'½': 1.0 / 2,
	'⅓': 1.0 / 3,
	'⅔': 2.0 / 3,
	'¼': 1.0 / 4,
	'¾': 3.0 / 4,
	'⅛': 1.0 / 8,
	'⅜': 3.0 / 8,
	'⅝': 5.0 / 8,
	'⅞': 7.0 / 8,
}

var (
	asidePattern    = regexp.MustCompile(`\s*(\([^)]*\)|\[[^\]]*\])\s*`)
	wholePattern    = regexp.MustCompile(`^\d+$`)
	decimalPattern  = regexp.MustCompile(`^(\d+(\.\d+)?|\.\d+)$`)
	fractionPattern = regexp.MustCompile(`^(\d+)/(\d+)$`)
	hyphenPattern   = regexp.MustCompile(`^(\d+)-(\d+/\d+)$`)
)

// Parse converts a raw ingredient line. It never fails: a line without a
// leading quantity comes back with a nil count, no unit, and the cleaned line
// as the ingredient name.
func Parse(line string) Ingredient {
	cleaned := stripAsides(line)
	fields := strings.Fields(cleaned)

	count, n := leadingQuantity(fields)
	if n == 0 {
		return Ingredient{Ingredient: cleaned}
	}

	rest := fields[n:]
	var unit string
	if len(rest) > 0 {
		if u, ok := CanonicalUnit(rest[0]); ok {
			unit = u
			rest = rest[1:]
		}
	}

	return Ingredient{
		Count:      &count,
		Unit:       unit,
		Ingredient: strings.Join(rest, " "),
	}
}

// ParseAll parses every line, preserving order.
func ParseAll(lines []string) []Ingredient {
	out := make([]Ingredient, 0, len(lines))
	for _, l := range lines {
		out = append(out, Parse(l))
	}
	return out
}

// CanonicalUnit reports the canonical spelling of a unit token.
func CanonicalUnit(token string) (string, bool) {
	t := strings.TrimSuffix(strings.ToLower(token), ".")
	u, ok := unitAliases[t]
	return u, ok
}

// stripAsides removes bracketed asides and trims the line. Inner spacing of
// the remaining text is left alone.
func stripAsides(line string) string {
	if asidePattern.MatchString(line) {
		line = asidePattern.ReplaceAllString(line, " ")
	}
	return strings.TrimSpace(line)
}

// leadingQuantity returns the quantity at the start of fields and how many
// fields it consumed.
func leadingQuantity(fields []string) (float64, int) {
	if len(fields) == 0 {
		return 0, 0
	}
	first, ok := parseQuantity(fields[0])
	if !ok {
		return 0, 0
	}
	// mixed number: "1 1/2", "2 ¾"
	if len(fields) > 1 && wholePattern.MatchString(fields[0]) {
		if frac, ok := parseFraction(fields[1]); ok {
			if sum, ok := finite(first + frac); ok {
				return sum, 2
			}
			return 0, 0
		}
	}
	return first, 1
}

// number parses a digit string, rejecting values float64 cannot hold.
func number(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(v)
}

func finite(v float64) (float64, bool) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func parseQuantity(tok string) (float64, bool) {
	if decimalPattern.MatchString(tok) {
		return number(tok)
	}
	if m := hyphenPattern.FindStringSubmatch(tok); m != nil {
		whole, ok := number(m[1])
		if !ok {
			return 0, false
		}
		frac, ok := parseFraction(m[2])
		if !ok {
			return 0, false
		}
		return finite(whole + frac)
	}
	if v, ok := parseFraction(tok); ok {
		return v, true
	}
	return parseVulgar(tok)
}

func parseFraction(tok string) (float64, bool) {
	if m := fractionPattern.FindStringSubmatch(tok); m != nil {
		num, ok := number(m[1])
		if !ok {
			return 0, false
		}
		den, ok := number(m[2])
		if !ok || den == 0 {
			return 0, false
		}
		return finite(num / den)
	}
	runes := []rune(tok)
	if len(runes) == 1 {
		v, ok := vulgarFractions[runes[0]]
		return v, ok
	}
	return 0, false
}

// parseVulgar handles "½" and "1½".
func parseVulgar(tok string) (float64, bool) {
	runes := []rune(tok)
	if len(runes) == 0 {
		return 0, false
	}
	frac, ok := vulgarFractions[runes[len(runes)-1]]
	if !ok {
		return 0, false
	}
	prefix := string(runes[:len(runes)-1])
	if prefix == "" {
		return frac, true
	}
	if !wholePattern.MatchString(prefix) {
		return 0, false
	}
	whole, ok := number(prefix)
	if !ok {
		return 0, false
	}
	return finite(whole + frac)
}
