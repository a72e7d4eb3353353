package extract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	unknownPattern = regexp.MustCompile(`\bnone\b`)
	integerPattern = regexp.MustCompile(`\d+`)
	decimalPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// maxReplyValue bounds what a requirement can be. Anything larger is a
// broken reply, not a figure.
const maxReplyValue = math.MaxInt32

// ExtractionError means the oracle answered with neither the unknown token
// nor a usable number.
type ExtractionError struct {
	Kind  Kind
	Reply string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: oracle reply %q has no usable number and is not %q", e.Kind, e.Reply, UnknownToken)
}

// ParseReply turns an oracle reply into a value. known is false when the
// oracle reported the value as unknown.
func ParseReply(kind Kind, reply string) (value float64, known bool, err error) {
	text := strings.ToLower(strings.TrimSpace(reply))

	if unknownPattern.MatchString(text) {
		return 0, false, nil
	}

	pattern := integerPattern
	if kind == KindCPUFrequency {
		pattern = decimalPattern
	}

	match := pattern.FindString(text)
	if match == "" {
		return 0, false, &ExtractionError{Kind: kind, Reply: reply}
	}

	value, err = strconv.ParseFloat(match, 64)
	if err != nil || math.IsInf(value, 0) || value > maxReplyValue {
		return 0, false, &ExtractionError{Kind: kind, Reply: reply}
	}
	return value, true, nil
}
