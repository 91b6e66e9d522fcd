package methods

import (
	"fmt"
	"strings"
)

// Kind enumerates the interval-estimation methods a run can select.
type Kind string

const (
	KindZSigma Kind = "z-sigma"
)

var descriptions = map[Kind]string{
	KindZSigma: "z-interval with known population sigma",
}

// Kinds lists every selectable method in display order.
func Kinds() []Kind {
	return []Kind{KindZSigma}
}

func (k Kind) Description() string { return descriptions[k] }

// ParseKind accepts the canonical name and the display spelling
// ("Z with sigma").
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	switch norm {
	case "z-sigma", "z-with-sigma", "z":
		return KindZSigma, nil
	}
	return "", fmt.Errorf("unknown method: %s", s)
}
