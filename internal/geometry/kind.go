package geometry

import "fmt"

// Kind identifies a figure variant. The script sub-verb of draw/erase maps
// one-to-one onto the drawable kinds.
type Kind int

const (
	KindPoint Kind = iota
	KindSegment
	KindLine
	KindRay
	KindVector
	KindAngle
	KindPolygon
	// KindText is the overlay annotation produced by print. It has no script
	// sub-verb.
	KindText
)

var kindNames = map[Kind]string{
	KindPoint:   "point",
	KindSegment: "segment",
	KindLine:    "line",
	KindRay:     "ray",
	KindVector:  "vector",
	KindAngle:   "angle",
	KindPolygon: "polygon",
	KindText:    "text",
}

// String returns the script keyword of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves a draw/erase sub-verb. Text is not a sub-verb.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s && k != KindText {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown shape type %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	if string(b) == kindNames[KindText] {
		*k = KindText
		return nil
	}
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
