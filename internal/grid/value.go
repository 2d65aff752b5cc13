package grid

// Kind is the shape of a decoded API value after classification.
type Kind int

const (
	KindEmpty Kind = iota
	KindScalar
	KindMapping
	KindSequence
	KindSequenceOfMapping
)

// Value is the classified form of an arbitrary JSON-like value. Classification
// happens exactly once so the layout code never has to type-sniff.
type Value struct {
	Kind     Kind
	Scalar   any
	Mapping  *OrderedMap
	Sequence []any
	Rows     []*OrderedMap
}

// Classify inspects a decoded JSON value and produces its tagged form.
// Empty strings, empty objects and empty sequences all classify as Empty.
func Classify(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Value{Kind: KindEmpty}
	case *OrderedMap:
		if v == nil || v.Len() == 0 {
			return Value{Kind: KindEmpty}
		}
		return Value{Kind: KindMapping, Mapping: v}
	case map[string]any:
		if len(v) == 0 {
			return Value{Kind: KindEmpty}
		}
		return Value{Kind: KindMapping, Mapping: fromMap(v)}
	case []any:
		if len(v) == 0 {
			return Value{Kind: KindEmpty}
		}
		rows := make([]*OrderedMap, 0, len(v))
		for _, item := range v {
			switch m := item.(type) {
			case *OrderedMap:
				rows = append(rows, m)
			case map[string]any:
				rows = append(rows, fromMap(m))
			default:
				return Value{Kind: KindSequence, Sequence: v}
			}
		}
		return Value{Kind: KindSequenceOfMapping, Rows: rows}
	case string:
		if v == "" {
			return Value{Kind: KindEmpty}
		}
		return Value{Kind: KindScalar, Scalar: v}
	default:
		return Value{Kind: KindScalar, Scalar: v}
	}
}
