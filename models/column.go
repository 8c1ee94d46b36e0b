package models

// ColumnKind is the Go-side shape of a column's value. The API uses it to
// decode patch payloads before they reach the update builder.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNullableText
	KindNullableInt
	KindFloat
	KindBool
)

func (k ColumnKind) String() string {
	switch k {
	case KindText:
		return "string"
	case KindNullableText:
		return "string or null"
	case KindNullableInt:
		return "integer or null"
	case KindFloat:
		return "number"
	case KindBool:
		return "boolean"
	}
	return "unknown"
}
