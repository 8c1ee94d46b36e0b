package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/Skryldev/jobly/models"
	"github.com/Skryldev/jobly/sqlbuild"
)

// rawField is one member of a JSON object, in the order it appeared.
type rawField struct {
	Key   string
	Value json.RawMessage
}

// decodeObject reads a JSON object and returns its members in document order.
// An empty body yields no members.
func decodeObject(r io.Reader) ([]rawField, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, badJSON(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errorf(http.StatusBadRequest, "Invalid JSON body: expected an object")
	}

	var fields []rawField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, badJSON(err)
		}
		key, _ := tok.(string)
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, badJSON(err)
		}
		fields = append(fields, rawField{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, badJSON(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errorf(http.StatusBadRequest, "Invalid JSON body: trailing data")
	}
	return fields, nil
}

func badJSON(err error) *Error {
	return &Error{Status: http.StatusBadRequest, Message: "Invalid JSON body: " + err.Error(), Err: err}
}

// column is a table column that knows the shape of its values.
type column interface {
	~string
	Kind() models.ColumnKind
}

// parsePatch turns an ordered JSON object into a partial update of t. Keys in
// ignore are dropped; any other key outside the table is rejected. The
// resulting update keeps the order of the request body.
func parsePatch[C column](t sqlbuild.Table[C], fields []rawField, ignore ...C) (*sqlbuild.Update[C], error) {
	if len(fields) == 0 {
		return nil, errMissingData
	}

	u := sqlbuild.NewUpdate(t)
	for _, f := range fields {
		if slices.Contains(ignore, C(f.Key)) {
			continue
		}
		col, err := t.Column(f.Key)
		if err != nil {
			return nil, &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf("Invalid key %q", f.Key), Err: err}
		}
		v, err := decodeValue(col.Kind(), f.Value)
		if err != nil {
			return nil, &Error{
				Status:  http.StatusBadRequest,
				Message: fmt.Sprintf("%s must be %s", f.Key, col.Kind()),
				Err:     err,
			}
		}
		u.Set(col, v)
	}
	if u.Len() == 0 {
		return nil, errMissingData
	}
	return u, nil
}

var jsonNull = []byte("null")

// decodeValue converts a raw JSON value to the Go value bound for kind. A
// nil result binds SQL NULL.
func decodeValue(kind models.ColumnKind, raw json.RawMessage) (any, error) {
	isNull := bytes.Equal(bytes.TrimSpace(raw), jsonNull)

	switch kind {
	case models.KindText:
		if isNull {
			return nil, errors.New("null not allowed")
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		if strings.TrimSpace(s) == "" {
			return nil, errors.New("empty string")
		}
		return s, nil

	case models.KindNullableText:
		if isNull {
			return nil, nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return s, nil

	case models.KindNullableInt:
		if isNull {
			return nil, nil
		}
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, errors.New("negative")
		}
		return n, nil

	case models.KindFloat:
		if isNull {
			return nil, errors.New("null not allowed")
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		return f, nil

	case models.KindBool:
		if isNull {
			return nil, errors.New("null not allowed")
		}
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return b, nil
	}
	return nil, fmt.Errorf("unsupported column kind %d", kind)
}

// readPatch decodes the request body and parses it against t.
func readPatch[C column](w http.ResponseWriter, r *http.Request, t sqlbuild.Table[C], ignore ...C) (*sqlbuild.Update[C], error) {
	fields, err := decodeObject(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return parsePatch(t, fields, ignore...)
}
