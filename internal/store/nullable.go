package store

import (
	"database/sql"
	"math"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// Conversions between optional Go values and driver arguments or scan
// targets. Times always go to the database in UTC.

func timeArg(t time.Time) time.Time { return t.UTC() }

func timePtrArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func strPtrArg(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func int64PtrArg(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtrArg(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtrArg(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolPtrArg(v *bool) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func nullInt64(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	return &ni.Int64
}

func nullInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func nullFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	return &nf.Float64
}

func nullBool(nb sql.NullBool) *bool {
	if !nb.Valid {
		return nil
	}
	return &nb.Bool
}

// paginate applies limit and offset to sel. SQLite rejects OFFSET without
// LIMIT, so an offset alone gets an unbounded limit.
func paginate(sel *entsql.Selector, limit, offset int) {
	switch {
	case limit > 0:
		sel.Limit(limit)
	case offset > 0:
		sel.Limit(math.MaxInt32)
	}
	if offset > 0 {
		sel.Offset(offset)
	}
}
