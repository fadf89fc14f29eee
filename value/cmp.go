package value

import "fmt"

// numeric reports whether v is a bool/int/float, and its value promoted to
// float64, for the cross-type numeric comparisons §4.5 requires ("numbers
// with int/bool/float cross-type").
func numeric(v Value) (float64, bool) {
	switch v.c.kind {
	case KindBool:
		if v.c.b {
			return 1, true
		}
		return 0, true
	case KindInt:
		return float64(v.c.i), true
	case KindFloat:
		return v.c.f, true
	}
	return 0, false
}

// CmpEqual implements `cmp_equal`: structural descent, with numeric mixing
// promoting int/bool/float to a common representation before comparing.
func CmpEqual(a, b Value) bool {
	if af, aok := numeric(a); aok {
		if bf, bok := numeric(b); bok {
			return af == bf
		}
	}
	if a.c.kind != b.c.kind {
		return false
	}
	switch a.c.kind {
	case KindUndefined, KindNone:
		return true
	case KindStr:
		return a.c.s == b.c.s
	case KindList:
		if len(a.c.list) != len(b.c.list) {
			return false
		}
		for i := range a.c.list {
			if !CmpEqual(a.c.list[i], b.c.list[i]) {
				return false
			}
		}
		return true
	case KindDict, KindSchema:
		if len(a.c.dict.Keys) != len(b.c.dict.Keys) {
			return false
		}
		for _, k := range a.c.dict.Keys {
			bv, ok := b.c.dict.Get(k)
			if !ok {
				return false
			}
			if !CmpEqual(a.c.dict.Values[k], bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare implements the four ordering operators (<, <=, >, >=), defined
// pointwise on strings, numbers, and lists; anything else is a typed
// error rather than a panic (§4.5).
func Compare(a, b Value) (int, error) {
	if af, aok := numeric(a); aok {
		if bf, bok := numeric(b); bok {
			switch {
			case af < bf:
				return -1, nil
			case af > bf:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	if a.c.kind == KindStr && b.c.kind == KindStr {
		switch {
		case a.c.s < b.c.s:
			return -1, nil
		case a.c.s > b.c.s:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if a.c.kind == KindList && b.c.kind == KindList {
		for i := 0; i < len(a.c.list) && i < len(b.c.list); i++ {
			c, err := Compare(a.c.list[i], b.c.list[i])
			if err != nil {
				return 0, err
			}
			if c != 0 {
				return c, nil
			}
		}
		return len(a.c.list) - len(b.c.list), nil
	}
	return 0, fmt.Errorf("unsupported operand types for ordering comparison: %s and %s", a.c.kind, b.c.kind)
}

// Subsume implements `value_subsume`, used by the idempotent union check:
// two scalars subsume iff equal; a dict subsumes another iff every key of
// the other exists and its value is subsumed; lists subsume pairwise.
func Subsume(wide, narrow Value) bool {
	if wide.c.kind == KindDict || wide.c.kind == KindSchema {
		if narrow.c.kind != KindDict && narrow.c.kind != KindSchema {
			return false
		}
		for _, k := range narrow.c.dict.Keys {
			wv, ok := wide.c.dict.Get(k)
			if !ok {
				return false
			}
			if !Subsume(wv, narrow.c.dict.Values[k]) {
				return false
			}
		}
		return true
	}
	if wide.c.kind == KindList {
		if narrow.c.kind != KindList || len(wide.c.list) != len(narrow.c.list) {
			return false
		}
		for i := range wide.c.list {
			if !Subsume(wide.c.list[i], narrow.c.list[i]) {
				return false
			}
		}
		return true
	}
	return CmpEqual(wide, narrow)
}
