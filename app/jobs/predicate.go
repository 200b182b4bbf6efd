package jobs

import (
	"fmt"
)

// Bucket is a named lifecycle view over the job records
type Bucket string

// buckets, in the order dashboard tabs show them
const (
	BucketEnqueued Bucket = "enqueued"
	BucketWorking  Bucket = "working"
	BucketPending  Bucket = "pending"
	BucketFailed   Bucket = "failed"
)

// AllBuckets lists every valid bucket
var AllBuckets = []Bucket{BucketEnqueued, BucketWorking, BucketPending, BucketFailed}

// ParseBucket converts a name to a Bucket, only the exact bucket names are accepted
func ParseBucket(name string) (Bucket, error) {
	b := Bucket(name)
	for _, known := range AllBuckets {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBucket, name)
}

func (b Bucket) String() string { return string(b) }

// MarshalText implements encoding.TextMarshaler
func (b Bucket) MarshalText() ([]byte, error) { return []byte(b), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (b *Bucket) UnmarshalText(text []byte) error {
	parsed, err := ParseBucket(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Field is a job record field a predicate may inspect.
// Values are the column (or document key) names shared by all backends.
type Field string

// inspectable fields
const (
	FieldLockedAt  Field = "locked_at"
	FieldLastError Field = "last_error"
	FieldAttempts  Field = "attempts"
	FieldRunAt     Field = "run_at"
	FieldFailedAt  Field = "failed_at"
)

// Valid reports whether the field is one of the known record fields
func (f Field) Valid() bool {
	switch f {
	case FieldLockedAt, FieldLastError, FieldAttempts, FieldRunAt, FieldFailedAt:
		return true
	}
	return false
}

// PredicateKind tags the Predicate variant
type PredicateKind int

// predicate variants
const (
	MatchAll PredicateKind = iota
	FieldPresent
	FieldAbsent
	FieldEquals
)

func (k PredicateKind) String() string {
	switch k {
	case MatchAll:
		return "all"
	case FieldPresent:
		return "present"
	case FieldAbsent:
		return "absent"
	case FieldEquals:
		return "equals"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Predicate is a backend independent condition over record fields.
// Each store translates it into its native query form.
type Predicate struct {
	Kind  PredicateKind
	Field Field // unused for MatchAll
	Value int   // compared value for FieldEquals, only integer fields are comparable
}

// All matches every record
func All() Predicate { return Predicate{Kind: MatchAll} }

// Present matches records where the field is set
func Present(f Field) Predicate { return Predicate{Kind: FieldPresent, Field: f} }

// Absent matches records where the field is not set
func Absent(f Field) Predicate { return Predicate{Kind: FieldAbsent, Field: f} }

// Equals matches records where the integer field equals v
func Equals(f Field, v int) Predicate { return Predicate{Kind: FieldEquals, Field: f, Value: v} }

func (p Predicate) String() string {
	switch p.Kind {
	case MatchAll:
		return "all"
	case FieldEquals:
		return fmt.Sprintf("%s = %d", p.Field, p.Value)
	default:
		return fmt.Sprintf("%s %s", p.Field, p.Kind)
	}
}

// Validate checks the predicate can be translated by a store
func (p Predicate) Validate() error {
	switch p.Kind {
	case MatchAll:
		return nil
	case FieldPresent, FieldAbsent:
		if !p.Field.Valid() {
			return fmt.Errorf("unknown field %q", p.Field)
		}
		return nil
	case FieldEquals:
		if p.Field != FieldAttempts {
			return fmt.Errorf("field %q is not comparable", p.Field)
		}
		return nil
	default:
		return fmt.Errorf("unknown predicate kind %d", int(p.Kind))
	}
}

// PredicateFor returns the predicate selecting the records of a bucket.
// It is pure and gives the same result for every backend.
func PredicateFor(b Bucket) (Predicate, error) {
	switch b {
	case BucketEnqueued:
		return All(), nil
	case BucketWorking:
		return Present(FieldLockedAt), nil
	case BucketFailed:
		return Present(FieldLastError), nil
	case BucketPending:
		return Equals(FieldAttempts, 0), nil
	default:
		return Predicate{}, fmt.Errorf("%w: %q", ErrInvalidBucket, string(b))
	}
}

// Match evaluates the predicate against a record in memory
func (p Predicate) Match(r Record) bool {
	switch p.Kind {
	case MatchAll:
		return true
	case FieldPresent:
		return r.has(p.Field)
	case FieldAbsent:
		return !r.has(p.Field)
	case FieldEquals:
		return p.Field == FieldAttempts && r.Attempts == p.Value
	default:
		return false
	}
}

// has reports presence of an optional field, required fields are always present
func (r Record) has(f Field) bool {
	switch f {
	case FieldLockedAt:
		return r.LockedAt != nil
	case FieldLastError:
		return r.LastError != nil
	case FieldFailedAt:
		return r.FailedAt != nil
	case FieldAttempts, FieldRunAt:
		return true
	default:
		return false
	}
}
