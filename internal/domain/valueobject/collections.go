package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// DelinquencyBucket – immutable value object
// ---------------------------------------------------------------------------

// DelinquencyBucket is a named range of days-past-due values used to stage
// collections and recovery expectations. Buckets are ordered from best to
// worst.
type DelinquencyBucket struct {
	value string
	rank  int
}

var (
	Bucket0To30DPD   = DelinquencyBucket{value: "0-30 DPD", rank: 0}
	Bucket31To60DPD  = DelinquencyBucket{value: "31-60 DPD", rank: 1}
	Bucket61To90DPD  = DelinquencyBucket{value: "61-90 DPD", rank: 2}
	Bucket91To180DPD = DelinquencyBucket{value: "91-180 DPD", rank: 3}
	Bucket180PlusDPD = DelinquencyBucket{value: "180+ DPD", rank: 4}
)

var validBuckets = map[string]DelinquencyBucket{
	"0-30 DPD":   Bucket0To30DPD,
	"31-60 DPD":  Bucket31To60DPD,
	"61-90 DPD":  Bucket61To90DPD,
	"91-180 DPD": Bucket91To180DPD,
	"180+ DPD":   Bucket180PlusDPD,
}

// NewDelinquencyBucket creates a DelinquencyBucket from a raw string.
func NewDelinquencyBucket(s string) (DelinquencyBucket, error) {
	v, ok := validBuckets[s]
	if !ok {
		return DelinquencyBucket{}, fmt.Errorf("invalid delinquency bucket: %q", s)
	}
	return v, nil
}

// String returns the bucket name.
func (b DelinquencyBucket) String() string { return b.value }

// IsZero returns true if the bucket has not been initialised.
func (b DelinquencyBucket) IsZero() bool { return b.value == "" }

// Equal returns true when both buckets carry the same value.
func (b DelinquencyBucket) Equal(other DelinquencyBucket) bool { return b.value == other.value }

// WorseThan reports whether b is further into delinquency than other.
func (b DelinquencyBucket) WorseThan(other DelinquencyBucket) bool { return b.rank > other.rank }

// ---------------------------------------------------------------------------
// CollectionStage – immutable value object
// ---------------------------------------------------------------------------

// CollectionStage names the collections escalation step tied to a bucket.
type CollectionStage struct {
	value string
}

var (
	StageEarlyCollection     = CollectionStage{value: "Early Collection"}
	StagePrimaryCollection   = CollectionStage{value: "Primary Collection"}
	StageSecondaryCollection = CollectionStage{value: "Secondary Collection"}
	StageLegalAction         = CollectionStage{value: "Legal Action"}
)

var validStages = map[string]CollectionStage{
	"Early Collection":     StageEarlyCollection,
	"Primary Collection":   StagePrimaryCollection,
	"Secondary Collection": StageSecondaryCollection,
	"Legal Action":         StageLegalAction,
}

// NewCollectionStage creates a CollectionStage from a raw string.
func NewCollectionStage(s string) (CollectionStage, error) {
	v, ok := validStages[s]
	if !ok {
		return CollectionStage{}, fmt.Errorf("invalid collection stage: %q", s)
	}
	return v, nil
}

// String returns the stage name.
func (s CollectionStage) String() string { return s.value }

// IsZero returns true if the stage has not been initialised.
func (s CollectionStage) IsZero() bool { return s.value == "" }

// Equal returns true when both stages carry the same value.
func (s CollectionStage) Equal(other CollectionStage) bool { return s.value == other.value }

// ---------------------------------------------------------------------------
// DefaultReason – immutable value object
// ---------------------------------------------------------------------------

// DefaultReason is the categorical cause recorded against a defaulted loan.
type DefaultReason struct {
	value string
}

var (
	ReasonJobLoss          = DefaultReason{value: "Job Loss"}
	ReasonIncomeReduction  = DefaultReason{value: "Income Reduction"}
	ReasonCourseDropout    = DefaultReason{value: "Course Dropout"}
	ReasonFamilyIssues     = DefaultReason{value: "Family Issues"}
	ReasonMedicalEmergency = DefaultReason{value: "Medical Emergency"}
	ReasonBusinessFailure  = DefaultReason{value: "Business Failure"}
	ReasonOther            = DefaultReason{value: "Other"}
)

var validReasons = map[string]DefaultReason{
	"Job Loss":          ReasonJobLoss,
	"Income Reduction":  ReasonIncomeReduction,
	"Course Dropout":    ReasonCourseDropout,
	"Family Issues":     ReasonFamilyIssues,
	"Medical Emergency": ReasonMedicalEmergency,
	"Business Failure":  ReasonBusinessFailure,
	"Other":             ReasonOther,
}

// NewDefaultReason creates a DefaultReason from a raw string.
func NewDefaultReason(s string) (DefaultReason, error) {
	v, ok := validReasons[s]
	if !ok {
		return DefaultReason{}, fmt.Errorf("invalid default reason: %q", s)
	}
	return v, nil
}

// String returns the reason label.
func (r DefaultReason) String() string { return r.value }

// IsZero returns true if the reason has not been initialised.
func (r DefaultReason) IsZero() bool { return r.value == "" }

// Equal returns true when both reasons carry the same value.
func (r DefaultReason) Equal(other DefaultReason) bool { return r.value == other.value }
