package fdsolver

// Performed is the tri-valued flag an IntervalVar carries, per spec.md §3.
type Performed uint8

const (
	// PerformedMaybe is the default: the interval may or may not be
	// performed; its start/duration/end still constrain other expressions
	// but are not yet forced to be consistent via start+duration=end.
	PerformedMaybe Performed = iota
	// PerformedMust forces start+duration=end to hold.
	PerformedMust
	// PerformedCannot suppresses the interval's accessors to unbounded
	// sentinels for client expressions, per spec.md §3.
	PerformedCannot
)

// IntervalVar is the scheduling sub-model's variable: a reversible
// (start, duration, end) triple plus a tri-valued performed flag. The
// invariant start+duration=end is only enforced while performed is
// PerformedMust (spec.md §3).
type IntervalVar struct {
	id     int
	name   string
	solver *Solver

	start    *IntVar
	duration *IntVar
	end      *IntVar

	performed      *IntVar // 0/1/2 encoding of Performed, reversible like any IntVar
	optional       bool
	onPerformed    listenerList
}

func (iv *IntervalVar) ID() int      { return iv.id }
func (iv *IntervalVar) Name() string { return iv.name }

// StartVar, DurationVar, EndVar expose the underlying reversible bound
// variables directly, so constraints can post demons on them exactly as
// they would on any other IntVar.
func (iv *IntervalVar) StartVar() *IntVar    { return iv.start }
func (iv *IntervalVar) DurationVar() *IntVar { return iv.duration }
func (iv *IntervalVar) EndVar() *IntVar      { return iv.end }

// StartMin, StartMax, EndMin, EndMax, DurationMin, DurationMax apply the
// performed-flag suppression from spec.md §3: if the interval cannot be
// performed, accessors return the unbounded sentinels MinValidValue /
// MaxValidValue (and 0 for duration) rather than the underlying reversible
// bounds, so client expressions referencing a cannot-be-performed interval
// see it as imposing no constraint.
func (iv *IntervalVar) StartMin() int64 {
	if iv.MustBeAbsent() {
		return MinValidValue
	}
	return iv.start.Min()
}

func (iv *IntervalVar) StartMax() int64 {
	if iv.MustBeAbsent() {
		return MaxValidValue
	}
	return iv.start.Max()
}

func (iv *IntervalVar) EndMin() int64 {
	if iv.MustBeAbsent() {
		return MinValidValue
	}
	return iv.end.Min()
}

func (iv *IntervalVar) EndMax() int64 {
	if iv.MustBeAbsent() {
		return MaxValidValue
	}
	return iv.end.Max()
}

func (iv *IntervalVar) DurationMin() int64 {
	if iv.MustBeAbsent() {
		return 0
	}
	return iv.duration.Min()
}

func (iv *IntervalVar) DurationMax() int64 {
	if iv.MustBeAbsent() {
		return 0
	}
	return iv.duration.Max()
}

// MustBePresent, MustBeAbsent and IsOptional report the current performed
// state.
func (iv *IntervalVar) MustBePresent() bool { return iv.performed.Bound() && iv.performed.Value() == int64(PerformedMust) }
func (iv *IntervalVar) MustBeAbsent() bool  { return iv.performed.Bound() && iv.performed.Value() == int64(PerformedCannot) }
func (iv *IntervalVar) IsOptional() bool    { return !iv.performed.Bound() }

// SetPerformed forces the performed flag, via the same reversible
// IntVar machinery as any other domain mutation (so it undoes on
// backtrack automatically).
func (iv *IntervalVar) SetPerformed(p Performed) {
	iv.performed.SetValue(int64(p))
}

// postDurationConstraint wires start+duration=end whenever the interval is
// (or becomes) must-be-performed. Solver.NewIntervalVar calls this once at
// construction, registering a demon on the performed variable's bind event
// plus the three bound variables' range events, the textbook shape of a
// "maintain an invariant only when a status variable is bound" propagator.
func (iv *IntervalVar) postDurationConstraint(s *Solver) {
	tighten := func(s *Solver) error {
		if !iv.MustBePresent() {
			return nil
		}
		iv.end.SetRange(
			saturatingAdd(iv.start.Min(), iv.duration.Min()),
			saturatingAdd(iv.start.Max(), iv.duration.Max()),
		)
		iv.start.SetRange(
			saturatingSub(iv.end.Min(), iv.duration.Max()),
			saturatingSub(iv.end.Max(), iv.duration.Min()),
		)
		iv.duration.SetRange(
			saturatingSub(iv.end.Min(), iv.start.Max()),
			saturatingSub(iv.end.Max(), iv.start.Min()),
		)
		return nil
	}
	d := s.MakeDemon(iv.name+":duration", PriorityNormal, tighten)
	iv.start.When(EventBoundTightenedMin, d)
	iv.start.When(EventBoundTightenedMax, d)
	iv.duration.When(EventBoundTightenedMin, d)
	iv.duration.When(EventBoundTightenedMax, d)
	iv.end.When(EventBoundTightenedMin, d)
	iv.end.When(EventBoundTightenedMax, d)
	iv.performed.When(EventBound, d)
}

// RelaxedMin and RelaxedMax wrap an IntervalVar so that, for a may-or-may-
// not-be-performed interval, its min (resp. max) accessors clamp to
// MinValidValue/MaxValidValue rather than reporting the tentative bound,
// per spec.md §6's relaxed-min/relaxed-max contract; for must-be-performed
// and cannot-be-performed they behave identically to the underlying
// interval.
type RelaxedMin struct{ iv *IntervalVar }
type RelaxedMax struct{ iv *IntervalVar }

func (iv *IntervalVar) Relaxed() (RelaxedMin, RelaxedMax) {
	return RelaxedMin{iv}, RelaxedMax{iv}
}

func (r RelaxedMin) StartMin() int64 {
	if r.iv.MustBePresent() || r.iv.MustBeAbsent() {
		return r.iv.StartMin()
	}
	return MinValidValue
}

func (r RelaxedMax) StartMax() int64 {
	if r.iv.MustBePresent() || r.iv.MustBeAbsent() {
		return r.iv.StartMax()
	}
	return MaxValidValue
}
