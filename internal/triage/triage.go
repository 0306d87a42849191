// Package triage classifies caller utterances into a priority-ordered
// intent, assigns urgency and decides when a call must leave the
// conversational loop.
package triage

import "strings"

// Intent is the closed set of caller intents.
type Intent string

const (
	IntentEmergency          Intent = "emergency"
	IntentPrescriptionRefill Intent = "prescription_refill"
	IntentInsuranceInquiry   Intent = "insurance_inquiry"
	IntentAppointmentNew     Intent = "appointment_new"
	IntentAppointmentModify  Intent = "appointment_modify"
	IntentGeneral            Intent = "general"
)

// Urgency levels, ordered from lowest to highest.
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyMedium
	UrgencyHigh
	UrgencyCritical
)

// String returns the string representation of the urgency level.
func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyMedium:
		return "medium"
	case UrgencyHigh:
		return "high"
	case UrgencyCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Directive selects which category of reply the session should speak.
// The exact wording is business copy owned by the conversation layer.
type Directive string

const (
	DirectiveEmergency Directive = "fixed_emergency"
	DirectivePoison    Directive = "fixed_poison"
	DirectiveTransfer  Directive = "fixed_transfer"
	DirectiveCallback  Directive = "fixed_callback"
	DirectiveGenerated Directive = "generated"
)

// Details carries the per-intent payload. Exactly one concrete type per
// tier, so each branch's fields are statically known.
type Details interface {
	isDetails()
}

// EmergencyDetails is the payload for emergency classifications.
type EmergencyDetails struct {
	CriticalSymptoms []string
	UrgentSymptoms   []string
	Poisons          []string
	PoisonExposure   bool
	Action           Action
}

// RefillDetails is the payload for prescription refill requests.
type RefillDetails struct {
	Medications []string
}

// InsuranceDetails is the payload for insurance and cost inquiries.
type InsuranceDetails struct {
	Provider string
}

// AppointmentDetails is the payload for appointment requests.
type AppointmentDetails struct {
	Modify  bool
	Species string
	Reason  string
}

// GeneralDetails is the payload for the default tier.
type GeneralDetails struct {
	HealthConcern bool
}

func (EmergencyDetails) isDetails()   {}
func (RefillDetails) isDetails()      {}
func (InsuranceDetails) isDetails()   {}
func (AppointmentDetails) isDetails() {}
func (GeneralDetails) isDetails()     {}

// Result is the outcome of classifying one utterance. Created once,
// never mutated.
type Result struct {
	Intent     Intent
	Urgency    Urgency
	Escalate   bool
	Confidence float64
	Directive  Directive
	Details    Details
}

// tier is one priority level: a name and a matcher evaluated in fixed
// order with early exit. The slice below IS the priority order.
type tier struct {
	name  string
	match func(e *Engine, text string) (Result, bool)
}

// DefaultEscalationConfidence is the confidence above which a
// high-urgency result forces escalation.
const DefaultEscalationConfidence = 0.9

// Engine is the triage state machine. Stateless across utterances:
// every turn is classified independently, so an emergency stated late
// in a call is still caught.
type Engine struct {
	tiers                []tier
	escalationConfidence float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithEscalationConfidence overrides the high-urgency escalation threshold.
func WithEscalationConfidence(c float64) Option {
	return func(e *Engine) {
		e.escalationConfidence = c
	}
}

// NewEngine creates a triage engine with the fixed tier order:
// emergency > prescription refill > insurance > appointment > general.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		escalationConfidence: DefaultEscalationConfidence,
		tiers: []tier{
			{name: "emergency", match: (*Engine).matchEmergency},
			{name: "refill", match: (*Engine).matchRefill},
			{name: "insurance", match: (*Engine).matchInsurance},
			{name: "appointment", match: (*Engine).matchAppointment},
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Classify runs the utterance through the tiers in priority order and
// returns the first match; nothing matching is general/low. Never
// errors: the call must always get some reply.
func (e *Engine) Classify(text string) Result {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return Result{
			Intent:     IntentGeneral,
			Urgency:    UrgencyLow,
			Confidence: 0.8,
			Directive:  DirectiveGenerated,
			Details:    GeneralDetails{},
		}
	}

	for _, t := range e.tiers {
		if res, ok := t.match(e, lower); ok {
			return res
		}
	}
	return e.generalResult(lower)
}

// ShouldEscalateNow reports whether a result forces the call out of the
// conversational loop immediately.
func (e *Engine) ShouldEscalateNow(r Result) bool {
	if r.Urgency == UrgencyCritical {
		return true
	}
	return r.Urgency == UrgencyHigh && r.Confidence > e.escalationConfidence
}

// --- tier matchers ---

func (e *Engine) matchEmergency(lower string) (Result, bool) {
	a := Assess(lower)
	if !a.Matched() {
		return Result{}, false
	}

	res := Result{
		Intent:     IntentEmergency,
		Confidence: a.Confidence,
		Directive:  DirectiveEmergency,
		Details: EmergencyDetails{
			CriticalSymptoms: a.CriticalSymptoms,
			UrgentSymptoms:   a.UrgentSymptoms,
			Poisons:          a.Poisons,
			PoisonExposure:   a.PoisonExposure,
			Action:           a.Action,
		},
	}

	switch {
	case len(a.CriticalSymptoms) > 0:
		res.Urgency = UrgencyCritical
	case a.PoisonExposure:
		if a.CriticalPoison {
			res.Urgency = UrgencyCritical
		} else {
			res.Urgency = UrgencyHigh
		}
		res.Directive = DirectivePoison
	default:
		// Urgent symptoms or generic emergency phrasing without a
		// critical keyword.
		res.Urgency = UrgencyHigh
	}

	// Poison phrasing always escalates, whatever else matched.
	res.Escalate = e.ShouldEscalateNow(res) || a.PoisonExposure
	return res, true
}

func (e *Engine) matchRefill(lower string) (Result, bool) {
	if !matchAny(lower, refillKeywords) {
		return Result{}, false
	}
	return Result{
		Intent:     IntentPrescriptionRefill,
		Urgency:    assignUrgency(lower, UrgencyLow),
		Confidence: 0.85,
		Directive:  DirectiveGenerated,
		Details: RefillDetails{
			Medications: matchesOf(lower, medicationKeywords),
		},
	}, true
}

func (e *Engine) matchInsurance(lower string) (Result, bool) {
	provider := firstMatch(lower, insuranceProviders)
	if provider == "" && !matchAny(lower, insuranceKeywords) {
		return Result{}, false
	}
	return Result{
		Intent:     IntentInsuranceInquiry,
		Urgency:    assignUrgency(lower, UrgencyLow),
		Confidence: 0.8,
		Directive:  DirectiveGenerated,
		Details: InsuranceDetails{
			Provider: provider,
		},
	}, true
}

func (e *Engine) matchAppointment(lower string) (Result, bool) {
	if !matchAny(lower, appointmentKeywords) {
		return Result{}, false
	}
	modify := matchAny(lower, modifyVerbs)
	intent := IntentAppointmentNew
	if modify {
		intent = IntentAppointmentModify
	}
	return Result{
		Intent:     intent,
		Urgency:    assignUrgency(lower, UrgencyLow),
		Confidence: 0.85,
		Directive:  DirectiveGenerated,
		Details: AppointmentDetails{
			Modify:  modify,
			Species: firstMatch(lower, speciesKeywords),
			Reason:  visitReason(lower),
		},
	}, true
}

func (e *Engine) generalResult(lower string) Result {
	health := matchAny(lower, healthKeywords)
	base := UrgencyLow
	if health {
		base = UrgencyMedium
	}
	return Result{
		Intent:     IntentGeneral,
		Urgency:    assignUrgency(lower, base),
		Confidence: 0.8,
		Directive:  DirectiveGenerated,
		Details: GeneralDetails{
			HealthConcern: health,
		},
	}
}

// assignUrgency lifts the intent's default urgency when the phrasing
// itself is urgent. It never lowers the default.
func assignUrgency(lower string, def Urgency) Urgency {
	if matchAny(lower, criticalPhrases) {
		return UrgencyCritical
	}
	if matchAny(lower, highUrgencyPhrases) && def < UrgencyHigh {
		return UrgencyHigh
	}
	return def
}

func visitReason(lower string) string {
	switch {
	case matchAny(lower, []string{"vaccination", "vaccine", "shot", "booster"}):
		return "vaccination"
	case matchAny(lower, []string{"checkup", "check up", "wellness", "exam"}):
		return "wellness exam"
	case matchAny(lower, []string{"sick", "ill", "not feeling well"}):
		return "illness consultation"
	default:
		return ""
	}
}

// matchKeyword treats multi-word keywords as substrings and single
// words as whole tokens, so "ate" does not fire inside "update". Single
// words of five letters or more also match as prefixes to cover plurals
// ("vaccines", "seizures").
func matchKeyword(lower string, tokens []string, k string) bool {
	if strings.ContainsRune(k, ' ') {
		return strings.Contains(lower, k)
	}
	for _, t := range tokens {
		if t == k || (len(k) >= 5 && strings.HasPrefix(t, k)) {
			return true
		}
	}
	return false
}

func tokenize(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '\''
	})
}

func matchAny(lower string, keywords []string) bool {
	tokens := tokenize(lower)
	for _, k := range keywords {
		if matchKeyword(lower, tokens, k) {
			return true
		}
	}
	return false
}

func matchesOf(lower string, keywords []string) []string {
	tokens := tokenize(lower)
	var out []string
	for _, k := range keywords {
		if matchKeyword(lower, tokens, k) {
			out = append(out, k)
		}
	}
	return out
}

func firstMatch(lower string, keywords []string) string {
	tokens := tokenize(lower)
	for _, k := range keywords {
		if matchKeyword(lower, tokens, k) {
			return k
		}
	}
	return ""
}
