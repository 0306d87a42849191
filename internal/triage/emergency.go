package triage

// Action is the recommended handling for an emergency assessment.
type Action string

const (
	ActionImmediateTransfer Action = "immediate_transfer"
	ActionSameDay           Action = "same_day_appointment"
	ActionModerateSchedule  Action = "moderate_schedule"
	ActionNone              Action = "none"
)

// Assessment is the transient result of the emergency tier. It is
// computed per utterance, folded into the TriageResult and discarded.
type Assessment struct {
	CriticalSymptoms []string
	UrgentSymptoms   []string
	Poisons          []string
	PoisonExposure   bool
	CriticalPoison   bool
	Action           Action
	Confidence       float64
}

// Matched reports whether the utterance belongs to the emergency tier.
func (a Assessment) Matched() bool {
	return a.Action != ActionNone
}

// Assess scans a lowercased utterance for emergency signals, most
// severe first. Poison exposure requires both an ingestion verb and a
// named toxin; a toxin mentioned without ingestion phrasing (for
// example asking whether chocolate is dangerous) does not trip it.
func Assess(lower string) Assessment {
	a := Assessment{
		CriticalSymptoms: matchesOf(lower, criticalSymptoms),
		UrgentSymptoms:   matchesOf(lower, urgentSymptoms),
		Action:           ActionNone,
	}

	poisons := matchesOf(lower, poisonKeywords)
	if len(poisons) > 0 && matchAny(lower, ingestionVerbs) {
		a.Poisons = poisons
		a.PoisonExposure = true
		a.CriticalPoison = matchAny(lower, criticalPoisons)
	}

	switch {
	case len(a.CriticalSymptoms) > 0:
		a.Action = ActionImmediateTransfer
		a.Confidence = 0.95
	case a.PoisonExposure && a.CriticalPoison:
		a.Action = ActionImmediateTransfer
		a.Confidence = 0.98
	case a.PoisonExposure:
		a.Action = ActionSameDay
		a.Confidence = 0.95
	case len(a.UrgentSymptoms) > 0:
		a.Action = ActionSameDay
		a.Confidence = 0.85
	case matchAny(lower, emergencyPhrases):
		a.Action = ActionModerateSchedule
		a.Confidence = 0.85
	}

	return a
}
