package triage

// ClassifyDTMF maps a single touch-tone digit straight to an intent,
// bypassing the text tiers. The fixed menu: 1 appointments, 2
// emergencies, 3 general health questions, 0 operator transfer.
// Anything else falls through to general/low.
func ClassifyDTMF(digit string) Result {
	switch digit {
	case "1":
		return Result{
			Intent:     IntentAppointmentNew,
			Urgency:    UrgencyLow,
			Confidence: 1.0,
			Directive:  DirectiveGenerated,
			Details:    AppointmentDetails{},
		}
	case "2":
		return Result{
			Intent:     IntentEmergency,
			Urgency:    UrgencyCritical,
			Escalate:   true,
			Confidence: 1.0,
			Directive:  DirectiveEmergency,
			Details: EmergencyDetails{
				Action: ActionImmediateTransfer,
			},
		}
	case "3":
		return Result{
			Intent:     IntentGeneral,
			Urgency:    UrgencyMedium,
			Confidence: 1.0,
			Directive:  DirectiveGenerated,
			Details: GeneralDetails{
				HealthConcern: true,
			},
		}
	case "0":
		return Result{
			Intent:     IntentGeneral,
			Urgency:    UrgencyMedium,
			Escalate:   true,
			Confidence: 1.0,
			Directive:  DirectiveTransfer,
			Details:    GeneralDetails{},
		}
	default:
		return Result{
			Intent:     IntentGeneral,
			Urgency:    UrgencyLow,
			Confidence: 1.0,
			Directive:  DirectiveGenerated,
			Details:    GeneralDetails{},
		}
	}
}
