package conversation

import (
	"fmt"

	"ai-voice-reception-service/internal/config"
	"ai-voice-reception-service/internal/triage"
)

// Fixed spoken lines. Escalation and safety wording never comes from
// the reply generator; it is scripted so a model cannot soften it.

func greetingLine(clinic config.ClinicConfig) string {
	name := clinic.Name
	if name == "" {
		name = "the clinic"
	}
	return fmt.Sprintf("Thank you for calling %s. How can I help you and your pet today? "+
		"You can also press 1 for appointments, 2 for emergencies, 3 for health questions, or 0 for the front desk.", name)
}

func emergencyLine(clinic config.ClinicConfig) string {
	if clinic.EmergencyNumber != "" {
		return fmt.Sprintf("This sounds like an emergency. I'm connecting you to our on-call veterinarian right now. "+
			"If we get disconnected, call %s immediately.", clinic.EmergencyNumber)
	}
	return "This sounds like an emergency. I'm connecting you to our on-call veterinarian right now."
}

func poisonLine(clinic config.ClinicConfig) string {
	if clinic.PoisonControlNumber != "" {
		return fmt.Sprintf("If your pet ate something toxic, time matters. I'm connecting you to a veterinarian now. "+
			"You can also reach animal poison control at %s.", clinic.PoisonControlNumber)
	}
	return "If your pet ate something toxic, time matters. I'm connecting you to a veterinarian now."
}

func transferLine(clinic config.ClinicConfig) string {
	if clinic.TransferNumber != "" {
		return fmt.Sprintf("Of course, one moment while I connect you to our front desk. "+
			"If we get disconnected, you can reach them directly at %s.", clinic.TransferNumber)
	}
	return "Of course, one moment while I connect you to our front desk."
}

func callbackLine(clinic config.ClinicConfig) string {
	minutes := clinic.CallbackPromiseMinutes
	if minutes <= 0 {
		minutes = 10
	}
	return fmt.Sprintf("I'm sorry, I'm having trouble right now. A member of our team will call you back within %d minutes.", minutes)
}

func maxDurationLine(clinic config.ClinicConfig) string {
	return "I'm sorry, we've reached the time limit for this call. A member of our team will call you back shortly. " +
		"If this is an emergency, please call back and press 2."
}

func directiveLine(d triage.Directive, clinic config.ClinicConfig) (string, bool) {
	switch d {
	case triage.DirectiveEmergency:
		return emergencyLine(clinic), true
	case triage.DirectivePoison:
		return poisonLine(clinic), true
	case triage.DirectiveTransfer:
		return transferLine(clinic), true
	default:
		return "", false
	}
}
