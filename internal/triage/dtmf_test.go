package triage

import "testing"

func TestClassifyDTMF_EmergencyDigit(t *testing.T) {
	res := ClassifyDTMF("2")
	if res.Intent != IntentEmergency {
		t.Errorf("expected emergency, got %s", res.Intent)
	}
	if res.Urgency != UrgencyCritical {
		t.Errorf("expected critical urgency, got %s", res.Urgency)
	}
	if !res.Escalate {
		t.Error("digit 2 must escalate")
	}
	if res.Directive != DirectiveEmergency {
		t.Errorf("expected emergency directive, got %s", res.Directive)
	}
}

func TestClassifyDTMF_Appointment(t *testing.T) {
	res := ClassifyDTMF("1")
	if res.Intent != IntentAppointmentNew {
		t.Errorf("expected appointment_new, got %s", res.Intent)
	}
	if res.Urgency != UrgencyLow {
		t.Errorf("expected low urgency, got %s", res.Urgency)
	}
	if res.Escalate {
		t.Error("digit 1 must not escalate")
	}
}

func TestClassifyDTMF_HealthQuestion(t *testing.T) {
	res := ClassifyDTMF("3")
	if res.Intent != IntentGeneral {
		t.Errorf("expected general, got %s", res.Intent)
	}
	if res.Urgency != UrgencyMedium {
		t.Errorf("expected medium urgency, got %s", res.Urgency)
	}
	details, ok := res.Details.(GeneralDetails)
	if !ok {
		t.Fatalf("expected GeneralDetails, got %T", res.Details)
	}
	if !details.HealthConcern {
		t.Error("digit 3 flags a health concern")
	}
}

func TestClassifyDTMF_OperatorTransfer(t *testing.T) {
	res := ClassifyDTMF("0")
	if res.Intent != IntentGeneral {
		t.Errorf("expected general, got %s", res.Intent)
	}
	if !res.Escalate {
		t.Error("digit 0 requests a human and must escalate")
	}
	if res.Directive != DirectiveTransfer {
		t.Errorf("expected transfer directive, got %s", res.Directive)
	}
}

func TestClassifyDTMF_UnknownDigit(t *testing.T) {
	for _, d := range []string{"4", "9", "*", "#", ""} {
		res := ClassifyDTMF(d)
		if res.Intent != IntentGeneral || res.Urgency != UrgencyLow {
			t.Errorf("%q: expected general/low, got %s/%s", d, res.Intent, res.Urgency)
		}
		if res.Escalate {
			t.Errorf("%q: unknown digit must not escalate", d)
		}
	}
}
