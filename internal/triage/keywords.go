package triage

// Keyword sets for the classification tiers. Matching is substring on
// the lowercased utterance.

// criticalSymptoms demand immediate veterinary attention.
var criticalSymptoms = []string{
	"not breathing", "can't breathe", "cannot breathe",
	"unconscious", "seizure", "convulsions",
	"bleeding", "hit by car", "hit by a car", "choking",
	"collapsed", "collapse", "severe trauma",
	"bloated stomach", "pale gums", "blue tongue",
	"dying", "dead",
}

// urgentSymptoms need a same-day appointment.
var urgentSymptoms = []string{
	"vomiting blood", "diarrhea with blood",
	"difficulty urinating", "straining to defecate",
	"limping badly", "eye injury", "excessive drooling",
	"distended abdomen", "rapid breathing",
	"crying in pain", "won't stop crying",
}

// emergencyPhrases are generic emergency wording without a specific
// symptom; they classify as emergency at high (not critical) urgency.
var emergencyPhrases = []string{
	"emergency", "trauma", "accident", "critical condition",
}

// ingestionVerbs combined with a named toxin mean poison exposure.
var ingestionVerbs = []string{
	"ate", "eaten", "ingested", "swallowed", "consumed", "got into", "licked",
}

// poisonKeywords are substances toxic to pets.
var poisonKeywords = []string{
	"chocolate", "grapes", "raisins", "onions", "garlic", "xylitol",
	"antifreeze", "rat poison", "cleaning products", "bleach",
	"mushrooms", "insecticide", "fertilizer", "lilies", "ibuprofen",
}

// criticalPoisons are commonly fatal; exposure is critical, not just urgent.
var criticalPoisons = []string{
	"antifreeze", "rat poison", "xylitol", "grapes", "raisins", "lilies",
}

var refillKeywords = []string{
	"prescription", "refill", "medication", "medicine", "more pills",
}

var medicationKeywords = []string{
	"heartworm", "flea", "tick", "antibiotic", "insulin", "painkiller",
	"apoquel", "gabapentin",
}

var insuranceKeywords = []string{
	"insurance", "coverage", "claim", "billing", "invoice",
	"how much", "cost of", "price", "payment plan",
}

var insuranceProviders = []string{
	"trupanion", "petplan", "healthy paws", "embrace", "nationwide",
}

var appointmentKeywords = []string{
	"appointment", "schedule", "book", "visit", "checkup", "check up",
	"vaccination", "vaccine", "wellness", "exam", "come in",
}

var modifyVerbs = []string{
	"change", "cancel", "reschedule", "move", "push back",
}

var healthKeywords = []string{
	"sick", "ill", "vomiting", "diarrhea", "not eating", "limping",
	"cough", "scratching", "lethargic", "pain", "fever", "infection",
}

// criticalPhrases force critical urgency regardless of intent defaults.
var criticalPhrases = []string{
	"dying", "dead", "unconscious", "bleeding", "choking",
	"seizure", "can't breathe", "collapse",
}

// highUrgencyPhrases lift urgency to high.
var highUrgencyPhrases = []string{
	"urgent", "asap", "immediately", "right now", "can't wait",
	"severe", "getting worse",
}

var speciesKeywords = []string{
	"dog", "puppy", "cat", "kitten", "bird", "parrot", "rabbit",
	"hamster", "guinea pig", "ferret", "reptile", "snake", "lizard",
}
