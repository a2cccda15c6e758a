package subscriptions

// Unlimited is the MaxResumes answer for tiers without a cap.
const Unlimited = -1

// MaxResumes returns how many resumes a tier may own.
func MaxResumes(level Level) int {
	switch level {
	case LevelPro:
		return 3
	case LevelProPlus:
		return Unlimited
	default:
		return 1
	}
}

// CanCreateResume reports whether a user on level owning count resumes may create another.
func CanCreateResume(level Level, count int) bool {
	max := MaxResumes(level)
	if max == Unlimited {
		return true
	}
	return count < max
}

// CanUseAITools reports whether level unlocks AI generation.
func CanUseAITools(level Level) bool {
	return level == LevelPro || level == LevelProPlus
}

// CanUseCustomizations reports whether level may change presentation options.
func CanUseCustomizations(level Level) bool {
	return level == LevelProPlus
}

// Capabilities is the gate answers for one tier.
type Capabilities struct {
	MaxResumes           int  `json:"maxResumes"`
	CanUseAITools        bool `json:"canUseAITools"`
	CanUseCustomizations bool `json:"canUseCustomizations"`
}

// CapabilitiesFor collects the capability answers for level.
func CapabilitiesFor(level Level) Capabilities {
	return Capabilities{
		MaxResumes:           MaxResumes(level),
		CanUseAITools:        CanUseAITools(level),
		CanUseCustomizations: CanUseCustomizations(level),
	}
}
