package stage

// Category classifies stages so workflow rules match on type, not on
// string membership against the selected-areas list.
type Category uint

const (
	// None marks a project that left its flow, finished or cancelled.
	None Category = iota
	Intake
	Production
	Quality
	Closing
	Admin
)

type Stage struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// GateApplies reports whether the quality gate blocks leaving this stage.
// Only production department stages require a quality sign-off.
func (s Stage) GateApplies() bool {
	return s.Category == Production
}

func (c Category) String() string {
	switch c {
	case None:
		return "NONE"
	case Intake:
		return "INTAKE"
	case Production:
		return "PRODUCTION"
	case Quality:
		return "QUALITY"
	case Closing:
		return "CLOSING"
	case Admin:
		return "ADMIN"
	}
	return "UNKNOWN"
}
