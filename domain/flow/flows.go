package flow

import (
	"strings"

	"odtflow/bizerror"
	"odtflow/domain/stage"
)

var (
	StageAccounts       = stage.Stage{Name: "Accounts", Category: stage.Intake}
	StageQualityControl = stage.Stage{Name: "Quality Control", Category: stage.Quality}
	StageAccountsClose  = stage.Stage{Name: "Accounts (Close)", Category: stage.Closing}
	StageAdministration = stage.Stage{Name: "Administration", Category: stage.Admin}
)

var fixedStageNames = map[string]bool{
	StageAccounts.Name:       true,
	StageQualityControl.Name: true,
	StageAccountsClose.Name:  true,
	StageAdministration.Name: true,
	"Finished":               true,
}

// ResolveFlow derives the ordered stage sequence of a project from its
// selected production areas. It is pure and must be recomputed per call.
func ResolveFlow(areas []string) []stage.Stage {
	stages := make([]stage.Stage, 0, len(areas)+4)
	stages = append(stages, StageAccounts)
	for _, area := range areas {
		stages = append(stages, stage.Stage{Name: area, Category: stage.Production})
	}
	stages = append(stages, StageQualityControl, StageAccountsClose, StageAdministration)
	return stages
}

// ValidateAreas rejects selected-area sets that would produce an ambiguous
// flow: empty sets, duplicated names, blank names, and names colliding with
// the fixed administrative stages.
func ValidateAreas(areas []string) error {
	if len(areas) == 0 {
		return bizerror.ErrAreasInvalid
	}
	seen := map[string]bool{}
	for _, area := range areas {
		name := strings.TrimSpace(area)
		if name == "" || name != area {
			return bizerror.ErrAreasInvalid
		}
		if fixedStageNames[name] || seen[name] {
			return bizerror.ErrAreasInvalid
		}
		seen[name] = true
	}
	return nil
}

func IndexOf(stages []stage.Stage, name string) int {
	for i, s := range stages {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func FindStage(stages []stage.Stage, name string) (stage.Stage, bool) {
	idx := IndexOf(stages, name)
	if idx < 0 {
		return stage.Stage{}, false
	}
	return stages[idx], true
}

// NextStage returns the stage after the named one, or false when the named
// stage is the last of the flow.
func NextStage(stages []stage.Stage, current string) (stage.Stage, bool) {
	idx := IndexOf(stages, current)
	if idx < 0 || idx+1 >= len(stages) {
		return stage.Stage{}, false
	}
	return stages[idx+1], true
}
