package validation

import "stage-entry-api/internal/entry"

// Per-stage validators. Each returns the missing-field identifiers in rule
// order, nil when the record is complete.

func ValidateBasicInfo(rec *entry.BasicInfo, aux AuxFacts) []string {
	return missingFields(rec, basicInfoRules, aux)
}

func ValidatePreliminary(rec *entry.PreliminaryInfo, aux AuxFacts) []string {
	return missingFields(rec, preliminaryRules, aux)
}

func ValidateProgram(rec *entry.ProgramInfo, aux AuxFacts) []string {
	return missingFields(rec, programRules, aux)
}

func ValidateSemifinals(rec *entry.SemifinalsInfo, aux AuxFacts) []string {
	return missingFields(rec, semifinalsRules, aux)
}

func ValidateFinals(rec *entry.FinalsInfo, aux AuxFacts) []string {
	return missingFields(rec, finalsRules, aux)
}

func ValidateSns(rec *entry.SnsInfo, aux AuxFacts) []string {
	return missingFields(rec, snsRules, aux)
}

func ValidateApplications(rec *entry.ApplicationsInfo, aux AuxFacts) []string {
	return missingFields(rec, applicationsRules, aux)
}

// ValidateStage dispatches to the stage's validator. A nil record is "not
// started": nothing to validate, nothing missing.
func ValidateStage(stage entry.Stage, rs entry.StageRecords, aux AuxFacts) []string {
	switch stage {
	case entry.StageBasicInfo:
		if rs.BasicInfo == nil {
			return nil
		}
		return ValidateBasicInfo(rs.BasicInfo, aux)
	case entry.StagePreliminary:
		if rs.Preliminary == nil {
			return nil
		}
		return ValidatePreliminary(rs.Preliminary, aux)
	case entry.StageProgram:
		if rs.Program == nil {
			return nil
		}
		return ValidateProgram(rs.Program, aux)
	case entry.StageSemifinals:
		if rs.Semifinals == nil {
			return nil
		}
		return ValidateSemifinals(rs.Semifinals, aux)
	case entry.StageFinals:
		if rs.Finals == nil {
			return nil
		}
		return ValidateFinals(rs.Finals, aux)
	case entry.StageSns:
		if rs.Sns == nil {
			return nil
		}
		return ValidateSns(rs.Sns, aux)
	case entry.StageApplications:
		if rs.Applications == nil {
			return nil
		}
		return ValidateApplications(rs.Applications, aux)
	}
	return nil
}

func stageExists(stage entry.Stage, rs entry.StageRecords) bool {
	switch stage {
	case entry.StageBasicInfo:
		return rs.BasicInfo != nil
	case entry.StagePreliminary:
		return rs.Preliminary != nil
	case entry.StageProgram:
		return rs.Program != nil
	case entry.StageSemifinals:
		return rs.Semifinals != nil
	case entry.StageFinals:
		return rs.Finals != nil
	case entry.StageSns:
		return rs.Sns != nil
	case entry.StageApplications:
		return rs.Applications != nil
	}
	return false
}
