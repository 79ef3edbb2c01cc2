package evaluation

import "idea-workers/internal/models"

const (
	ExceptionalThreshold = 30
	QualifiedThreshold   = 25
	DevelopingThreshold  = 15
)

// TierForTotal maps a combined score onto a qualification tier. The mapping
// is monotonic and ignores the pass/fail gates.
func TierForTotal(total int) models.QualificationTier {
	switch {
	case total >= ExceptionalThreshold:
		return models.TierExceptional
	case total >= QualifiedThreshold:
		return models.TierQualified
	case total >= DevelopingThreshold:
		return models.TierDeveloping
	default:
		return models.TierPending
	}
}

// RankQualification assembles the score result for both gates. stage2 is nil
// when stage 2 was not evaluated.
func RankQualification(stage1 models.StageResult, stage2 *models.StageResult) models.ScoreResult {
	combined := stage1.Total
	if stage2 != nil {
		combined += stage2.Total
	}
	return models.ScoreResult{
		Stage1:            stage1,
		Stage2:            stage2,
		CombinedTotal:     combined,
		QualificationTier: TierForTotal(combined),
		State:             GatingStateOf(stage1, stage2),
	}
}

func GatingStateOf(stage1 models.StageResult, stage2 *models.StageResult) models.GatingState {
	switch {
	case !stage1.Passed:
		return models.StateStage1Failed
	case stage2 == nil:
		return models.StateStage1Passed
	case stage2.Passed:
		return models.StateStage2Passed
	default:
		return models.StateStage2Failed
	}
}
