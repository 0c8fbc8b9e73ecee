package features

import (
	"time"

	"cloud.google.com/go/civil"

	"loan-feature-engine/internal/model"
)

// DaySinLastLoan returns the whole days between the latest claim_date among
// contracts with a summa and ref. The result is negative when that claim is
// dated after ref.
func DaySinLastLoan(history model.History, ref time.Time) model.FeatureValue {
	if len(history) == 0 {
		return model.NoData
	}

	var last *civil.Date
	for i := range history {
		c := &history[i]
		if c.Summa == nil || c.ClaimDate == nil {
			continue
		}
		if last == nil || c.ClaimDate.After(*last) {
			last = c.ClaimDate
		}
	}

	if last == nil {
		return model.NoQualifyingData
	}
	return model.FeatureValue(elapsedDays(ref, *last))
}

// DaySinLastLoanFeature measures against the row's own application date,
// never the batch clock.
type DaySinLastLoanFeature struct{}

func (f *DaySinLastLoanFeature) Name() string { return DaySinLastLoanName }

func (f *DaySinLastLoanFeature) Calculate(row *model.ClientRow, _ time.Time) (model.FeatureValue, []model.CalculationMessage) {
	if row.ApplicationDate == nil {
		if len(row.Contracts) == 0 {
			return model.NoData, nil
		}
		return model.NoData, []model.CalculationMessage{{
			Level:   model.LevelWarning,
			Code:    model.CodeMissingApplicationDate,
			Message: "Application date is missing; days since last loan not computed",
		}}
	}
	return DaySinLastLoan(row.Contracts, *row.ApplicationDate), nil
}
