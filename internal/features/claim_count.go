package features

import (
	"time"

	"loan-feature-engine/internal/model"
)

const claimWindowDays = 180

// claimKey lets records without a claim_id dedupe together instead of
// colliding with a real empty identifier.
type claimKey struct {
	id      string
	numeric bool
	present bool
}

// TotClaimCntL180 counts distinct claim ids with a claim_date less than 180
// whole days before ref. Claims dated after ref count too.
//
// An absent history and a history with nothing in the window both return
// model.NoData.
func TotClaimCntL180(history model.History, ref time.Time) model.FeatureValue {
	if history == nil {
		return model.NoData
	}

	claims := make(map[claimKey]struct{})
	for i := range history {
		c := &history[i]
		if c.ClaimDate == nil {
			continue
		}
		if elapsedDays(ref, *c.ClaimDate) >= claimWindowDays {
			continue
		}
		key := claimKey{}
		if c.ClaimID != nil {
			key = claimKey{id: *c.ClaimID, numeric: c.ClaimIDNumeric, present: true}
		}
		claims[key] = struct{}{}
	}

	if len(claims) == 0 {
		return model.NoData
	}
	return model.FeatureValue(len(claims))
}

type TotClaimCntL180Feature struct{}

func (f *TotClaimCntL180Feature) Name() string { return TotClaimCntL180Name }

func (f *TotClaimCntL180Feature) Calculate(row *model.ClientRow, now time.Time) (model.FeatureValue, []model.CalculationMessage) {
	return TotClaimCntL180(row.Contracts, now), nil
}
