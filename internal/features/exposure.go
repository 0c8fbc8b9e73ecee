package features

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"loan-feature-engine/internal/model"
)

// tbcBanks are bank codes left out of the exposure sum. A missing bank is
// excluded as well.
var tbcBanks = map[string]struct{}{
	"LIZ": {},
	"LOM": {},
	"MKO": {},
	"SUG": {},
}

// DisbBankLoanWoTBC sums loan_summa over disbursed contracts (contract_date
// set) whose bank is known and not a TBC bank.
//
// Returns model.NoData for an absent or empty history and
// model.NoQualifyingData when no contract contributes an amount. A loan_summa
// that is not a number skips that contract and is reported as a warning.
func DisbBankLoanWoTBC(history model.History) (model.FeatureValue, []model.CalculationMessage) {
	if len(history) == 0 {
		return model.NoData, nil
	}

	var msgs []model.CalculationMessage
	total := decimal.Zero
	counted := 0

	for i := range history {
		c := &history[i]
		if c.ContractDate == nil || c.LoanSumma == nil || !nonTBCBank(c.Bank) {
			continue
		}
		amount, err := model.ParseAmount(*c.LoanSumma)
		if err != nil {
			msgs = append(msgs, model.CalculationMessage{
				Level:   model.LevelWarning,
				Code:    model.CodeMalformedLoanSumma,
				Message: fmt.Sprintf("Contract %d skipped: %v", i, err),
			})
			continue
		}
		total = total.Add(amount)
		counted++
	}

	if counted == 0 {
		return model.NoQualifyingData, msgs
	}
	return model.FeatureValue(total.InexactFloat64()), msgs
}

func nonTBCBank(bank *string) bool {
	if bank == nil {
		return false
	}
	_, excluded := tbcBanks[*bank]
	return !excluded
}

type DisbBankLoanWoTBCFeature struct{}

func (f *DisbBankLoanWoTBCFeature) Name() string { return DisbBankLoanWoTBCName }

func (f *DisbBankLoanWoTBCFeature) Calculate(row *model.ClientRow, _ time.Time) (model.FeatureValue, []model.CalculationMessage) {
	return DisbBankLoanWoTBC(row.Contracts)
}
