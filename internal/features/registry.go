package features

const (
	DisbBankLoanWoTBCName = "disb_bank_loan_wo_tbc"
	TotClaimCntL180Name   = "tot_claim_cnt_l180"
	DaySinLastLoanName    = "day_sinlastloan"
)

var registry = map[string]Feature{
	DisbBankLoanWoTBCName: &DisbBankLoanWoTBCFeature{},
	TotClaimCntL180Name:   &TotClaimCntL180Feature{},
	DaySinLastLoanName:    &DaySinLastLoanFeature{},
}

// order fixes the output column order.
var order = []string{
	DisbBankLoanWoTBCName,
	TotClaimCntL180Name,
	DaySinLastLoanName,
}

func Get(name string) (Feature, bool) {
	f, ok := registry[name]
	return f, ok
}

func Names() []string {
	return append([]string(nil), order...)
}
