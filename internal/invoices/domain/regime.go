package domain

// TaxRegime selects the tax column layout shared by the items table and the totals box
type TaxRegime int

const (
	// RegimeGeneric shows a single generic tax column
	RegimeGeneric TaxRegime = iota
	// RegimeCGSTSGST splits tax into central and state components (intra-state supply)
	RegimeCGSTSGST
	// RegimeIGST shows integrated tax (inter-state supply)
	RegimeIGST
)

func (r TaxRegime) String() string {
	switch r {
	case RegimeCGSTSGST:
		return "cgst_sgst"
	case RegimeIGST:
		return "igst"
	default:
		return "generic"
	}
}

// Regime classifies the totals. CGST+SGST wins over IGST; anything else is generic.
func (t Totals) Regime() TaxRegime {
	switch {
	case t.CGST.Present() && t.SGST.Present():
		return RegimeCGSTSGST
	case t.IGST.Present():
		return RegimeIGST
	default:
		return RegimeGeneric
	}
}
