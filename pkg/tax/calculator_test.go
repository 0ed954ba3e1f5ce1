package tax

import "testing"

func TestCalculateImportElectronics(t *testing.T) {
	c := NewCalculator(DefaultConfig())
	b := c.CalculateImport(10000, true)

	if b.ImportDuty != 2500 {
		t.Fatalf("import duty = %v, want 2500", b.ImportDuty)
	}
	if b.RailwayLevy != 150 || b.IDFFee != 350 {
		t.Fatalf("levies = %v/%v, want 150/350", b.RailwayLevy, b.IDFFee)
	}
	// VAT applies on CIF plus all other levies.
	wantVAT := (10000.0 + 2500 + 150 + 350) * 0.16
	if b.VAT != wantVAT {
		t.Fatalf("vat = %v, want %v", b.VAT, wantVAT)
	}
	if b.TotalLandedCost != b.CIFValue+b.TotalTax {
		t.Fatalf("landed cost %v != cif %v + tax %v", b.TotalLandedCost, b.CIFValue, b.TotalTax)
	}
}

func TestGeneralDutyHigherThanElectronics(t *testing.T) {
	c := NewCalculator(DefaultConfig())
	general := c.CalculateImport(5000, false)
	electronic := c.CalculateImport(5000, true)

	if general.TotalTax <= electronic.TotalTax {
		t.Fatalf("general tax %v should exceed electronics tax %v",
			general.TotalTax, electronic.TotalTax)
	}
}
