package records

import "github.com/shopspring/decimal"

const (
	KeySettlements  = "settlements"
	KeyRecruitments = "recruitments"
	KeyTaxInvoices  = "tax-invoices"
)

func pageStats[T any](amount, commission func(T) decimal.NullDecimal) []StatDef[T] {
	return []StatDef[T]{
		{Title: "총 데이터 수", Kind: StatTotal, Suffix: "건"},
		{Title: "현재 페이지 총액", Kind: StatSum, Field: amount, Prefix: "₩"},
		{Title: "현재 페이지 수수료", Kind: StatSum, Field: commission, Prefix: "₩"},
		{Title: "업로드 상태", Kind: StatText, Text: "정상"},
	}
}

// Settlements is the dispatch settlement list.
func Settlements() Variant[Settlement] {
	return Variant[Settlement]{
		Key:               KeySettlements,
		Title:             "파견 정산 내역",
		Endpoint:          "/settlements",
		UploadEndpoint:    "/upload/csv",
		SearchPlaceholder: "정산 월 또는 비고로 검색",
		PrintTitle:        "파견정산관리",
		DateRange:         true,
		ID:                func(s Settlement) int64 { return s.ID },
		Columns: []Column[Settlement]{
			textColumn("settlementMonth", "정산 월", 100, func(s Settlement) string { return s.SettlementMonth }),
			countColumn("companyCount", "업체수", 80, true, func(s Settlement) int64 { return s.CompanyCount }),
			countColumn("employeeCount", "인원수", 80, true, func(s Settlement) int64 { return s.EmployeeCount }),
			moneyColumn("billingAmount", "청구금액", 120, wonMoney, func(s Settlement) decimal.NullDecimal { return s.BillingAmount }),
			moneyColumn("commission", "수수료", 120, wonMoney, func(s Settlement) decimal.NullDecimal { return s.Commission }),
			dateColumn("depositDate", "입금일자", 100, isoDates, func(s Settlement) Date { return s.DepositDate }),
			moneyColumn("settlementCommission", "정산 수수료", 120, wonMoney, func(s Settlement) decimal.NullDecimal { return s.SettlementCommission }),
			moneyColumn("amount", "금액", 120, wonMoney, func(s Settlement) decimal.NullDecimal { return s.Amount }),
			dateColumn("settlementDate", "정산일자", 100, isoDates, func(s Settlement) Date { return s.SettlementDate }),
			noteColumn("note", "비고", "-", func(s Settlement) *string { return s.Note }),
		},
		Stats: pageStats(
			func(s Settlement) decimal.NullDecimal { return s.Amount },
			func(s Settlement) decimal.NullDecimal { return s.Commission },
		),
	}
}

// Recruitments is the recruitment-agency billing list.
func Recruitments() Variant[Recruitment] {
	return Variant[Recruitment]{
		Key:               KeyRecruitments,
		Title:             "채용대행 정산 내역",
		Endpoint:          "/recruitments",
		UploadEndpoint:    "/recruitments/upload-csv",
		SearchPlaceholder: "거래처명, 정산 월 등으로 검색",
		PrintTitle:        "채용대행관리",
		ID:                func(r Recruitment) int64 { return r.ID },
		Columns: []Column[Recruitment]{
			textColumn("settlementMonth", "정산 월", 100, func(r Recruitment) string { return r.SettlementMonth }),
			textColumn("clientName", "거래처명", 120, func(r Recruitment) string { return r.ClientName }),
			countColumn("employeeCount", "인원수", 80, true, func(r Recruitment) int64 { return r.EmployeeCount }),
			moneyColumn("billingAmount", "청구금액", 120, wonMoney, func(r Recruitment) decimal.NullDecimal { return r.BillingAmount }),
			moneyColumn("commission", "수수료", 120, wonMoney, func(r Recruitment) decimal.NullDecimal { return r.Commission }),
			textColumn("commissionStandard", "수수료 지급기준", 120, func(r Recruitment) string { return r.CommissionStandard }),
			textColumn("billingPeriod", "청구기간", 120, func(r Recruitment) string { return r.BillingPeriod }),
			dateColumn("depositDate", "입금일자", 100, isoDates, func(r Recruitment) Date { return r.DepositDate }),
			dateColumn("taxInvoiceDate", "세금계산서 발행일", 100, isoDates, func(r Recruitment) Date { return r.TaxInvoiceDate }),
			moneyColumn("settlementCommission", "정산 수수료", 120, wonMoney, func(r Recruitment) decimal.NullDecimal { return r.SettlementCommission }),
			dateColumn("settlementDate", "정산일자", 100, isoDates, func(r Recruitment) Date { return r.SettlementDate }),
			noteColumn("note", "비고", "-", func(r Recruitment) *string { return r.Note }),
		},
		Stats: pageStats(
			func(r Recruitment) decimal.NullDecimal { return r.BillingAmount },
			func(r Recruitment) decimal.NullDecimal { return r.Commission },
		),
	}
}

// TaxInvoices is the tax-invoice list. It renders bare numbers and short dates.
func TaxInvoices() Variant[TaxInvoice] {
	settlementMonth := textColumn("settlementMonth", "정산 월", 100, func(t TaxInvoice) string { return t.SettlementMonth })
	settlementMonth.Bold = true
	return Variant[TaxInvoice]{
		Key:               KeyTaxInvoices,
		Title:             "세금계산서",
		Endpoint:          "/tax-invoices",
		UploadEndpoint:    "/tax-invoices/upload-csv",
		SearchPlaceholder: "정산 월, 비고 등으로 검색",
		PrintTitle:        "세금계산서",
		ID:                func(t TaxInvoice) int64 { return t.ID },
		Columns: []Column[TaxInvoice]{
			settlementMonth,
			countColumn("companyCount", "업체수", 80, false, func(t TaxInvoice) int64 { return t.CompanyCount }),
			countColumn("employeeCount", "인원수", 80, false, func(t TaxInvoice) int64 { return t.EmployeeCount }),
			moneyColumn("billingAmount", "청구금액", 120, bareMoney, func(t TaxInvoice) decimal.NullDecimal { return t.BillingAmount }),
			moneyColumn("commission", "수수료", 120, bareMoney, func(t TaxInvoice) decimal.NullDecimal { return t.Commission }),
			dateColumn("depositDate", "입금일자", 100, shortDates, func(t TaxInvoice) Date { return t.DepositDate }),
			moneyColumn("settlementCommission", "정산 수수료", 120, bareMoney, func(t TaxInvoice) decimal.NullDecimal { return t.SettlementCommission }),
			dateColumn("settlementDate", "정산일자", 100, shortDates, func(t TaxInvoice) Date { return t.SettlementDate }),
			noteColumn("note", "비고", "", func(t TaxInvoice) *string { return t.Note }),
		},
		Stats: []StatDef[TaxInvoice]{
			{Title: "세금계산서 - ", AppendViewer: true, Kind: StatTotal, Suffix: "건"},
		},
	}
}
