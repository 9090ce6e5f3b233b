package records

import "github.com/shopspring/decimal"

// Settlement is one dispatch settlement row (GET /settlements).
type Settlement struct {
	ID                   int64               `json:"id"`
	SettlementMonth      string              `json:"settlementMonth"`
	CompanyCount         int64               `json:"companyCount"`
	EmployeeCount        int64               `json:"employeeCount"`
	BillingAmount        decimal.NullDecimal `json:"billingAmount"`
	Commission           decimal.NullDecimal `json:"commission"`
	DepositDate          Date                `json:"depositDate"`
	SettlementCommission decimal.NullDecimal `json:"settlementCommission"`
	Note                 *string             `json:"note"`
	Amount               decimal.NullDecimal `json:"amount"`
	SettlementDate       Date                `json:"settlementDate"`
	CreatedAt            Date                `json:"createdAt"`
}

// Recruitment is one recruitment-agency billing row (GET /recruitments).
type Recruitment struct {
	ID                   int64               `json:"id"`
	SettlementMonth      string              `json:"settlementMonth"`
	ClientName           string              `json:"clientName"`
	EmployeeCount        int64               `json:"employeeCount"`
	BillingAmount        decimal.NullDecimal `json:"billingAmount"`
	Commission           decimal.NullDecimal `json:"commission"`
	CommissionStandard   string              `json:"commissionStandard"`
	BillingPeriod        string              `json:"billingPeriod"`
	DepositDate          Date                `json:"depositDate"`
	TaxInvoiceDate       Date                `json:"taxInvoiceDate"`
	SettlementCommission decimal.NullDecimal `json:"settlementCommission"`
	SettlementDate       Date                `json:"settlementDate"`
	Note                 *string             `json:"note"`
	CreatedAt            Date                `json:"createdAt"`
}

// TaxInvoice is one tax-invoice billing row (GET /tax-invoices).
type TaxInvoice struct {
	ID                   int64               `json:"id"`
	SettlementMonth      string              `json:"settlementMonth"`
	CompanyCount         int64               `json:"companyCount"`
	EmployeeCount        int64               `json:"employeeCount"`
	BillingAmount        decimal.NullDecimal `json:"billingAmount"`
	Commission           decimal.NullDecimal `json:"commission"`
	DepositDate          Date                `json:"depositDate"`
	SettlementCommission decimal.NullDecimal `json:"settlementCommission"`
	SettlementDate       Date                `json:"settlementDate"`
	Note                 *string             `json:"note"`
}

// Envelope is the paged response shape shared by every list endpoint.
type Envelope[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}
