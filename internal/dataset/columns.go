package dataset

// Column names of the grants table.
const (
	ColID               = "ID"
	ColIdentifier       = "Identifier"
	ColSource           = "Data_source"
	ColTagging          = "LC_dedicated"
	ColCategory         = "Type"
	ColSubcategory      = "Subtype"
	ColAmount           = "Amnt_awa"
	ColYear             = "Year_awa"
	ColAwardDate        = "Date_awa"
	ColTitle            = "Title"
	ColDescription      = "Description"
	ColOrganisation     = "Organisation_name"
	ColPostal           = "Recipient_postal"
	ColOrgRegYear       = "Year_org_reg"
	ColOrgAge           = "Org_age"
	ColOrgAgeGroup      = "Org_age_group"
	ColOrgIncome        = "Recipient_income_latest"
	ColOrgIncomeGroup   = "Income_group"
	ColOrgRegDate       = "Recipient_datereg"
	ColOrgType          = "Recipient_orgtype"
	ColLon              = "lon"
	ColLat              = "lat"
)

// RequiredColumns must all be present in the header or loading fails.
var RequiredColumns = []string{
	ColSource, ColTagging, ColCategory, ColSubcategory, ColAmount, ColYear,
	ColTitle, ColDescription, ColOrganisation, ColPostal, ColLon, ColLat,
}

// OptionalColumns are read when present and left empty otherwise.
var OptionalColumns = []string{
	ColID, ColIdentifier, ColAwardDate, ColOrgRegYear, ColOrgAge, ColOrgAgeGroup,
	ColOrgIncome, ColOrgIncomeGroup, ColOrgRegDate, ColOrgType,
}

// Columns returns the full documented column set, required first.
func Columns() []string {
	out := make([]string, 0, len(RequiredColumns)+len(OptionalColumns))
	out = append(out, RequiredColumns...)
	return append(out, OptionalColumns...)
}
