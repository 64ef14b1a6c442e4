package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	GrantNav DataSource = "GrantNav"
	NIHR     DataSource = "NIHR"
	UKCDR    DataSource = "UKCDR"
)

const (
	TaggedYes       TaggingStatus = "Yes"
	TaggedPartially TaggingStatus = "Partially"
	TaggedNo        TaggingStatus = "No"
)

type (
	// DataSource identifies the register a grant was taken from.
	DataSource string

	// TaggingStatus is the degree to which a grant is dedicated to Long Covid.
	TaggingStatus string

	// OrgMeta carries organisation metadata. Only GrantNav rows populate it.
	OrgMeta struct {
		RegistrationYear string
		Age              string
		AgeGroup         string
		LatestIncome     string
		IncomeGroup      string
		RegistrationDate string
		Type             string
	}

	// Grant is one funding award. Grants are created by the dataset loader and
	// never modified afterwards.
	Grant struct {
		ID               int
		Identifier       string
		Source           DataSource
		Tagging          TaggingStatus
		Category         string
		Subcategory      string // empty when absent
		Amount           decimal.Decimal
		Year             int
		AwardDate        string
		Title            string
		Description      string
		OrganisationName string
		Org              OrgMeta
		RecipientPostal  string
		Lon              *float64
		Lat              *float64
	}
)

var (
	ErrUnknownSource       = errors.New("unknown data source")
	ErrUnknownTagging      = errors.New("unknown tagging status")
	ErrNegativeAmount      = errors.New("negative amount")
	ErrEmptyCategory       = errors.New("empty category")
	ErrInvalidID           = errors.New("invalid grant id")
	ErrSelectionResolution = errors.New("selected grant not found")
)

// DataSources returns every data source in display order.
func DataSources() []DataSource {
	return []DataSource{GrantNav, NIHR, UKCDR}
}

// TaggingStatuses returns every tagging status in display order.
func TaggingStatuses() []TaggingStatus {
	return []TaggingStatus{TaggedYes, TaggedPartially, TaggedNo}
}

// ParseDataSource accepts the spellings found in the source registers
// ("Grantnav", "GrantNav", "nihr", ...).
func ParseDataSource(s string) (DataSource, error) {
	v := strings.TrimSpace(s)
	for _, ds := range DataSources() {
		if strings.EqualFold(v, string(ds)) {
			return ds, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

func ParseTaggingStatus(s string) (TaggingStatus, error) {
	v := strings.TrimSpace(s)
	for _, ts := range TaggingStatuses() {
		if strings.EqualFold(v, string(ts)) {
			return ts, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTagging, s)
}

// Label returns the text shown next to the source checkbox.
func (d DataSource) Label() string {
	if d == GrantNav {
		return "360Giving GrantNav"
	}
	return string(d)
}

// Label returns the text shown next to the tagging checkbox.
func (t TaggingStatus) Label() string {
	switch t {
	case TaggedYes:
		return "Completely"
	case TaggedNo:
		return "No, wrongly tagged 'Long Covid'"
	default:
		return string(t)
	}
}

// Coordinates returns the (lon, lat) pair when both values are present.
func (g *Grant) Coordinates() ([2]float64, bool) {
	if g.Lon == nil || g.Lat == nil {
		return [2]float64{}, false
	}
	return [2]float64{*g.Lon, *g.Lat}, true
}

func (g *Grant) Validate() error {
	if g.ID < 1 {
		return ErrInvalidID
	}
	if g.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if strings.TrimSpace(g.Category) == "" {
		return ErrEmptyCategory
	}
	if _, err := ParseDataSource(string(g.Source)); err != nil {
		return err
	}
	if _, err := ParseTaggingStatus(string(g.Tagging)); err != nil {
		return err
	}
	return nil
}

// LoadError reports why the dataset could not be loaded. It is fatal at
// startup. Row is the 1-based data row (0 for header or source problems).
type LoadError struct {
	Source string
	Row    int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("load dataset")
	if e.Source != "" {
		b.WriteString(" from " + e.Source)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, ": row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %s", e.Column)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }
