// internal/models/submission.go
package models

// Submission is a validated respondent submission: the respondent's
// name plus at least one business record, in the order they were
// entered.
type Submission struct {
	Name       string           `json:"name"`
	Businesses []BusinessRecord `json:"businesses"`
}

// BusinessRecord holds one business as collected from the form.
// BusinessNumber is stored in international form ("+98...") after
// validation; BusinessLink stays an ordered slice until forwarding.
type BusinessRecord struct {
	BusinessName          string   `json:"business_name"`
	BusinessCategory      string   `json:"business_category,omitempty"`
	BusinessLink          []string `json:"business_link,omitempty"`
	BusinessWebsite       string   `json:"business_website,omitempty"`
	BusinessNumber        string   `json:"business_number"`
	BusinessAddress       string   `json:"business_address"`
	BusinessNote          string   `json:"business_note,omitempty"`
	BusinessOwnerName     string   `json:"business_owner_name"`
	BusinessOwnerRelation string   `json:"business_owner_relation,omitempty"`
}

// Row is the flattened, sink-ready shape of one business record.
// Every field is a plain string; optional fields that were never set
// are empty strings, never null. DateAndTime is shared by all rows of
// one batch.
type Row struct {
	DateAndTime           string `json:"date_and_time"`
	Name                  string `json:"name"`
	BusinessName          string `json:"business_name"`
	BusinessCategory      string `json:"business_category"`
	BusinessLink          string `json:"business_link"`
	BusinessWebsite       string `json:"business_website"`
	BusinessNumber        string `json:"business_number"`
	BusinessAddress       string `json:"business_address"`
	BusinessNote          string `json:"business_note"`
	BusinessOwnerName     string `json:"business_owner_name"`
	BusinessOwnerRelation string `json:"business_owner_relation"`
}
