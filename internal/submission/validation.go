package submission

import (
	"regexp"
	"strings"

	"survey-collector/internal/common/validation"
	"survey-collector/internal/models"
)

// Iranian mobile numbers arrive in local form: exactly 11 digits,
// "09" prefix. Anything else is rejected before any rewrite happens.
var iranMobilePattern = regexp.MustCompile(`^09\d{9}$`)

const (
	msgNameRequired          = "نام و نام خانوادگی الزامی است"
	msgBusinessesMin         = "حداقل یک کسب و کار را وارد کنید"
	msgBusinessNameRequired  = "نام کسب و کار الزامی است"
	msgBusinessNumberInvalid = "شماره تماس باید با 09 شروع شده و ۱۱ رقم باشد"
	msgAddressRequired       = "آدرس کسب و کار الزامی است"
	msgOwnerNameRequired     = "نام صاحب کسب و کار الزامی است"
)

// GetSubmissionSchema returns the acceptance schema for a respondent
// submission: name plus a non-empty ordered list of business records.
func GetSubmissionSchema() validation.JSONSchema {
	mobilePattern := iranMobilePattern.String()

	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"name", "businesses"},
		Properties: map[string]validation.Property{
			"name": {
				Type:        "string",
				Description: "Full name of the respondent",
				MinLength:   intPtr(1),
				Message:     msgNameRequired,
			},
			"businesses": {
				Type:        "array",
				Description: "Ordered list of business records",
				MinItems:    intPtr(1),
				Message:     msgBusinessesMin,
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"business_name", "business_number", "business_address", "business_owner_name"},
					Properties: map[string]validation.Property{
						"business_name": {
							Type:      "string",
							MinLength: intPtr(1),
							Message:   msgBusinessNameRequired,
						},
						"business_category": {
							Type: "string",
							Enum: BusinessCategoryOptions,
						},
						"business_link": {
							Type: "array",
							Items: &validation.Property{
								Type:     "string",
								Nullable: true,
							},
						},
						"business_website": {
							Type: "string",
						},
						"business_number": {
							Type:    "string",
							Pattern: &mobilePattern,
							Message: msgBusinessNumberInvalid,
						},
						"business_address": {
							Type:      "string",
							MinLength: intPtr(1),
							Message:   msgAddressRequired,
						},
						"business_note": {
							Type: "string",
						},
						"business_owner_name": {
							Type:      "string",
							MinLength: intPtr(1),
							Message:   msgOwnerNameRequired,
						},
						"business_owner_relation": {
							Type: "string",
							Enum: BusinessOwnerRelationOptions,
						},
					},
				},
			},
		},
		AdditionalProperties: true,
	}
}

// ParseSubmission validates an untyped submission and, on success,
// returns the typed submission with phone numbers already rewritten to
// international form. On failure the ValidationResult carries every
// violation and no partial submission is produced.
//
// This is validate-then-normalize: the local-form check runs against
// the raw value and the "+98" rewrite is applied only after it passes.
func ParseSubmission(input map[string]interface{}) (*models.Submission, *validation.ValidationResult) {
	result := validation.ValidateInput(input, GetSubmissionSchema())
	if !result.Valid {
		return nil, result
	}

	sub := &models.Submission{
		Name: input["name"].(string),
	}

	rawBusinesses := input["businesses"].([]interface{})
	sub.Businesses = make([]models.BusinessRecord, 0, len(rawBusinesses))
	for _, raw := range rawBusinesses {
		fields := raw.(map[string]interface{})

		record := models.BusinessRecord{
			BusinessName:          getString(fields, "business_name"),
			BusinessCategory:      getString(fields, "business_category"),
			BusinessLink:          getStringSlice(fields, "business_link"),
			BusinessWebsite:       getString(fields, "business_website"),
			BusinessNumber:        normalizeMobile(getString(fields, "business_number")),
			BusinessAddress:       getString(fields, "business_address"),
			BusinessNote:          getString(fields, "business_note"),
			BusinessOwnerName:     getString(fields, "business_owner_name"),
			BusinessOwnerRelation: getString(fields, "business_owner_relation"),
		}

		sub.Businesses = append(sub.Businesses, record)
	}

	return sub, result
}

// normalizeMobile rewrites a validated local-form number to
// international form by replacing the leading "0" with "+98".
func normalizeMobile(local string) string {
	return "+98" + strings.TrimPrefix(local, "0")
}

func getString(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func getStringSlice(fields map[string]interface{}, key string) []string {
	raw, ok := fields[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, len(raw))
	for i, v := range raw {
		if s, ok := v.(string); ok {
			out[i] = s
		}
	}
	return out
}

func intPtr(i int) *int {
	return &i
}
