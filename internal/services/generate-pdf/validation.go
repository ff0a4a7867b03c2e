package generatepdf

import "qld-approval-checker/internal/common/validation"

// GetInputSchema describes the generate-pdf request body. The report itself
// was validated when it was fetched, so only its presence is checked here.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"address", "structureType", "approvalData"},
		Properties: map[string]validation.Property{
			"address": {
				Type:        "string",
				Description: "Property address",
			},
			"structureType": {
				Type:        "string",
				Description: "Structure type",
			},
			"approvalData": {
				Type:        "object",
				Description: "ApprovalReport returned by check-approval",
			},
		},
		AdditionalProperties: validation.BoolPtr(false),
	}
}
