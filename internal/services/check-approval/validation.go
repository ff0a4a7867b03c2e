package checkapproval

import (
	"qld-approval-checker/internal/common/validation"
	"qld-approval-checker/internal/models"
)

// GetInputSchema describes the check-approval request body.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"address", "structureType"},
		Properties: map[string]validation.Property{
			"address": {
				Type:        "string",
				Description: "Property address",
				MinLength:   validation.IntPtr(1),
			},
			"structureType": {
				Type:        "string",
				Description: "Structure type",
				Enum:        structureTypeEnum(),
			},
		},
		AdditionalProperties: validation.BoolPtr(false),
	}
}

// GetOutputSchema describes the ApprovalReport returned by the backend.
// Unknown fields are tolerated so the backend can add to the report.
func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"zone", "overlays", "requirements", "requiresApproval", "summaryText", "nextSteps"},
		Properties: map[string]validation.Property{
			"zone": {
				Type:        "string",
				Description: "Planning zone label",
			},
			"overlays": {
				Type:        "array",
				Description: "Planning overlays in display order",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"name", "active"},
					Properties: map[string]validation.Property{
						"name":   {Type: "string"},
						"active": {Type: "boolean"},
					},
				},
			},
			"requirements": {
				Type:        "array",
				Description: "Approval checklist in display order",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"name", "description", "approved"},
					Properties: map[string]validation.Property{
						"name":        {Type: "string"},
						"description": {Type: "string"},
						"approved":    {Type: "boolean"},
					},
				},
			},
			"requiresApproval": {
				Type:        "boolean",
				Description: "Whether development approval is required",
			},
			"summaryText": {
				Type:        "string",
				Description: "Summary paragraph",
			},
			"nextSteps": {
				Type:        "array",
				Description: "Ordered next steps",
				Items:       &validation.Property{Type: "string"},
			},
		},
	}
}

func structureTypeEnum() []string {
	types := models.StructureTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
