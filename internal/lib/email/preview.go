package email

// PreviewData contains sample template data for local preview/testing.
//
// It maps:
//
//	templateName -> (templateVariableName -> exampleValue)
var PreviewData = map[string]map[string]string{
	"bulk_upload_result": {
		"DocumentUID":       "7b0e9b3c-1f7a-4f25-9a74-2f6a2f9f0d11",
		"Status":            "UPLOADED",
		"ProcessedRows":     "120",
		"AgreementsCreated": "118",
		"Comments":          "2 rows could not be resolved",
	},
}
