package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateBulkUploadResult corresponds to
	// templates/emails/bulk_upload_result.html
	TemplateBulkUploadResult Template = "bulk_upload_result"
)
