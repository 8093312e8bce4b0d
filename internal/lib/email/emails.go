package email

import "fmt"

// BulkUploadResult summarizes a finished document resolution for the
// notification email.
type BulkUploadResult struct {
	DocumentUID       string
	Status            string
	ProcessedRows     int
	AgreementsCreated int
	Comments          string
}

// SendBulkUploadResultEmail notifies the requesting user that their bulk
// upload document finished resolving.
func (c *Client) SendBulkUploadResultEmail(to string, result BulkUploadResult) error {
	data := map[string]string{
		"DocumentUID":       result.DocumentUID,
		"Status":            result.Status,
		"ProcessedRows":     fmt.Sprintf("%d", result.ProcessedRows),
		"AgreementsCreated": fmt.Sprintf("%d", result.AgreementsCreated),
		"Comments":          result.Comments,
	}

	return c.SendEmail(
		[]string{to},
		fmt.Sprintf("Bulk upload %s finished: %s", result.DocumentUID, result.Status),
		TemplateBulkUploadResult,
		data,
	)
}
