// Package rules holds the business-rule validators shared by the live
// create/update paths and by backup restore validation. A restored
// dataset must pass exactly the same rules a user-entered one would.
package rules

import (
	"fmt"
	"strings"
)

// Per-field length ceilings. These bound user input everywhere a field
// is written, including rows arriving through a restored backup.
const (
	MaxTaskTitle       = 120
	MaxTaskDescription = 4000
	MaxWaitingReason   = 100
	MaxTagName         = 100

	MaxEventTitle        = 120
	MaxEventCompany      = 120
	MaxEventContactName  = 120
	MaxEventContactPhone = 40
	MaxEventType         = 40

	MaxExpenseCategory = 60
	MaxExpenseVendor   = 120
	MaxExpenseNotes    = 2000

	MaxQuoteTitle       = 120
	MaxQuoteScope       = 4000
	MaxQuoteBuilderName = 120
	MaxQuoteCurrency    = 10
	MaxQuoteNotes       = 4000

	MaxAttachmentKind     = 40
	MaxAttachmentURI      = 2000
	MaxAttachmentFileName = 255
	MaxAttachmentMimeType = 100

	MaxRoomName  = 120
	MaxRoomType  = 40
	MaxRoomFloor = 40

	MaxProjectName     = 120
	MaxProjectCurrency = 10
	MaxProjectAddress  = 255
)

// MaxLength rejects values whose trimmed length exceeds max. Empty
// values pass; presence is checked separately where required.
func MaxLength(value string, max int, label string) error {
	if value == "" {
		return nil
	}
	if len([]rune(strings.TrimSpace(value))) > max {
		return fmt.Errorf("%s must be %d characters or fewer", label, max)
	}
	return nil
}
