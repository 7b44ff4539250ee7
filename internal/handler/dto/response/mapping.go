package response

import (
	"bookstore-backoffice/internal/pkg/errs"

	"github.com/jinzhu/copier"
)

// copyView copies same-named fields from a read view into a response DTO.
// Values such as decimal.Decimal are assigned whole, never field by field.
func copyView(to, from any) error {
	if err := copier.Copy(to, from); err != nil {
		return errs.Wrap(err, "map view to response")
	}
	return nil
}
