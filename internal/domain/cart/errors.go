package cart

import "errors"

var ErrMissingProductID = errors.New("product id is required")
