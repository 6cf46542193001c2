package docstore

import "errors"

var ErrMissingConfig = errors.New("document store configuration incomplete: DOCSTORE_BASE_URL is required")
