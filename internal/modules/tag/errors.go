package tag

import "errors"

var ErrReconciliationFailed = errors.New("tag reconciliation failed")
