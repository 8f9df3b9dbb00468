package model

import "errors"

// ErrNoData reports that no operations directory is available. Nothing may be
// initialized without one.
var ErrNoData = errors.New("operations data not loaded")
