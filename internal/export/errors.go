package export

import "errors"

var ErrNoPoints = errors.New("export: no finite points to draw")
