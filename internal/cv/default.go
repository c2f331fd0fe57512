package cv

import (
	_ "embed"
	"fmt"
	"sync"
)

//go:embed default.json
var defaultJSON []byte

var (
	defaultOnce sync.Once
	defaultDoc  Document
)

// Default returns a fresh copy of the bundled default document.
func Default() Document {
	defaultOnce.Do(func() {
		doc, err := Decode(defaultJSON)
		if err != nil {
			panic(fmt.Sprintf("cv: bundled default document is invalid: %v", err))
		}
		defaultDoc = doc
	})
	return Clone(defaultDoc)
}
