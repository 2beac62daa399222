package adapters

import "github.com/rs/zerolog"

func newTestLogger() *zerologWrapper {
	return &zerologWrapper{logger: zerolog.Nop()}
}
